package web

import "embed"

// StaticFS holds the embedded static assets (the portal stylesheet).
//
//go:embed static/*
var StaticFS embed.FS
