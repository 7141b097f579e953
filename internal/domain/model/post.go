package model

import "time"

// EventPost is a news or event announcement shown on the public site.
// Description is markdown.
type EventPost struct {
	ID          int64
	Description string
	FileURL     string
	CreatedAt   time.Time
}

// Short is a short showcase video.
type Short struct {
	ID        int64
	Title     string
	Caption   string
	VideoURL  string
	CreatedAt time.Time
}
