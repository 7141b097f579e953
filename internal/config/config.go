// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL     string
	ListenAddr     string
	DBPath         string
	SecretKey      []byte
	LoginRoute     string
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// A dotenv file (SCHOOLPORTAL_ENV_FILE, default ".env") is loaded first when it exists;
// variables already present in the environment are not overridden by it.
// SCHOOLPORTAL_SECRET_KEY is required: 64 hex characters (32 bytes) used to encrypt
// stored session tokens. Optional variables with defaults:
// SCHOOLPORTAL_API_BASE_URL (http://127.0.0.1:8000/api), SCHOOLPORTAL_LISTEN_ADDR
// (127.0.0.1:8080), SCHOOLPORTAL_DB_PATH (schoolportal.db), SCHOOLPORTAL_LOGIN_ROUTE
// (/admin-login), SCHOOLPORTAL_REQUEST_TIMEOUT (20s).
func Load() (*Config, error) {
	envFile := ".env"
	if v, ok := os.LookupEnv("SCHOOLPORTAL_ENV_FILE"); ok && v != "" {
		envFile = v
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %q: %w", envFile, err)
	}

	apiBaseURL := "http://127.0.0.1:8000/api"
	if v, ok := os.LookupEnv("SCHOOLPORTAL_API_BASE_URL"); ok && v != "" {
		apiBaseURL = v
	}
	u, err := url.Parse(apiBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("SCHOOLPORTAL_API_BASE_URL must be an absolute URL, got %q", apiBaseURL)
	}
	apiBaseURL = strings.TrimRight(apiBaseURL, "/")

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("SCHOOLPORTAL_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "schoolportal.db"
	if v, ok := os.LookupEnv("SCHOOLPORTAL_DB_PATH"); ok {
		dbPath = v
	}

	rawKey := os.Getenv("SCHOOLPORTAL_SECRET_KEY")
	if rawKey == "" {
		return nil, errors.New("SCHOOLPORTAL_SECRET_KEY is required")
	}
	secretKey, err := hex.DecodeString(rawKey)
	if err != nil || len(secretKey) != 32 {
		return nil, errors.New("SCHOOLPORTAL_SECRET_KEY must be 64 hex characters (32 bytes)")
	}

	loginRoute := "/admin-login"
	if v, ok := os.LookupEnv("SCHOOLPORTAL_LOGIN_ROUTE"); ok && v != "" {
		if !strings.HasPrefix(v, "/") {
			return nil, fmt.Errorf("SCHOOLPORTAL_LOGIN_ROUTE must start with '/', got %q", v)
		}
		loginRoute = v
	}

	requestTimeout := 20 * time.Second
	if v, ok := os.LookupEnv("SCHOOLPORTAL_REQUEST_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SCHOOLPORTAL_REQUEST_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("SCHOOLPORTAL_REQUEST_TIMEOUT must be positive, got %s", parsed)
		}
		requestTimeout = parsed
	}

	return &Config{
		APIBaseURL:     apiBaseURL,
		ListenAddr:     listenAddr,
		DBPath:         dbPath,
		SecretKey:      secretKey,
		LoginRoute:     loginRoute,
		RequestTimeout: requestTimeout,
	}, nil
}
