package server

import (
	"time"

	"github.com/agentstation/sheetlink/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix string

	// Authentication settings
	AuthEnabled bool
	AuthHeader  string
	APIKey      string

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Upload preview limit
	MaxUploadBytes int64

	// Sheet defaults for requests that name none
	Spreadsheet string
	Worksheet   string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		PathPrefix:     "/api/v1",
		AuthHeader:     "X-API-Key",
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   2 * time.Minute,
		IdleTimeout:    120 * time.Second,
		MaxUploadBytes: constants.MaxUploadBytes,
		Worksheet:      "0",
	}
}
