package filehandler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipp01105/loggy/handler"
)

// DefaultBufferSize is the write buffer in front of the file
const DefaultBufferSize = 4096

// ErrNoFilename is returned when a file sink is configured without a path
var ErrNoFilename = errors.New("filehandler: filename is required")

// Config holds configuration for a file sink
type Config struct {
	// Filename is the path to the log file
	Filename string
	handler.Config
}

// applyFileDefaults fills in zero-value fields with defaults.
func applyFileDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = cfg.Filename
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = DefaultBufferSize
	}
}

// New opens cfg.Filename for appending, creating it and its directory if
// needed, and starts a sink that owns the file.
func New(cfg Config) (*handler.Sink, error) {
	if cfg.Filename == "" {
		return nil, ErrNoFilename
	}
	applyFileDefaults(&cfg)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(cfg.Filename), 0755); err != nil {
		return nil, fmt.Errorf("filehandler: create directory for %s: %w", cfg.Filename, err)
	}

	file, err := os.OpenFile(cfg.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("filehandler: open %s: %w", cfg.Filename, err)
	}

	return handler.New(cfg.Config, file, file), nil
}
