package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// FileName is the log file created next to the state database
const FileName = "shotpro.log"

// Options configures New
type Options struct {
	// Path is the log file. Empty logs to stderr.
	Path   string
	Level  string
	Prefix string
}

// New creates a logger with timestamps. The returned closer releases the log file.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.Path != "" {
		if dir := filepath.Dir(opts.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          opts.Prefix,
	})
	return logger, closer, nil
}

// PathFor returns the log file path that sits beside dbPath
func PathFor(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), FileName)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
