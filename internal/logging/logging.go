// Package logging builds the diagnostic logger with charmbracelet/log.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const Prefix = "todo"

// Options configures New.
type Options struct {
	Level           string
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns info level with timestamps.
func DefaultOptions() Options {
	return Options{
		Level:           "info",
		ReportTimestamp: true,
		Prefix:          Prefix,
	}
}

// New returns a text logger writing to w. Unknown levels fall back to info.
func New(w io.Writer, opts Options) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that writes nowhere.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OpenFile opens (appending) the log file used while the TUI owns the
// terminal. The caller closes it.
func OpenFile(path string) (*os.File, error) {
	if path == "" {
		path = DefaultFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// DefaultFile is todo.log in the OS temp dir.
func DefaultFile() string {
	return filepath.Join(os.TempDir(), "todo.log")
}

// ValidLevel reports whether s names a log level.
func ValidLevel(s string) bool {
	_, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	return err == nil
}
