// Package audit records every keep/delete decision as JSON lines so that
// deletions, which cannot be undone, can be traced afterwards.
package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Open appends to the log at path, creating it and its parent directory.
// An empty path yields a disabled logger and a no-op closer.
func Open(path string) (*zerolog.Logger, io.Closer, error) {
	if path == "" {
		nop := zerolog.Nop()
		return &nop, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create audit log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open audit log: %w", err)
	}

	logger := New(f)
	return &logger, f, nil
}

// New returns a logger writing timestamped JSON events to w.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Str("app", "winnow").Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
