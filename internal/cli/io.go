// Package cli holds shared plumbing for the graft commands: source
// loading, logger setup and report printing.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/aretw0/graft/internal/logging"
)

// ReadSource loads DSL or workflow text from a file, or from stdin when
// path is "-" or empty.
func ReadSource(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("error reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", path, err)
	}
	return string(data), nil
}

// WriteOutput writes data to a file, or to stdout when path is "-" or
// empty.
func WriteOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

// StdoutIsTerminal reports whether stdout is an interactive terminal.
// Piped output gets plain text instead of rendered markdown.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewLogger configures the command logger. Quiet by default; debug mode
// writes structured logs to stderr.
func NewLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}
