// Package logging builds the loggers the binaries hand to the engine and its
// adapters. Library code in this module accepts a *slog.Logger and defaults
// to discarding; constructing a real one is the binary's choice.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// replaceAttrs standardizes common keys (e.g., "error" -> "err").
func replaceAttrs(groups []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}

// New creates the CLI logger: human-readable text on Stderr, keeping Stdout
// free for the board renderer and learner messages.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttrs,
	}))
}

// NewJSON creates the server logger: one JSON object per line on Stderr, for
// collectors sitting behind the serve command.
func NewJSON(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttrs,
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
