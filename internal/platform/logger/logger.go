package logger

import (
	"log/slog"
	"os"
)

// New returns a text slog logger writing to stderr at the given level.
// Services receive it through their WithLogger options; the terminal
// front-end keeps stdout clean for rendered tables.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
