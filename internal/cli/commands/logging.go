package commands

import (
	"io"
	"log/slog"
)

// levelForVerbosity maps the -d count to a log level.
func levelForVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// newLogger returns a text logger writing diagnostics to w.
func newLogger(w io.Writer, verbosity int) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelForVerbosity(verbosity),
	}))
}
