package core

import (
	"io"
	"log/slog"
)

// SetupLogger builds a text logger; prod logs at info, everything else at debug.
func SetupLogger(env string, w io.Writer) *slog.Logger {
	level := slog.LevelDebug
	if env == EnvProd {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
