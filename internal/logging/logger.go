package logging

import (
	"log/slog"
	"os"
)

// stdoutLevel is the floor for the stdout JSON stream. The database handler
// applies its own, stricter floor (ERROR+), so INFO here keeps request-level
// detail out of system_logs.
const stdoutLevel = slog.LevelInfo

// Setup installs the stdout JSON logger as the default. main replaces it with
// a fan-out logger once the database is reachable; this one covers boot
// failures before that point.
func Setup() {
	slog.SetDefault(slog.New(NewStdoutHandler()))
}

// NewStdoutHandler is the stdout leg of the fan-out logger.
func NewStdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: stdoutLevel})
}
