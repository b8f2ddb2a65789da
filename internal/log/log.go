// Package log holds the process logger. Library packages take a *slog.Logger
// explicitly; only the CLI talks to this package.
package log

import (
	"log/slog"
	"os"
)

var logger = slog.New(slog.DiscardHandler)

// Setup installs a text logger on stderr. Debug output is enabled when verbose
// is set.
func Setup(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Logger returns the logger installed by Setup.
func Logger() *slog.Logger {
	return logger
}

func Debug(msg string, args ...any) { logger.Debug(msg, args...) }
func Info(msg string, args ...any)  { logger.Info(msg, args...) }
func Warn(msg string, args ...any)  { logger.Warn(msg, args...) }
func Error(msg string, args ...any) { logger.Error(msg, args...) }
