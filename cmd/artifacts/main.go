// Package main is the entry point for the artifacts command line tool.
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/forensicartifacts/artifacts/cmd/artifacts/app"
	"github.com/forensicartifacts/artifacts/internal/config"
)

// getLogLevel parses the ARTIFACTS_LOG_LEVEL environment variable and returns the corresponding slog.Level.
// Falls back to LOG_LEVEL. Defaults to slog.LevelInfo if neither is set or if the value is invalid.
func getLogLevel() slog.Level {
	v := config.NewEnvViper()

	levelStr := v.GetString(config.KeyLogLevel)
	if levelStr == "" {
		levelStr = os.Getenv("LOG_LEVEL")
	}

	level, ok := app.ParseLogLevel(levelStr)
	if !ok {
		slog.Warn("Invalid LOG_LEVEL, using INFO", "value", strings.ToLower(levelStr))
	}
	return level
}

func main() {
	// Logs go to stderr so stdout stays clean for definitions and JSON output
	app.LogLevel.Set(getLogLevel())
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: app.LogLevel})
	slog.SetDefault(slog.New(handler))

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
