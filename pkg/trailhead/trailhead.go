// Package trailhead provides nested routing on top of a platform navigation
// primitive: path matching over a route tree, per-entry loader data,
// per-route state persisted on history entries, and navigation blocking.
//
// Most applications build a route tree with the route package, load a
// Config, and call New. The router package holds the runtime; history holds
// the platform contract and an in-memory implementation of it.
package trailhead

import (
	"log/slog"

	"github.com/BrandonKowalski/trailhead/pkg/trailhead/constants"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/history"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/internal"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/route"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/router"
)

// New configures logging from cfg and creates a router over nav. A nil nav
// selects the configured fallback.
func New(nav history.Navigation, routes []*route.Route, cfg Config) (*router.Router, error) {
	cfg = cfg.withEnv()

	if cfg.LogPath != "" {
		internal.SetLogPath(cfg.LogPath)
	}

	if constants.IsDevMode() {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else if cfg.LogLevel != "" {
		internal.SetInternalLogLevel(internal.ParseLevel(cfg.LogLevel))
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts.Logger = internal.GetInternalLogger()

	return router.New(nav, routes, opts), nil
}

// Close flushes and closes the log file, if one was opened.
func Close() {
	internal.CloseLogger()
}

// SetLogPath sets the full path for the log file, including filename.
// Creates all necessary parent directories.
// Call before New to take effect.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}
