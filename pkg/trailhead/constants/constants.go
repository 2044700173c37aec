// Package constants defines shared constants and environment variable names
// used throughout trailhead.
package constants

import "os"

// Development is the environment variable value for development mode.
const Development = "DEV"

// LogLevelEnvVar overrides the configured log level (debug, info, warn, error).
const LogLevelEnvVar = "TRAILHEAD_LOG_LEVEL"

// LogPathEnvVar overrides the configured log file path.
const LogPathEnvVar = "TRAILHEAD_LOG_PATH"

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv("ENVIRONMENT") == Development
}

// StateKey is the reserved key under which per-route state slots are stored
// inside a history entry's persisted state. Application state stored through
// navigate must not use it.
const StateKey = "__trailhead"

// PendingKeyPrefix prefixes the provisional cache key used for loaders that
// start before the platform has assigned the destination entry an id.
const PendingKeyPrefix = "pending:"

// MemoryBaseURL is the origin used by the in-memory history when none is given.
const MemoryBaseURL = "http://localhost/"
