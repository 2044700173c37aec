package trailhead

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrInvalidMode indicates a config named a loading mode other than
	// "async" or "sync".
	ErrInvalidMode = errors.New("invalid loading mode")

	// ErrInvalidFallback indicates a config named a fallback other than
	// "none" or "static".
	ErrInvalidFallback = errors.New("invalid fallback")
)

// ConfigError represents a configuration that could not be read or does not
// make sense. These are setup mistakes; the router is never created.
type ConfigError struct {
	Op  string // Step that failed (e.g., "read", "mode")
	Err error  // Underlying error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("trailhead: config %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("trailhead: config %s", e.Op)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error.
func NewConfigError(op string, err error) *ConfigError {
	return &ConfigError{Op: op, Err: err}
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
