package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/BrandonKowalski/trailhead/pkg/trailhead/history"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/loader"
)

// Sentinel errors for common conditions.
var (
	// ErrOutsideRouter indicates a scope or router accessor was used on a
	// context that no router populated. This is a wiring mistake and is
	// raised as a panic.
	ErrOutsideRouter = errors.New("trailhead: used outside of a router")

	// ErrUnsupported indicates the platform has no navigation primitive, so
	// the router is running in a fallback mode that cannot navigate.
	ErrUnsupported = errors.New("trailhead: navigation primitive unavailable")

	// ErrClosed is returned by operations on a closed router.
	ErrClosed = errors.New("trailhead: router closed")
)

// LoaderError wraps a loader failure with the match it belongs to.
type LoaderError struct {
	Position int    // Index in the matched stack
	Pattern  string // Route pattern at that position
	Err      error  // Loader error
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("trailhead: loader %q at position %d: %v", e.Pattern, e.Position, e.Err)
}

func (e *LoaderError) Unwrap() error {
	return e.Err
}

// IsLoaderError checks if an error came from a route loader.
func IsLoaderError(err error) bool {
	var loaderErr *LoaderError
	return errors.As(err, &loaderErr)
}

// IsPending checks if an error is the suspension signal of a loader that has
// not settled yet.
func IsPending(err error) bool {
	var pending *loader.PendingError
	return errors.As(err, &pending)
}

// IsAborted checks if an error means a navigation was cancelled, blocked or
// superseded rather than failed.
func IsAborted(err error) bool {
	return errors.Is(err, history.ErrAborted) || errors.Is(err, context.Canceled)
}
