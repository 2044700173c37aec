// Package history describes the platform navigation primitive the router
// coordinates with, and provides Memory, a complete in-memory version of it.
//
// The contract mirrors a browser Navigation API: entries have an id that
// never changes and is never shared, navigations are announced through a
// cancelable NavigateEvent that a listener may intercept, and the platform
// reports commits and entry disposal.
package history

import (
	"context"
	"errors"
	"net/url"
)

var (
	// ErrAborted is reported when a navigation is cancelled or superseded
	// before it commits.
	ErrAborted = errors.New("history: navigation aborted")

	// ErrNoEntry is returned when traversing to an unknown entry.
	ErrNoEntry = errors.New("history: no such entry")
)

// NavigationType says how a navigation changes the entry list.
type NavigationType int

const (
	NavigationPush NavigationType = iota
	NavigationReplace
	NavigationTraverse
	NavigationReload
)

func (t NavigationType) String() string {
	switch t {
	case NavigationPush:
		return "push"
	case NavigationReplace:
		return "replace"
	case NavigationTraverse:
		return "traverse"
	case NavigationReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Entry is one unit of navigation history. Entries are owned by the platform;
// callers must treat them as read-only.
type Entry struct {
	ID    string // Unique per entry, never reused
	Key   string // Slot in the list; kept across replace
	URL   *url.URL
	State any
	Index int
}

// Destination is where a navigation is headed. ID is empty when the
// platform does not reveal the new entry's identity before commit.
type Destination struct {
	URL          *url.URL
	ID           string
	Key          string
	State        any
	SameDocument bool
}

// InterceptHandler runs before the platform commits an intercepted
// navigation. Returning an error takes the navigation's error path and the
// entry is never committed.
type InterceptHandler func(ctx context.Context) error

// NavigateEvent announces a navigation to listeners.
type NavigateEvent struct {
	Type         NavigationType
	Destination  Destination
	CanIntercept bool
	HashChange   bool
	Download     string
	Info         any
	// Signal is done when the platform aborts the navigation.
	Signal context.Context

	prevented bool
	handlers  []InterceptHandler
}

// PreventDefault cancels the navigation.
func (e *NavigateEvent) PreventDefault() { e.prevented = true }

func (e *NavigateEvent) DefaultPrevented() bool { return e.prevented }

// Intercept takes over the navigation. It panics when the event cannot be
// intercepted, the same way the platform would throw.
func (e *NavigateEvent) Intercept(h InterceptHandler) {
	if !e.CanIntercept {
		panic("history: navigation cannot be intercepted")
	}
	e.handlers = append(e.handlers, h)
}

func (e *NavigateEvent) Intercepted() bool { return len(e.handlers) > 0 }

// CurrentEntryChangeEvent is reported after the current entry switches.
type CurrentEntryChangeEvent struct {
	Type NavigationType
	From *Entry
}

// NavigateOptions configures an imperative navigation.
type NavigateOptions struct {
	Replace bool
	State   any
	Info    any
}

// Result reports the progress of one navigation. Each channel receives
// exactly one value and is then closed: nil on success, an error otherwise.
type Result struct {
	Committed <-chan error
	Finished  <-chan error
}

// Wait blocks until the navigation finishes or ctx is done.
func (r *Result) Wait(ctx context.Context) error {
	select {
	case err := <-r.Finished:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FailedResult returns a result that has already failed with err.
func FailedResult(err error) *Result {
	committed := make(chan error, 1)
	finished := make(chan error, 1)
	committed <- err
	finished <- err
	close(committed)
	close(finished)
	return &Result{Committed: committed, Finished: finished}
}

// CompletedResult returns a result that has already committed and finished.
func CompletedResult() *Result {
	return FailedResult(nil)
}

// Navigation is the platform navigation primitive. Listeners are called
// synchronously on the goroutine that triggered the event; the returned
// functions remove them.
type Navigation interface {
	CurrentEntry() *Entry
	Entries() []*Entry
	Navigate(rawURL string, opts NavigateOptions) *Result
	Traverse(key string, info any) *Result
	// UpdateCurrentEntry rewrites the current entry's state in place. It
	// fails when the platform cannot store the value.
	UpdateCurrentEntry(state any) error

	OnNavigate(fn func(*NavigateEvent)) (remove func())
	OnCurrentEntryChange(fn func(CurrentEntryChangeEvent)) (remove func())
	OnDispose(fn func(*Entry)) (remove func())
	// OnBeforeUnload hooks document unload; a hook returning true asks the
	// platform to prompt before leaving.
	OnBeforeUnload(fn func() bool) (remove func())
}
