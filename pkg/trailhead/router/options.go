package router

import (
	"log/slog"
	"net/url"

	"github.com/BrandonKowalski/trailhead/pkg/trailhead/blocker"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/history"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/loader"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/route"
)

// Mode selects when an intercepted navigation commits.
type Mode int

const (
	// ModeAsync holds the commit until every loader of the destination has
	// settled. Nothing renders before its data exists.
	ModeAsync Mode = iota
	// ModeSync commits at once and leaves pending loaders to the render
	// layer, which suspends per match.
	ModeSync
)

func (m Mode) String() string {
	if m == ModeSync {
		return "sync"
	}
	return "async"
}

// Fallback selects what to render when no navigation primitive exists.
type Fallback int

const (
	// FallbackNone renders nothing.
	FallbackNone Fallback = iota
	// FallbackStatic renders a one-shot match of FallbackURL with navigation
	// and blocking disabled.
	FallbackStatic
)

func (f Fallback) String() string {
	if f == FallbackStatic {
		return "static"
	}
	return "none"
}

// NavigateOptions configures Router.Navigate.
type NavigateOptions = history.NavigateOptions

// Attempt describes a navigation that passed the blockers and is about to be
// matched and intercepted.
type Attempt struct {
	Type  history.NavigationType
	URL   *url.URL
	Info  any
	Stack route.Stack // nil when nothing matched, and for downloads and fragment jumps
	// StateOnly is set for the replace navigations issued by Scope.SetState.
	StateOnly bool

	event *history.NavigateEvent
}

// Cancel prevents the navigation. It takes priority over interception.
func (a *Attempt) Cancel() { a.event.PreventDefault() }

// Options configures a Router.
type Options struct {
	Mode        Mode
	Fallback    Fallback
	FallbackURL string // Ambient URL used by FallbackStatic

	// OnNavigate observes every unblocked navigation before interception
	// and may cancel it.
	OnNavigate func(*Attempt)

	Logger *slog.Logger // Defaults to the internal trailhead logger

	// Cache and Blockers are created per router when nil. Pass them in to
	// inspect or reset them from tests.
	Cache    *loader.Cache
	Blockers *blocker.Registry
}
