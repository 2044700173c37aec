package router

import (
	"net/url"

	"github.com/BrandonKowalski/trailhead/pkg/trailhead/route"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/state"
)

// Location is the router's view of the current history entry. A Location is
// immutable; the router hands out the same pointer until the entry or its
// state changes.
type Location struct {
	URL *url.URL
	// Key is the identity of the history entry.
	Key string
	// State is the application state passed to Navigate.
	State any
	// Info is the ephemeral value of the navigation that produced this
	// snapshot. Any later snapshot, even of the same entry, has none.
	Info any

	slots   state.Envelope
	stack   route.Stack
	version uint64
}

// Slot returns the per-route state at position i.
func (l *Location) Slot(i int) any {
	return l.slots.Slot(i)
}

// Stack returns the matched stack of this location, or nil.
func (l *Location) Stack() route.Stack {
	return l.stack
}

func newLocation(routes []*route.Route, u *url.URL, key string, persisted any, version uint64) *Location {
	env := state.Decode(persisted)
	loc := &Location{
		URL:     u,
		Key:     key,
		State:   env.Value,
		slots:   env,
		version: version,
	}
	if u != nil {
		loc.stack, _ = route.MatchPath(routes, u.Path)
	}
	return loc
}
