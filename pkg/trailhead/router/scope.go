package router

import (
	"context"
	"fmt"

	"github.com/BrandonKowalski/trailhead/pkg/trailhead/blocker"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/history"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/loader"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/route"
)

// Scope is the bundle handed to the route rendered at one position of the
// matched stack: params, loader data, per-route state and blocking.
type Scope struct {
	r   *Router
	loc *Location
	pos int
}

func (s *Scope) Router() *Router { return s.r }

// Position is the index of this scope in the matched stack.
func (s *Scope) Position() int { return s.pos }

// Location is the snapshot this scope was built from.
func (s *Scope) Location() *Location { return s.loc }

func (s *Scope) Match() route.Match { return s.loc.stack[s.pos] }

func (s *Scope) Route() *route.Route { return s.loc.stack[s.pos].Route }

func (s *Scope) Params() route.Params { return s.loc.stack[s.pos].Params }

// Info returns the ephemeral info of the navigation that produced this
// scope's snapshot.
func (s *Scope) Info() any { return s.loc.Info }

// Data returns the loader resource for this position, or nil when the route
// has no loader. The resource is cached per entry, so repeated calls return
// the same pointer and never rerun the loader.
func (s *Scope) Data() *loader.Resource {
	m := s.Match()
	if !m.Route.HasLoader() {
		return nil
	}
	return s.r.resolve(s.r.idleContext(), s.loc.Key, s.pos, m, s.loc.URL)
}

// State reads this position's slot from the current entry.
func (s *Scope) State() any {
	loc := s.r.Snapshot()
	if loc == nil {
		return nil
	}
	return loc.Slot(s.pos)
}

// SetState stores a value, or applies a state.Updater, through a replace
// navigation. State reads the old value until the returned result commits.
func (s *Scope) SetState(valueOrUpdater any) *history.Result {
	return s.r.updateState(s.pos, valueOrUpdater, false)
}

// SetStateSync stores a value, or applies a state.Updater, on the current
// entry in place and notifies subscribers before returning. On error the
// entry is unchanged and nobody is notified.
func (s *Scope) SetStateSync(valueOrUpdater any) error {
	return <-s.r.updateState(s.pos, valueOrUpdater, true).Finished
}

// ResetState clears this position's slot.
func (s *Scope) ResetState() error {
	return s.SetStateSync(nil)
}

// Block registers a blocker owned by whoever holds this scope. Call the
// returned function on teardown.
func (s *Scope) Block(pred blocker.Predicate) (unregister func()) {
	return s.r.BlockAs(fmt.Sprintf("%s@%d#%d", s.Route().Pattern(), s.pos, s.r.blockerSeq.Inc()), pred)
}

type scopeKey struct{}

type routerKey struct{}

// WithScope returns a context carrying s and its router.
func WithScope(ctx context.Context, s *Scope) context.Context {
	ctx = context.WithValue(ctx, routerKey{}, s.r)
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithRouter returns a context carrying r.
func WithRouter(ctx context.Context, r *Router) context.Context {
	return context.WithValue(ctx, routerKey{}, r)
}

// ScopeFrom returns the scope stored by WithScope. It panics with
// ErrOutsideRouter when there is none.
func ScopeFrom(ctx context.Context) *Scope {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	if !ok || s == nil {
		panic(ErrOutsideRouter)
	}
	return s
}

// RouterFrom returns the router stored by WithRouter or WithScope. It panics
// with ErrOutsideRouter when there is none.
func RouterFrom(ctx context.Context) *Router {
	r, ok := ctx.Value(routerKey{}).(*Router)
	if !ok || r == nil {
		panic(ErrOutsideRouter)
	}
	return r
}
