package router

import (
	"context"
	"strconv"

	"github.com/BrandonKowalski/trailhead/pkg/trailhead/constants"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/history"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/route"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/state"
)

// stateUpdate rides in the info slot of the replace navigations issued by
// Scope.SetState. It is stripped before anything user-visible sees it.
type stateUpdate struct {
	from string
}

// handleNavigate runs for every platform navigation. Order matters:
// blockers, then the OnNavigate hook, then matching and interception.
func (r *Router) handleNavigate(e *history.NavigateEvent) {
	if r.blockers.CheckAll() {
		e.PreventDefault()
		r.log.Debug("navigation blocked", "url", e.Destination.URL.String(), "type", e.Type.String())
		return
	}

	// Downloads and fragment jumps are observed but never intercepted.
	passive := e.Download != "" || e.HashChange

	info, su := splitInfo(e.Info)
	var stack route.Stack
	matched := false
	if !passive {
		stack, matched = route.MatchPath(r.routes, e.Destination.URL.Path)
	}

	if r.opts.OnNavigate != nil {
		r.opts.OnNavigate(&Attempt{
			Type:      e.Type,
			URL:       e.Destination.URL,
			Info:      info,
			Stack:     stack,
			StateOnly: su != nil,
			event:     e,
		})
		if e.DefaultPrevented() {
			r.log.Debug("navigation cancelled by callback", "url", e.Destination.URL.String())
			return
		}
	}

	if passive {
		return
	}
	if !matched {
		r.log.Debug("no route matched; leaving navigation to the platform", "url", e.Destination.URL.String())
		return
	}
	if !e.CanIntercept {
		return
	}

	nav := r.begin(e, info, su)
	dest := e.Destination
	e.Intercept(func(ctx context.Context) error {
		if nav.stateFrom != "" {
			r.cache.Share(nav.stateFrom, nav.cacheKey)
		}
		resources := r.resolveStack(nav.ctx, nav.cacheKey, stack, dest.URL)
		if r.opts.Mode == ModeSync {
			return nil
		}
		if err := waitAll(nav.ctx, resources); err != nil {
			r.abandon(nav)
			return err
		}
		return nil
	})
}

// begin records a navigation as in flight. It aborts the previous
// navigation's loader context and the idle context before any loader of the
// new navigation can start.
func (r *Router) begin(e *history.NavigateEvent, info any, su *stateUpdate) *navigation {
	seq := r.seq.Inc()
	ctx, cancel := context.WithCancel(e.Signal)

	nav := &navigation{
		seq:      seq,
		typ:      e.Type,
		url:      e.Destination.URL.String(),
		destID:   e.Destination.ID,
		cacheKey: e.Destination.ID,
		fresh:    e.Type == history.NavigationPush || e.Type == history.NavigationReplace,
		info:     info,
		ctx:      ctx,
	}
	if nav.cacheKey == "" {
		nav.cacheKey = constants.PendingKeyPrefix + strconv.FormatUint(seq, 10)
	}
	if su != nil {
		nav.stateFrom = su.from
	}

	r.mu.Lock()
	if r.navCancel != nil {
		r.navCancel()
	}
	if prev := r.inflight; prev != nil {
		r.abandonLocked(prev)
	}
	r.idleCancel()
	r.idleCtx, r.idleCancel = context.WithCancel(context.Background())
	r.navCancel = cancel
	r.inflight = nav
	r.mu.Unlock()

	// The platform may abort without a new navigation replacing this one.
	context.AfterFunc(ctx, func() { r.abandon(nav) })

	r.log.Debug("intercepting navigation",
		"url", nav.url,
		"type", e.Type.String(),
		"seq", seq,
		"mode", r.opts.Mode.String())
	return nav
}

// abandon forgets a navigation that ended without committing. Loader results
// cached for an entry that will never exist are evicted.
func (r *Router) abandon(nav *navigation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.abandonLocked(nav)
}

func (r *Router) abandonLocked(nav *navigation) {
	if nav.committed || nav.abandoned {
		return
	}
	nav.abandoned = true
	if r.inflight == nav {
		r.inflight = nil
	}
	if nav.fresh {
		r.cache.Evict(nav.cacheKey)
	}
}

// handleEntryChange bumps the snapshot version, settles the in-flight
// navigation's cache key and info, and notifies subscribers.
func (r *Router) handleEntryChange(ev history.CurrentEntryChangeEvent) {
	cur := r.nav.CurrentEntry()

	r.mu.Lock()
	r.version++
	if nav := r.inflight; nav != nil && nav.owns(ev.Type, cur) {
		nav.committed = true
		if nav.cacheKey != cur.ID {
			r.cache.Adopt(nav.cacheKey, cur.ID)
		}
		if nav.info != nil {
			r.info = &infoStamp{entryID: cur.ID, version: r.version, info: nav.info}
		}
		r.inflight = nil
	}
	r.mu.Unlock()

	r.log.Debug("entry committed", "url", cur.URL.String(), "type", ev.Type.String())
	r.notify()
}

func (r *Router) handleDispose(e *history.Entry) {
	r.cache.Evict(e.ID)
}

// updateState is the single write path for per-route state. Async updates
// become replace navigations so blockers and OnNavigate see them; sync
// updates rewrite the current entry in place.
func (r *Router) updateState(pos int, valueOrUpdater any, sync bool) *history.Result {
	if r.closed.Load() {
		return history.FailedResult(ErrClosed)
	}
	if r.nav == nil {
		r.log.Error("route state updated without a navigation primitive; nothing will happen", "position", pos)
		return history.FailedResult(ErrUnsupported)
	}

	cur := r.nav.CurrentEntry()
	env := state.Decode(cur.State).Apply(pos, valueOrUpdater)

	if !sync {
		return r.nav.Navigate(cur.URL.String(), history.NavigateOptions{
			Replace: true,
			State:   env,
			Info:    stateUpdate{from: cur.ID},
		})
	}

	if err := r.nav.UpdateCurrentEntry(env); err != nil {
		r.log.Error("route state update rejected by the platform", "position", pos, "error", err)
		return history.FailedResult(err)
	}
	r.mu.Lock()
	r.version++
	r.mu.Unlock()
	r.notify()
	return history.CompletedResult()
}

func splitInfo(info any) (any, *stateUpdate) {
	if su, ok := info.(stateUpdate); ok {
		return nil, &su
	}
	return info, nil
}
