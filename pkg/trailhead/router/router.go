package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/BrandonKowalski/trailhead/pkg/trailhead/blocker"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/history"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/internal"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/loader"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/route"
)

// staticKey is the entry identity of the fallback static location.
const staticKey = "static"

// Router coordinates platform navigations with route matching, loader data,
// per-route state and blockers. Each Router owns its own loader cache and
// blocker registry.
type Router struct {
	nav      history.Navigation
	routes   []*route.Route
	cache    *loader.Cache
	blockers *blocker.Registry
	opts     Options
	log      *slog.Logger

	seq        *atomic.Uint64
	blockerSeq *atomic.Uint64
	closed     *atomic.Bool

	mu         sync.Mutex
	version    uint64
	snap       *Location
	static     *Location
	inflight   *navigation
	info       *infoStamp
	navCancel  context.CancelFunc
	idleCtx    context.Context
	idleCancel context.CancelFunc
	subs       map[uint64]func()
	nextSub    uint64
	removers   []func()
}

// navigation is one intercepted navigation in flight. committed and
// abandoned are guarded by Router.mu.
type navigation struct {
	seq       uint64
	typ       history.NavigationType
	url       string
	destID    string
	cacheKey  string
	fresh     bool // Destination is an entry that does not exist yet
	info      any
	stateFrom string
	ctx       context.Context

	committed bool
	abandoned bool
}

// owns reports whether cur, made current by a navigation of type typ, is
// this navigation's destination.
func (n *navigation) owns(typ history.NavigationType, cur *history.Entry) bool {
	if n.abandoned || n.typ != typ {
		return false
	}
	if n.destID != "" {
		return n.destID == cur.ID
	}
	return cur.URL != nil && cur.URL.String() == n.url
}

// infoStamp ties ephemeral info to the snapshot version it belongs to.
type infoStamp struct {
	entryID string
	version uint64
	info    any
}

// New creates a Router over nav. A nil nav selects the configured fallback.
func New(nav history.Navigation, routes []*route.Route, opts Options) *Router {
	r := &Router{
		nav:        nav,
		routes:     routes,
		cache:      loader.NewCache(),
		blockers:   blocker.NewRegistry(),
		opts:       opts,
		log:        opts.Logger,
		seq:        atomic.NewUint64(0),
		blockerSeq: atomic.NewUint64(0),
		closed:     atomic.NewBool(false),
		subs:       make(map[uint64]func()),
	}
	if r.log == nil {
		r.log = internal.GetInternalLogger()
	}
	if opts.Cache != nil {
		r.cache = opts.Cache
	}
	if opts.Blockers != nil {
		r.blockers = opts.Blockers
	}
	r.idleCtx, r.idleCancel = context.WithCancel(context.Background())

	if nav == nil {
		r.initFallback()
		return r
	}

	r.removers = append(r.removers,
		nav.OnNavigate(r.handleNavigate),
		nav.OnCurrentEntryChange(r.handleEntryChange),
		nav.OnDispose(r.handleDispose),
		nav.OnBeforeUnload(r.blockers.CheckAll),
	)
	return r
}

// Cache exposes the router's loader cache.
func (r *Router) Cache() *loader.Cache { return r.cache }

// Blockers exposes the router's blocker registry.
func (r *Router) Blockers() *blocker.Registry { return r.blockers }

// Mode returns the loading mode.
func (r *Router) Mode() Mode { return r.opts.Mode }

// Supported reports whether a navigation primitive is available.
func (r *Router) Supported() bool { return r.nav != nil }

// Snapshot returns the current location. Repeated calls return the same
// pointer until the entry or its state changes. It is nil when running
// under FallbackNone.
func (r *Router) Snapshot() *Location {
	if r.nav == nil {
		return r.static
	}
	entry := r.nav.CurrentEntry()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snap != nil && r.snap.Key == entry.ID && r.snap.version == r.version {
		return r.snap
	}
	loc := newLocation(r.routes, entry.URL, entry.ID, entry.State, r.version)
	if r.info != nil && r.info.entryID == entry.ID && r.info.version == r.version {
		loc.Info = r.info.info
	}
	r.snap = loc
	return loc
}

// Subscribe registers fn to run after every snapshot change.
func (r *Router) Subscribe(fn func()) (unsubscribe func()) {
	r.mu.Lock()
	r.nextSub++
	id := r.nextSub
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

func (r *Router) notify() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Stack returns the matched stack of the current location, or nil.
func (r *Router) Stack() route.Stack {
	loc := r.Snapshot()
	if loc == nil {
		return nil
	}
	return loc.stack
}

// Scopes returns one Scope per position of the current matched stack.
func (r *Router) Scopes() []*Scope {
	loc := r.Snapshot()
	if loc == nil || len(loc.stack) == 0 {
		return nil
	}
	scopes := make([]*Scope, len(loc.stack))
	for i := range loc.stack {
		scopes[i] = &Scope{r: r, loc: loc, pos: i}
	}
	return scopes
}

// Navigate starts a push (or replace) navigation to the URL to, resolved
// against the current one.
func (r *Router) Navigate(to string, opts NavigateOptions) *history.Result {
	if r.closed.Load() {
		return history.FailedResult(ErrClosed)
	}
	if r.nav == nil {
		r.log.Error("navigate called without a navigation primitive; nothing will happen",
			"to", to, "fallback", r.opts.Fallback.String())
		return history.FailedResult(ErrUnsupported)
	}
	return r.nav.Navigate(to, opts)
}

// Traverse moves to an existing history entry by key.
func (r *Router) Traverse(key string) *history.Result {
	if r.closed.Load() {
		return history.FailedResult(ErrClosed)
	}
	if r.nav == nil {
		r.log.Error("traverse called without a navigation primitive; nothing will happen", "key", key)
		return history.FailedResult(ErrUnsupported)
	}
	return r.nav.Traverse(key, nil)
}

// Back traverses to the previous entry.
func (r *Router) Back() *history.Result { return r.step(-1) }

// Forward traverses to the next entry.
func (r *Router) Forward() *history.Result { return r.step(1) }

func (r *Router) step(delta int) *history.Result {
	if r.closed.Load() {
		return history.FailedResult(ErrClosed)
	}
	if r.nav == nil {
		r.log.Error("traverse called without a navigation primitive; nothing will happen", "delta", delta)
		return history.FailedResult(ErrUnsupported)
	}
	entries := r.nav.Entries()
	i := r.nav.CurrentEntry().Index + delta
	if i < 0 || i >= len(entries) {
		return history.FailedResult(history.ErrNoEntry)
	}
	return r.nav.Traverse(entries[i].Key, nil)
}

// Block registers a blocker with a fresh owner id.
func (r *Router) Block(pred blocker.Predicate) (unregister func()) {
	return r.BlockAs(fmt.Sprintf("blocker-%d", r.blockerSeq.Inc()), pred)
}

// BlockAs registers pred for owner id; registering the same id again swaps
// in the newer predicate. Without a navigation primitive blocking is
// disabled and this is a no-op.
func (r *Router) BlockAs(id string, pred blocker.Predicate) (unregister func()) {
	if r.nav == nil {
		return func() {}
	}
	return r.blockers.Register(id, pred)
}

// Load starts every loader of the current location and waits for them.
// Use it to hold a first render until data is ready in ModeAsync.
func (r *Router) Load(ctx context.Context) error {
	loc := r.Snapshot()
	if loc == nil {
		return nil
	}
	resources := r.resolveStack(r.idleContext(), loc.Key, loc.stack, loc.URL)
	return waitAll(ctx, resources)
}

// Close detaches the router from the platform and cancels outstanding
// loader contexts. Cached results stay readable.
func (r *Router) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}
	r.mu.Lock()
	removers := r.removers
	r.removers = nil
	if r.navCancel != nil {
		r.navCancel()
	}
	r.idleCancel()
	r.mu.Unlock()

	for _, remove := range removers {
		remove()
	}
}

func (r *Router) idleContext() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idleCtx
}

// resolveStack reads or starts the loader of every position under key.
// Each entry in the result lines up with a loader-bearing position.
func (r *Router) resolveStack(ctx context.Context, key string, stack route.Stack, u *url.URL) []positioned {
	var out []positioned
	for i := range stack {
		if !stack[i].Route.HasLoader() {
			continue
		}
		out = append(out, positioned{
			pos:     i,
			pattern: stack[i].Route.Pattern(),
			res:     r.resolve(ctx, key, i, stack[i], u),
		})
	}
	return out
}

func (r *Router) resolve(ctx context.Context, key string, pos int, m route.Match, u *url.URL) *loader.Resource {
	load := m.Route.Loader()
	params := m.Params
	return r.cache.Resolve(key, pos, func() (any, error) {
		return load(ctx, params, route.Request{URL: u})
	})
}

type positioned struct {
	pos     int
	pattern string
	res     *loader.Resource
}

// waitAll waits for every resource and fails fast on the first rejection.
func waitAll(ctx context.Context, resources []positioned) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range resources {
		p := p
		g.Go(func() error {
			_, err := p.res.Wait(gctx)
			switch {
			case err == nil:
				return nil
			case ctx.Err() != nil:
				return err
			case gctx.Err() != nil && errors.Is(err, gctx.Err()):
				// A sibling already failed; its error wins.
				return err
			default:
				return &LoaderError{Position: p.pos, Pattern: p.pattern, Err: err}
			}
		})
	}
	return g.Wait()
}
