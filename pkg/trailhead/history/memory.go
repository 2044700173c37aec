package history

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"

	"github.com/BrandonKowalski/trailhead/pkg/trailhead/constants"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/state"
)

// MemoryOption configures a Memory history.
type MemoryOption func(*Memory)

// WithStructuredClone stores every entry state in serialized form and hands
// out decoded copies, like a browser does.
func WithStructuredClone() MemoryOption {
	return func(m *Memory) { m.clone = true }
}

// WithOpaqueDestinations hides the destination id of push and replace
// navigations until they commit.
func WithOpaqueDestinations() MemoryOption {
	return func(m *Memory) { m.opaque = true }
}

// Memory is an in-memory Navigation. Intercept handlers run on their own
// goroutine; listeners run on the goroutine that caused the event.
type Memory struct {
	mu      sync.Mutex
	stack   *Stack
	ongoing *pending
	loads   []*url.URL
	clone   bool
	opaque  bool

	navigate  listeners[func(*NavigateEvent)]
	change    listeners[func(CurrentEntryChangeEvent)]
	dispose   listeners[func(*Entry)]
	unloading listeners[func() bool]
}

var _ Navigation = (*Memory)(nil)

// NewMemory creates a history whose single entry is initialURL, resolved
// against constants.MemoryBaseURL.
func NewMemory(initialURL string, opts ...MemoryOption) (*Memory, error) {
	base, err := url.Parse(constants.MemoryBaseURL)
	if err != nil {
		return nil, err
	}
	ref, err := url.Parse(initialURL)
	if err != nil {
		return nil, fmt.Errorf("history: parse initial url: %w", err)
	}

	m := &Memory{}
	for _, opt := range opts {
		opt(m)
	}
	m.stack = NewStack(&Entry{
		ID:  uuid.NewString(),
		Key: uuid.NewString(),
		URL: base.ResolveReference(ref),
	})
	return m, nil
}

func (m *Memory) CurrentEntry() *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyEntry(m.stack.Current())
}

func (m *Memory) Entries() []*Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.stack.Entries()
	for i, e := range entries {
		entries[i] = m.copyEntry(e)
	}
	return entries
}

// DocumentLoads lists navigations nobody intercepted and that would have
// loaded a new document.
func (m *Memory) DocumentLoads() []*url.URL {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*url.URL, len(m.loads))
	copy(out, m.loads)
	return out
}

func (m *Memory) Navigate(rawURL string, opts NavigateOptions) *Result {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return FailedResult(fmt.Errorf("history: parse url: %w", err))
	}
	st, err := m.store(opts.State)
	if err != nil {
		return FailedResult(fmt.Errorf("history: clone state: %w", err))
	}

	m.mu.Lock()
	cur := m.stack.Current()
	target := cur.URL.ResolveReference(ref)
	typ := NavigationPush
	key := uuid.NewString()
	if opts.Replace {
		typ = NavigationReplace
		key = cur.Key
	}
	entry := &Entry{ID: uuid.NewString(), Key: key, URL: target, State: st}
	hashChange := isHashChange(cur.URL, target)
	sameOrigin := target.Scheme == cur.URL.Scheme && target.Host == cur.URL.Host
	m.mu.Unlock()

	dest := Destination{
		URL:          cloneURL(target),
		ID:           entry.ID,
		Key:          key,
		State:        m.load(st),
		SameDocument: hashChange,
	}
	if m.opaque {
		dest.ID = ""
	}

	return m.dispatch(typ, dest, opts.Info, sameOrigin, func() (*Entry, []*Entry) {
		if opts.Replace {
			return m.stack.Current(), []*Entry{m.stack.Replace(entry)}
		}
		from := m.stack.Current()
		return from, m.stack.Push(entry)
	})
}

// Traverse makes the entry with key current.
func (m *Memory) Traverse(key string, info any) *Result {
	m.mu.Lock()
	cur := m.stack.Current()
	target, ok := m.stack.Find(key)
	if !ok {
		m.mu.Unlock()
		return FailedResult(ErrNoEntry)
	}
	if target == cur {
		m.mu.Unlock()
		return CompletedResult()
	}
	dest := Destination{
		URL:          cloneURL(target.URL),
		ID:           target.ID,
		Key:          target.Key,
		State:        m.load(target.State),
		SameDocument: isHashChange(cur.URL, target.URL),
	}
	m.mu.Unlock()

	return m.dispatch(NavigationTraverse, dest, info, true, func() (*Entry, []*Entry) {
		from := m.stack.Current()
		m.stack.MoveTo(key)
		return from, nil
	})
}

// Back traverses one entry back.
func (m *Memory) Back() *Result {
	m.mu.Lock()
	prev := m.stack.At(m.stack.CurrentIndex() - 1)
	m.mu.Unlock()
	if prev == nil {
		return FailedResult(ErrNoEntry)
	}
	return m.Traverse(prev.Key, nil)
}

// Forward traverses one entry forward.
func (m *Memory) Forward() *Result {
	m.mu.Lock()
	next := m.stack.At(m.stack.CurrentIndex() + 1)
	m.mu.Unlock()
	if next == nil {
		return FailedResult(ErrNoEntry)
	}
	return m.Traverse(next.Key, nil)
}

func (m *Memory) UpdateCurrentEntry(st any) error {
	stored, err := m.store(st)
	if err != nil {
		return fmt.Errorf("history: clone state: %w", err)
	}
	m.mu.Lock()
	m.stack.Current().State = stored
	m.mu.Unlock()
	return nil
}

// Unload simulates the document being closed. It reports true when a
// before-unload hook asked to keep the page.
func (m *Memory) Unload() (prevented bool) {
	for _, fn := range m.unloading.snapshot() {
		if fn() {
			prevented = true
		}
	}
	return prevented
}

func (m *Memory) OnNavigate(fn func(*NavigateEvent)) func() { return m.navigate.add(fn) }

func (m *Memory) OnCurrentEntryChange(fn func(CurrentEntryChangeEvent)) func() {
	return m.change.add(fn)
}

func (m *Memory) OnDispose(fn func(*Entry)) func() { return m.dispose.add(fn) }

func (m *Memory) OnBeforeUnload(fn func() bool) func() { return m.unloading.add(fn) }

func (m *Memory) dispatch(typ NavigationType, dest Destination, info any, canIntercept bool, commit func() (*Entry, []*Entry)) *Result {
	ctx, cancel := context.WithCancel(context.Background())
	nav := newPending(cancel)

	m.mu.Lock()
	if m.ongoing != nil {
		m.ongoing.fail(ErrAborted)
	}
	m.ongoing = nav
	m.mu.Unlock()

	ev := &NavigateEvent{
		Type:         typ,
		Destination:  dest,
		CanIntercept: canIntercept,
		HashChange:   dest.SameDocument,
		Info:         info,
		Signal:       ctx,
	}
	for _, fn := range m.navigate.snapshot() {
		fn(ev)
	}

	if ev.DefaultPrevented() {
		m.finish(nav, ErrAborted)
		return nav.result()
	}

	if !ev.Intercepted() {
		if dest.SameDocument {
			m.commit(nav, typ, commit)
			return nav.result()
		}
		m.mu.Lock()
		m.loads = append(m.loads, cloneURL(dest.URL))
		m.mu.Unlock()
		m.finish(nav, nil)
		return nav.result()
	}

	handlers := ev.handlers
	go func() {
		for _, h := range handlers {
			if err := h(ctx); err != nil {
				m.finish(nav, err)
				return
			}
		}
		if ctx.Err() != nil {
			m.finish(nav, ErrAborted)
			return
		}
		m.commit(nav, typ, commit)
	}()
	return nav.result()
}

func (m *Memory) commit(nav *pending, typ NavigationType, commit func() (*Entry, []*Entry)) {
	m.mu.Lock()
	if m.ongoing != nav {
		m.mu.Unlock()
		nav.fail(ErrAborted)
		return
	}
	from, disposed := commit()
	m.ongoing = nil
	fromCopy := m.copyEntry(from)
	disposedCopies := make([]*Entry, len(disposed))
	for i, e := range disposed {
		disposedCopies[i] = m.copyEntry(e)
	}
	m.mu.Unlock()

	nav.commit()
	for _, fn := range m.change.snapshot() {
		fn(CurrentEntryChangeEvent{Type: typ, From: fromCopy})
	}
	for _, e := range disposedCopies {
		for _, fn := range m.dispose.snapshot() {
			fn(e)
		}
	}
	nav.finish(nil)
}

func (m *Memory) finish(nav *pending, err error) {
	m.mu.Lock()
	if m.ongoing == nav {
		m.ongoing = nil
	}
	m.mu.Unlock()
	if err != nil {
		nav.fail(err)
		return
	}
	nav.commit()
	nav.finish(nil)
}

func (m *Memory) store(st any) (any, error) {
	if !m.clone {
		return st, nil
	}
	return state.Marshal(st)
}

func (m *Memory) load(stored any) any {
	if !m.clone {
		return stored
	}
	data, ok := stored.([]byte)
	if !ok {
		return stored
	}
	v, err := state.Unmarshal(data)
	if err != nil {
		return nil
	}
	return v
}

func (m *Memory) copyEntry(e *Entry) *Entry {
	if e == nil {
		return nil
	}
	return &Entry{
		ID:    e.ID,
		Key:   e.Key,
		URL:   cloneURL(e.URL),
		State: m.load(e.State),
		Index: e.Index,
	}
}

// pending tracks one navigation's result channels.
type pending struct {
	cancel     context.CancelFunc
	committed  chan error
	finished   chan error
	commitOnce sync.Once
	finishOnce sync.Once
}

func newPending(cancel context.CancelFunc) *pending {
	return &pending{
		cancel:    cancel,
		committed: make(chan error, 1),
		finished:  make(chan error, 1),
	}
}

func (p *pending) result() *Result {
	return &Result{Committed: p.committed, Finished: p.finished}
}

func (p *pending) commit() {
	p.commitOnce.Do(func() {
		p.committed <- nil
		close(p.committed)
	})
}

// finish settles the result. The signal stays live after a success so work
// started by intercept handlers may outlive the commit.
func (p *pending) finish(err error) {
	p.finishOnce.Do(func() {
		if err != nil {
			p.cancel()
		}
		p.finished <- err
		close(p.finished)
	})
}

func (p *pending) fail(err error) {
	p.cancel()
	p.commitOnce.Do(func() {
		p.committed <- err
		close(p.committed)
	})
	p.finish(err)
}

type listeners[T any] struct {
	mu   sync.Mutex
	next int
	fns  []listener[T]
}

type listener[T any] struct {
	id int
	fn T
}

func (l *listeners[T]) add(fn T) func() {
	l.mu.Lock()
	l.next++
	id := l.next
	l.fns = append(l.fns, listener[T]{id: id, fn: fn})
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, ls := range l.fns {
			if ls.id == id {
				l.fns = append(l.fns[:i:i], l.fns[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners[T]) snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.fns))
	for i, ls := range l.fns {
		out[i] = ls.fn
	}
	return out
}

func isHashChange(from, to *url.URL) bool {
	if to.Fragment == "" || from.Fragment == to.Fragment {
		return false
	}
	a, b := *from, *to
	a.Fragment, b.Fragment = "", ""
	a.RawFragment, b.RawFragment = "", ""
	return a.String() == b.String()
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
