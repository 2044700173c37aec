// Package blocker keeps the set of predicates that can veto leaving the
// current view.
package blocker

import "sync"

// Predicate reports whether leaving right now should be blocked.
type Predicate func() bool

// Registry is a set of blockers keyed by owner id. The aggregate is the OR
// of every registered predicate; registration order carries no meaning.
type Registry struct {
	mu       sync.Mutex
	blockers map[string]*slot
}

type slot struct {
	pred Predicate
}

func NewRegistry() *Registry {
	return &Registry{blockers: make(map[string]*slot)}
}

// Register adds pred under id, replacing any predicate already registered
// for that id. The returned function unregisters it; calling it after the id
// was re-registered by a newer owner is a no-op.
func (r *Registry) Register(id string, pred Predicate) (unregister func()) {
	s := &slot{pred: pred}

	r.mu.Lock()
	r.blockers[id] = s
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			if r.blockers[id] == s {
				delete(r.blockers, id)
			}
			r.mu.Unlock()
		})
	}
}

// CheckAll evaluates predicates at call time and stops at the first true.
// Predicates run without the lock held, so one may unregister itself or
// another blocker while being evaluated.
func (r *Registry) CheckAll() bool {
	r.mu.Lock()
	preds := make([]Predicate, 0, len(r.blockers))
	for _, s := range r.blockers {
		preds = append(preds, s.pred)
	}
	r.mu.Unlock()

	for _, p := range preds {
		if p != nil && p() {
			return true
		}
	}
	return false
}

// Len returns the number of registered blockers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blockers)
}

// Reset drops every blocker.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.blockers = make(map[string]*slot)
	r.mu.Unlock()
}
