package loader

import (
	"context"
	"fmt"
	"sync"
)

// Status is the settlement state of a Resource.
type Status int

const (
	StatusPending Status = iota
	StatusFulfilled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// PendingError is returned by Resource.Read while the loader is still
// running. Render layers suspend on Done and read again once it closes.
type PendingError struct {
	done <-chan struct{}
}

func (e *PendingError) Error() string { return "loader: result pending" }

// Done is closed when the resource settles.
func (e *PendingError) Done() <-chan struct{} { return e.done }

// Resource is a single loader execution. It settles exactly once.
type Resource struct {
	done chan struct{}

	mu     sync.RWMutex
	status Status
	value  any
	err    error
}

func start(fn func() (any, error)) *Resource {
	r := &Resource{done: make(chan struct{})}
	go r.run(fn)
	return r
}

// Settled returns a resource that is already fulfilled or rejected.
func Settled(value any, err error) *Resource {
	r := &Resource{done: make(chan struct{})}
	r.settle(value, err)
	return r
}

func (r *Resource) run(fn func() (any, error)) {
	var (
		value any
		err   error
	)
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("loader: panic: %v", p)
		}
		r.settle(value, err)
	}()
	value, err = fn()
}

func (r *Resource) settle(value any, err error) {
	r.mu.Lock()
	if err != nil {
		r.status = StatusRejected
		r.err = err
	} else {
		r.status = StatusFulfilled
		r.value = value
	}
	r.mu.Unlock()
	close(r.done)
}

func (r *Resource) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Done is closed once the loader has returned.
func (r *Resource) Done() <-chan struct{} { return r.done }

// Read never blocks. It returns the value when fulfilled, the loader's error
// when rejected and a *PendingError otherwise.
func (r *Resource) Read() (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch r.status {
	case StatusFulfilled:
		return r.value, nil
	case StatusRejected:
		return nil, r.err
	default:
		return nil, &PendingError{done: r.done}
	}
}

// Wait blocks until the resource settles or ctx is done.
func (r *Resource) Wait(ctx context.Context) (any, error) {
	select {
	case <-r.done:
		return r.Read()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
