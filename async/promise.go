// Package async provides a settle-once Promise and the orchestrator that
// wraps one asynchronous validation call with start/stop notifications.
package async

import (
	"context"
	"fmt"
	"sync"
)

// State is the settlement state of a Promise.
type State int

const (
	Pending State = iota
	Fulfilled
	Rejected
)

func (s State) String() string {
	switch s {
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Thenable is anything that can report its eventual outcome through
// callbacks. Exactly one of the callbacks is invoked, once.
type Thenable interface {
	Then(onFulfilled func(value any), onRejected func(reason any))
}

// Rejection is the error Await returns for a rejected promise. Reason may be
// nil: a rejection without payload is still a rejection.
type Rejection struct {
	Reason any
}

func (r *Rejection) Error() string {
	if r.Reason == nil {
		return "async: promise rejected"
	}
	if err, ok := r.Reason.(error); ok {
		return "async: promise rejected: " + err.Error()
	}
	return fmt.Sprintf("async: promise rejected: %v", r.Reason)
}

// Unwrap exposes an error reason to errors.Is/As.
func (r *Rejection) Unwrap() error {
	err, _ := r.Reason.(error)
	return err
}

type callbacks struct {
	onFulfilled func(any)
	onRejected  func(any)
}

// Promise settles at most once. Callbacks registered with Then run
// synchronously on the settling goroutine, or immediately when the promise
// has already settled. It is safe for concurrent use.
type Promise struct {
	mu      sync.Mutex
	state   State
	value   any
	waiters []callbacks
	done    chan struct{}
}

// NewPromise returns a pending promise.
func NewPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Resolved returns a promise fulfilled with v.
func Resolved(v any) *Promise {
	p := NewPromise()
	p.Resolve(v)
	return p
}

// RejectedWith returns a promise rejected with reason.
func RejectedWith(reason any) *Promise {
	p := NewPromise()
	p.Reject(reason)
	return p
}

// Resolve fulfills the promise. Calls after settlement are ignored.
func (p *Promise) Resolve(v any) { p.settle(Fulfilled, v) }

// Reject rejects the promise. Calls after settlement are ignored.
func (p *Promise) Reject(reason any) { p.settle(Rejected, reason) }

func (p *Promise) settle(s State, v any) {
	p.mu.Lock()
	if p.state != Pending {
		p.mu.Unlock()
		return
	}
	p.state = s
	p.value = v
	waiters := p.waiters
	p.waiters = nil
	close(p.done)
	p.mu.Unlock()

	for _, w := range waiters {
		dispatch(w, s, v)
	}
}

func dispatch(w callbacks, s State, v any) {
	switch s {
	case Fulfilled:
		if w.onFulfilled != nil {
			w.onFulfilled(v)
		}
	case Rejected:
		if w.onRejected != nil {
			w.onRejected(v)
		}
	}
}

// Then registers settlement callbacks.
func (p *Promise) Then(onFulfilled func(any), onRejected func(any)) {
	w := callbacks{onFulfilled: onFulfilled, onRejected: onRejected}
	p.mu.Lock()
	if p.state == Pending {
		p.waiters = append(p.waiters, w)
		p.mu.Unlock()
		return
	}
	s, v := p.state, p.value
	p.mu.Unlock()
	dispatch(w, s, v)
}

// State returns the current settlement state.
func (p *Promise) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Done is closed once the promise settles.
func (p *Promise) Done() <-chan struct{} { return p.done }

// Await blocks until the promise settles or ctx is done. A rejection is
// returned as *Rejection.
func (p *Promise) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	p.mu.Lock()
	s, v := p.state, p.value
	p.mu.Unlock()
	if s == Rejected {
		return nil, &Rejection{Reason: v}
	}
	return v, nil
}

// Go runs fn on a new goroutine and settles the returned promise with its
// result: a non-nil error rejects with that error.
func Go(fn func() (any, error)) *Promise {
	p := NewPromise()
	go func() {
		v, err := fn()
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(v)
	}()
	return p
}
