package async

import "sync"

// TypeError reports a value of the wrong shape handed to the orchestrator.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return e.Msg }

// Validate runs one asynchronous validation.
//
// fn must return a Thenable; otherwise Validate returns a *TypeError and
// neither start nor stop is called. start is called once before the
// returned promise can settle. When fn's promise fulfills, stop is called
// with no arguments and the returned promise fulfills. When it rejects, stop
// is called with exactly the rejection reason (possibly nil) and the
// returned promise rejects with the same reason.
//
// Only the first settlement counts, even from a thenable that calls its
// callbacks more than once.
//
// There is no timeout or cancellation: a promise that never settles leaves
// stop uncalled. Callers that need a deadline race Await against a context
// and clean up on their own.
func Validate(fn func() any, start func(), stop func(errs ...any)) (*Promise, error) {
	res := fn()
	th, ok := res.(Thenable)
	if !ok || isNilPointer(th) {
		return nil, &TypeError{Msg: "async: validation function must return a promise"}
	}
	if start != nil {
		start()
	}
	out := NewPromise()
	var once sync.Once
	th.Then(
		func(any) {
			once.Do(func() {
				if stop != nil {
					stop()
				}
				out.Resolve(nil)
			})
		},
		func(reason any) {
			once.Do(func() {
				if stop != nil {
					stop(reason)
				}
				out.Reject(reason)
			})
		},
	)
	return out, nil
}

func isNilPointer(th Thenable) bool {
	p, ok := th.(*Promise)
	return ok && p == nil
}
