// Package fieldtest provides an in-memory store with a minimal reducer and
// event builders for exercising fieldsync components in tests.
package fieldtest

import (
	"sync"

	"github.com/reoring/fieldsync"
	"github.com/reoring/fieldsync/structure"
	"github.com/reoring/fieldsync/structure/plain"
	"github.com/reoring/fieldsync/value"
)

// Store records every dispatched action and applies it to a form-state tree
// the way a basic reducer would.
type Store struct {
	mu      sync.Mutex
	s       structure.Structure
	state   any
	actions []fieldsync.Action
}

// NewStore returns a store whose state is initial, converted with s. A nil
// s selects the plain adapter.
func NewStore(s structure.Structure, initial any) *Store {
	if s == nil {
		s = plain.Plain
	}
	state := s.Empty()
	if initial != nil {
		state = s.FromJS(initial)
	}
	return &Store{s: s, state: state}
}

// Dispatch records a and reduces it into the state.
func (st *Store) Dispatch(a fieldsync.Action) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.actions = append(st.actions, a)
	st.state = st.reduce(st.state, a)
}

// GetState returns the current tree.
func (st *Store) GetState() any {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// SetState replaces the tree with initial, converted by the store's adapter.
func (st *Store) SetState(initial any) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = st.s.FromJS(initial)
}

// SetIn writes v at path, bypassing the reducer.
func (st *Store) SetIn(path string, v any) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = st.s.SetIn(st.state, path, st.s.FromJS(v))
}

// Actions returns a copy of the dispatched actions.
func (st *Store) Actions() []fieldsync.Action {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]fieldsync.Action(nil), st.actions...)
}

// ActionsOf returns the dispatched actions of type t.
func (st *Store) ActionsOf(t fieldsync.ActionType) []fieldsync.Action {
	var out []fieldsync.Action
	for _, a := range st.Actions() {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// Types returns the type of every dispatched action, in order.
func (st *Store) Types() []fieldsync.ActionType {
	var out []fieldsync.ActionType
	for _, a := range st.Actions() {
		out = append(out, a.Type)
	}
	return out
}

// Reset forgets recorded actions. The state is kept.
func (st *Store) Reset() {
	st.mu.Lock()
	st.actions = nil
	st.mu.Unlock()
}

func (st *Store) reduce(state any, a fieldsync.Action) any {
	s := st.s
	switch a.Type {
	case fieldsync.ActionChange:
		return s.SetIn(state, "values."+a.Field, s.FromJS(a.Payload))
	case fieldsync.ActionBlur:
		state = s.SetIn(state, "values."+a.Field, s.FromJS(a.Payload))
		state = s.DeleteIn(state, "fields."+a.Field+".active")
		return s.SetIn(state, "fields."+a.Field+".touched", true)
	case fieldsync.ActionFocus:
		state = s.SetIn(state, "fields."+a.Field+".active", true)
		return s.SetIn(state, "fields."+a.Field+".visited", true)
	case fieldsync.ActionStartAsyncValidation:
		return s.SetIn(state, "asyncValidating", a.Field)
	case fieldsync.ActionStopAsyncValidation:
		state = s.DeleteIn(state, "asyncValidating")
		if a.Failed && a.Payload != nil {
			return s.SetIn(state, "asyncErrors", s.FromJS(a.Payload))
		}
		return s.DeleteIn(state, "asyncErrors")
	}
	return state
}

// Input builds a web change event for a text input.
func Input(v string) *value.DOMEvent {
	return &value.DOMEvent{Target: value.Target{Type: "text", Value: v}}
}

// Checkbox builds a web change event for a checkbox.
func Checkbox(checked bool) *value.DOMEvent {
	return &value.DOMEvent{Target: value.Target{Type: "checkbox", Checked: checked}}
}

// Native builds a native change event carrying text.
func Native(text string) *value.NativeEvent {
	return &value.NativeEvent{Native: value.Text(text)}
}
