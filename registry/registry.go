// Package registry tracks which fields are currently mounted, under which
// path, and how to obtain their validators.
//
// Registrations store accessor functions rather than validator values: the
// accessor is re-invoked on every use because the validator may close over
// props that change between renders. Several mounted components may share a
// path; the registry reference-counts them so unregistering one never drops
// validators another still needs.
package registry

import (
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Kind distinguishes single fields from field groups.
type Kind string

const (
	KindField      Kind = "Field"
	KindFieldArray Kind = "FieldArray"
)

// Validator inspects a field value (and all form values) and returns an
// error value, or nil when valid. Errors are data, not Go errors.
type Validator func(value, allValues any) any

// Accessor yields the validators currently applicable to a field.
type Accessor func() []Validator

// ErrEmptyPath is returned when registering without a path.
var ErrEmptyPath = errors.New("registry: path must not be empty")

// Registration is one mounted subscription to a path.
type Registration struct {
	ID          string
	Path        string
	Kind        Kind
	GetValidate Accessor
	GetWarn     Accessor
}

type entry struct {
	regs []*Registration // oldest first
}

// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	entries  map[string]*entry
	order    []string
	onAdd    func(path string, kind Kind)
	onRemove func(path string)
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for lifecycle debug records.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithOnAdd installs a hook called, outside the registry lock, when a path
// gets its first registration.
func WithOnAdd(fn func(path string, kind Kind)) Option {
	return func(r *Registry) { r.onAdd = fn }
}

// WithOnRemove installs a hook called, outside the registry lock, when the
// last registration for a path goes away.
func WithOnRemove(fn func(path string)) Option {
	return func(r *Registry) { r.onRemove = fn }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: map[string]*entry{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register inserts a registration for path or adds one more reference to it.
func (r *Registry) Register(path string, kind Kind, getValidate, getWarn Accessor) (*Registration, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if kind == "" {
		kind = KindField
	}
	reg := &Registration{
		ID:          uuid.NewString(),
		Path:        path,
		Kind:        kind,
		GetValidate: getValidate,
		GetWarn:     getWarn,
	}
	r.mu.Lock()
	e, ok := r.entries[path]
	if !ok {
		e = &entry{}
		r.entries[path] = e
		r.order = append(r.order, path)
	}
	e.regs = append(e.regs, reg)
	count := len(e.regs)
	hook := r.onAdd
	r.mu.Unlock()

	r.logger.Debug("field registered", "path", path, "kind", kind, "id", reg.ID, "count", count)
	if count == 1 && hook != nil {
		hook(path, kind)
	}
	return reg, nil
}

// Unregister drops the most recent registration for path. Components that
// share a path should hold their *Registration and use Release instead.
// Unknown paths are a no-op.
func (r *Registry) Unregister(path string) {
	r.remove(path, func(regs []*Registration) int { return len(regs) - 1 })
}

// Release drops exactly reg, leaving the other registrations of its path
// and their accessors in place. When none remain the path is removed and
// the on-remove hook fires. Releasing twice is a no-op.
func (r *Registry) Release(reg *Registration) {
	if reg == nil {
		return
	}
	r.remove(reg.Path, func(regs []*Registration) int {
		for i, it := range regs {
			if it.ID == reg.ID {
				return i
			}
		}
		return -1
	})
}

func (r *Registry) remove(path string, pick func([]*Registration) int) {
	r.mu.Lock()
	e, ok := r.entries[path]
	if !ok {
		r.mu.Unlock()
		return
	}
	i := pick(e.regs)
	if i < 0 {
		r.mu.Unlock()
		return
	}
	gone := e.regs[i]
	e.regs = append(e.regs[:i:i], e.regs[i+1:]...)
	count := len(e.regs)
	if count == 0 {
		delete(r.entries, path)
		r.order = removeString(r.order, path)
	}
	hook := r.onRemove
	r.mu.Unlock()

	r.logger.Debug("field unregistered", "path", path, "id", gone.ID, "count", count)
	if count == 0 && hook != nil {
		hook(path)
	}
}

// Count returns the number of live registrations for path.
func (r *Registry) Count(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[path]; ok {
		return len(e.regs)
	}
	return 0
}

// Has reports whether path has at least one registration.
func (r *Registry) Has(path string) bool { return r.Count(path) > 0 }

// Len returns the number of registered paths.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Paths returns registered paths in sorted order.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	out := append([]string(nil), r.order...)
	r.mu.Unlock()
	sort.Strings(out)
	return out
}

// Lookup returns the most recent registration for path.
func (r *Registry) Lookup(path string) (*Registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[path]
	if !ok {
		return nil, false
	}
	return e.regs[len(e.regs)-1], true
}

// Validators re-invokes the validate accessor of the most recent
// registration for path.
func (r *Registry) Validators(path string) []Validator {
	reg, ok := r.Lookup(path)
	if !ok || reg.GetValidate == nil {
		return nil
	}
	return reg.GetValidate()
}

// Warners re-invokes the warn accessor of the most recent registration for
// path.
func (r *Registry) Warners(path string) []Validator {
	reg, ok := r.Lookup(path)
	if !ok || reg.GetWarn == nil {
		return nil
	}
	return reg.GetWarn()
}

func removeString(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
