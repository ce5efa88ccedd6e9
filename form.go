package fieldsync

import (
	"io"
	"log/slog"
	"sync"

	"github.com/reoring/fieldsync/async"
	"github.com/reoring/fieldsync/registry"
	"github.com/reoring/fieldsync/structure"
	"github.com/reoring/fieldsync/structure/plain"
	"github.com/reoring/fieldsync/value"
)

// FormOpt bundles the constructor-time configuration of a form.
type FormOpt struct {
	// Name identifies the form in dispatched actions.
	Name string
	// Store is the external state container. Required.
	Store Store
	// Structure reads the tree; defaults to the plain adapter.
	Structure structure.Structure
	// GetFormState projects the global state down to this form's tree.
	// Defaults to the identity.
	GetFormState func(state any) any
	// InitialValues is the baseline used when the tree has no initial entry.
	InitialValues any
	// AsyncValidate, when set, runs after every blur with the field's name
	// and new value.
	AsyncValidate func(name string, value any)
	// Platform selects event extraction for every field of the form.
	Platform value.Platform
	// Logger receives lifecycle records; defaults to a discard logger.
	Logger *slog.Logger
}

// AsyncValidator checks the form's values asynchronously after the named
// field blurred. It must return a Thenable (usually *async.Promise) that
// rejects with the error tree on failure.
type AsyncValidator func(values any, name string, value any) any

type syncer interface {
	Sync() bool
	displayName() string
}

type formCore struct {
	opt      FormOpt
	registry *registry.Registry
	logger   *slog.Logger

	mu            sync.Mutex
	mounted       []syncer
	asyncValidate func(name string, value any)
}

// Form is the ambient context threaded into every field constructor. Child
// contexts created with WithPrefix share the registry and mounted fields of
// their parent and differ only in the name prefix.
type Form struct {
	core   *formCore
	prefix string
}

// NewForm validates opt and builds the root form context.
func NewForm(opt FormOpt) (*Form, error) {
	if opt.Store == nil {
		return nil, configError(CodeMissingStore, "Form", nil)
	}
	if opt.Structure == nil {
		opt.Structure = plain.Plain
	}
	if opt.GetFormState == nil {
		opt.GetFormState = func(state any) any { return state }
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("form", opt.Name)

	core := &formCore{opt: opt, logger: logger, asyncValidate: opt.AsyncValidate}
	core.registry = registry.New(
		registry.WithLogger(logger),
		registry.WithOnAdd(func(path string, kind registry.Kind) {
			opt.Store.Dispatch(Register(opt.Name, path, string(kind)))
		}),
		registry.WithOnRemove(func(path string) {
			opt.Store.Dispatch(Unregister(opt.Name, path))
		}),
	)
	return &Form{core: core}, nil
}

// Name returns the form name.
func (f *Form) Name() string { return f.core.opt.Name }

// Prefix returns the nesting prefix of this context ("" at the root).
func (f *Form) Prefix() string { return f.prefix }

// Structure returns the adapter used to read the tree.
func (f *Form) Structure() structure.Structure { return f.core.opt.Structure }

// Registry exposes the field registry for inspection. Mutate it through
// field components only.
func (f *Form) Registry() *registry.Registry { return f.core.registry }

// Logger returns the form-scoped logger.
func (f *Form) Logger() *slog.Logger { return f.core.logger }

// WithPrefix returns a child context whose fields live under p, itself
// qualified by this context's prefix: a field array "addresses" nested in a
// section "billing" yields "billing.addresses".
func (f *Form) WithPrefix(p string) *Form {
	return &Form{core: f.core, prefix: PrefixName(f, p)}
}

// PrefixName qualifies name with the form context's prefix. A nil form or an
// empty prefix leaves name unchanged.
func PrefixName(f *Form, name string) string {
	if f == nil || f.prefix == "" {
		return name
	}
	return f.prefix + "." + name
}

// Dispatch forwards a to the store.
func (f *Form) Dispatch(a Action) { f.core.opt.Store.Dispatch(a) }

// FormState returns this form's tree from the current store snapshot.
func (f *Form) FormState() any {
	return f.core.opt.GetFormState(f.core.opt.Store.GetState())
}

// Values returns the "values" subtree of the current snapshot.
func (f *Form) Values() any {
	return f.Structure().GetIn(f.FormState(), "values")
}

// Validate runs every mounted field's validators against the current values
// and returns the resulting sync-error tree.
func (f *Form) Validate() any {
	return f.core.registry.Validate(f.Structure(), f.Values())
}

// Warn is Validate for warnings.
func (f *Form) Warn() any {
	return f.core.registry.Warn(f.Structure(), f.Values())
}

// Issues returns the sync errors of the current values as Issues, or nil
// when the form is valid.
func (f *Form) Issues() Issues {
	return IssuesFromTree(f.Structure(), f.Validate(), CodeSyncError)
}

// UseAsyncValidator installs fn as the blur hook, wrapped by ValidateAsync.
func (f *Form) UseAsyncValidator(fn AsyncValidator) {
	hook := func(name string, v any) {
		if _, err := f.ValidateAsync(fn, name, v); err != nil {
			f.core.logger.Error("async validation not started", "field", name, "error", err)
		}
	}
	f.core.mu.Lock()
	f.core.asyncValidate = hook
	f.core.mu.Unlock()
}

// ValidateAsync runs fn through async.Validate, dispatching
// StartAsyncValidation before and StopAsyncValidation after it settles.
func (f *Form) ValidateAsync(fn AsyncValidator, name string, v any) (*async.Promise, error) {
	s := f.Structure()
	return async.Validate(
		func() any { return fn(s.ToJS(f.Values()), name, v) },
		func() { f.Dispatch(StartAsyncValidation(f.Name(), name)) },
		func(errs ...any) {
			if len(errs) == 0 {
				f.Dispatch(StopAsyncValidation(f.Name(), nil, false))
				return
			}
			f.Dispatch(StopAsyncValidation(f.Name(), errs[0], true))
		},
	)
}

func (f *Form) asyncValidateHook() func(string, any) {
	f.core.mu.Lock()
	defer f.core.mu.Unlock()
	return f.core.asyncValidate
}

// Refresh re-projects every mounted component against the current snapshot
// and returns, in mount order, the names of those that need a re-render.
func (f *Form) Refresh() []string {
	f.core.mu.Lock()
	mounted := append([]syncer(nil), f.core.mounted...)
	f.core.mu.Unlock()

	var changed []string
	for _, m := range mounted {
		if m.Sync() {
			changed = append(changed, m.displayName())
		}
	}
	return changed
}

func (f *Form) attach(s syncer) {
	f.core.mu.Lock()
	f.core.mounted = append(f.core.mounted, s)
	f.core.mu.Unlock()
}

func (f *Form) detach(s syncer) {
	f.core.mu.Lock()
	defer f.core.mu.Unlock()
	for i, m := range f.core.mounted {
		if m == s {
			f.core.mounted = append(f.core.mounted[:i:i], f.core.mounted[i+1:]...)
			return
		}
	}
}

func (f *Form) register(path string, kind registry.Kind, getValidate, getWarn registry.Accessor) (*registry.Registration, error) {
	return f.core.registry.Register(path, kind, getValidate, getWarn)
}

func (f *Form) release(reg *registry.Registration) { f.core.registry.Release(reg) }
