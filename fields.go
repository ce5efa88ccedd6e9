package fieldsync

import (
	"fmt"
	"sync"

	"github.com/reoring/fieldsync/registry"
	"github.com/reoring/fieldsync/structure/plain"
)

// FieldArrayNames is a name list already qualified by a field array, such
// as the entries produced while iterating one ("members[0].first", ...).
type FieldArrayNames []string

// Fields binds a list of names to the store as one component.
type Fields struct {
	form *Form

	mu       sync.Mutex
	names    []string
	kind     registry.Kind
	cfg      *config
	mounted  bool
	regs     []*registry.Registration
	fields   map[string]*Field
	rendered any
}

// NewFields checks form and names and returns an unmounted group. names
// must be a []string or FieldArrayNames; the latter registers its names as
// field-array entries.
func NewFields(form *Form, names any, opts ...FieldOption) (*Fields, error) {
	if form == nil {
		return nil, configError(CodeMissingForm, "Fields", nil)
	}
	list, kind, err := checkNames(names)
	if err != nil {
		return nil, err
	}
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	fs := &Fields{form: form, names: list, kind: kind, cfg: cfg}
	fs.connect()
	return fs, nil
}

func checkNames(names any) ([]string, registry.Kind, error) {
	var (
		list []string
		kind registry.Kind
	)
	switch t := names.(type) {
	case nil:
		return nil, "", configError(CodeMissingNames, "Fields", nil)
	case []string:
		list, kind = t, registry.KindField
	case FieldArrayNames:
		list, kind = t, registry.KindFieldArray
	default:
		return nil, "", configError(CodeInvalidNames, "Fields", map[string]string{"detail": fmt.Sprintf("got %T", names)})
	}
	list, err := nonEmpty(list)
	if err != nil {
		return nil, "", err
	}
	return list, kind, nil
}

func nonEmpty(names []string) ([]string, error) {
	for i, n := range names {
		if n == "" {
			return nil, configError(CodeInvalidNames, "Fields", map[string]string{"detail": fmt.Sprintf("index %d is empty", i)})
		}
	}
	return append([]string(nil), names...), nil
}

// connect rebuilds the per-name fields. Callers hold fs.mu or own fs
// exclusively.
func (fs *Fields) connect() {
	fs.fields = make(map[string]*Field, len(fs.names))
	for _, n := range fs.names {
		fs.fields[n] = newConnected(fs.form, n, fs.cfg)
	}
}

func (fs *Fields) displayName() string {
	return fmt.Sprint(fs.Names())
}

// Names returns the prefixed names in order.
func (fs *Fields) Names() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.prefixed(fs.names)
}

func (fs *Fields) prefixed(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = PrefixName(fs.form, n)
	}
	return out
}

// Mount registers every name and takes the first projection.
func (fs *Fields) Mount() error {
	fs.mu.Lock()
	if fs.mounted {
		fs.mu.Unlock()
		return nil
	}
	fs.mounted = true
	names := append([]string(nil), fs.names...)
	kind := fs.kind
	fs.mu.Unlock()

	if err := fs.registerAll(names, kind); err != nil {
		fs.mu.Lock()
		fs.mounted = false
		fs.mu.Unlock()
		return err
	}
	fs.form.attach(fs)
	fs.Sync()
	return nil
}

// Unmount unregisters every name.
func (fs *Fields) Unmount() {
	fs.mu.Lock()
	if !fs.mounted {
		fs.mu.Unlock()
		return
	}
	fs.mounted = false
	regs := fs.regs
	fs.regs = nil
	fs.mu.Unlock()

	fs.releaseAll(regs)
	fs.form.detach(fs)
}

// SetNames replaces the name list. When the group is mounted and the lists
// differ, every old name is unregistered before any new one is registered.
func (fs *Fields) SetNames(names any) error {
	next, kind, err := checkNames(names)
	if err != nil {
		return err
	}
	fs.mu.Lock()
	if fs.kind == kind && plain.Plain.DeepEqual(toAnySlice(fs.names), toAnySlice(next)) {
		fs.mu.Unlock()
		return nil
	}
	fs.names, fs.kind = next, kind
	fs.connect()
	mounted := fs.mounted
	old := fs.regs
	fs.regs = nil
	fs.mu.Unlock()

	if !mounted {
		return nil
	}
	fs.releaseAll(old)
	if err := fs.registerAll(next, kind); err != nil {
		return err
	}
	fs.Sync()
	return nil
}

func toAnySlice(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}

// registerAll registers names in order and keeps their handles. On error
// the names registered so far are released again.
func (fs *Fields) registerAll(names []string, kind registry.Kind) error {
	regs := make([]*registry.Registration, 0, len(names))
	for _, n := range names {
		n := n
		reg, err := fs.form.register(PrefixName(fs.form, n), kind,
			func() []registry.Validator { return fs.rule(func(c *config) Rule { return c.validate }).For(n) },
			func() []registry.Validator { return fs.rule(func(c *config) Rule { return c.warn }).For(n) },
		)
		if err != nil {
			fs.releaseAll(regs)
			return err
		}
		regs = append(regs, reg)
	}
	fs.mu.Lock()
	fs.regs = regs
	fs.mu.Unlock()
	return nil
}

func (fs *Fields) releaseAll(regs []*registry.Registration) {
	for _, reg := range regs {
		fs.form.release(reg)
	}
}

func (fs *Fields) rule(pick func(*config) Rule) Rule {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return pick(fs.cfg)
}

// Configure applies opts as a prop change.
func (fs *Fields) Configure(opts ...FieldOption) {
	fs.mu.Lock()
	for _, o := range opts {
		o(fs.cfg)
	}
	fs.mu.Unlock()
}

func (fs *Fields) snapshot() []*Field {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]*Field, 0, len(fs.names))
	for _, n := range fs.names {
		out = append(out, fs.fields[n])
	}
	return out
}

// Sync re-projects every name and reports whether any of them needs a
// re-render.
func (fs *Fields) Sync() bool {
	changed := false
	for _, f := range fs.snapshot() {
		if f.Sync() {
			changed = true
		}
	}
	return changed
}

// Field returns the connected field for an unprefixed name, for wiring
// handlers.
func (fs *Fields) Field(name string) (*Field, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, ok := fs.fields[name]
	return f, ok
}

// Values collects the current values of every name into one plain tree.
func (fs *Fields) Values() any {
	s := fs.form.Structure()
	out := plain.Plain.Empty()
	for _, f := range fs.snapshot() {
		out = plain.Plain.SetIn(out, f.Name(), s.ToJS(f.Value()))
	}
	return out
}

// Dirty reports whether any name is dirty.
func (fs *Fields) Dirty() bool {
	for _, f := range fs.snapshot() {
		if f.Dirty() {
			return true
		}
	}
	return false
}

// Pristine is !Dirty.
func (fs *Fields) Pristine() bool { return !fs.Dirty() }

// Render hands the view of every name to the group component.
func (fs *Fields) Render() any {
	fs.mu.Lock()
	group := fs.cfg.group
	fs.mu.Unlock()
	if group == nil {
		return nil
	}
	views := map[string]View{}
	for _, f := range fs.snapshot() {
		views[f.Name()] = f.View()
	}
	out := group(views)

	fs.mu.Lock()
	if fs.cfg.withRef {
		fs.rendered = out
	}
	fs.mu.Unlock()
	return out
}

// RenderedComponent returns the last rendered output. It requires WithRef.
func (fs *Fields) RenderedComponent() (any, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !fs.cfg.withRef {
		return nil, configError(CodeWithRefRequired, "Fields", nil)
	}
	return fs.rendered, nil
}
