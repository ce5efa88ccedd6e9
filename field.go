package fieldsync

import (
	"sync"

	"github.com/reoring/fieldsync/projection"
	"github.com/reoring/fieldsync/registry"
	"github.com/reoring/fieldsync/value"
)

// View is what a component renders from.
type View struct {
	Input  projection.InputProps
	Meta   projection.MetaProps
	Custom map[string]any
}

// Component renders one field.
type Component interface {
	Render(v View) any
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(v View) any

func (fn ComponentFunc) Render(v View) any { return fn(v) }

// GroupComponent renders a Fields group from the views of its names,
// keyed by prefixed name.
type GroupComponent func(views map[string]View) any

type config struct {
	parse     value.Func
	normalize value.Func
	format    value.Func
	validate  Rule
	warn      Rule
	withRef   bool
	props     map[string]any
	rawValue  any
	component Component
	group     GroupComponent
}

// FieldOption configures a Field or a Fields group.
type FieldOption func(*config)

// WithParse converts the extracted value before it is stored.
func WithParse(fn value.Func) FieldOption { return func(c *config) { c.parse = fn } }

// WithNormalize runs after parse, before dispatch.
func WithNormalize(fn value.Func) FieldOption { return func(c *config) { c.normalize = fn } }

// WithFormat converts the stored value for display.
func WithFormat(fn value.Func) FieldOption { return func(c *config) { c.format = fn } }

// WithValidate sets the sync validators.
func WithValidate(r Rule) FieldOption { return func(c *config) { c.validate = r } }

// WithWarn sets the sync warners.
func WithWarn(r Rule) FieldOption { return func(c *config) { c.warn = r } }

// WithRef keeps the last rendered output reachable via RenderedComponent.
func WithRef() FieldOption { return func(c *config) { c.withRef = true } }

// WithProps passes custom props through to the component. Values should be
// plain data: they take part in the update gate.
func WithProps(props map[string]any) FieldOption { return func(c *config) { c.props = props } }

// WithValue binds the field to a checkbox or radio value.
func WithValue(v any) FieldOption { return func(c *config) { c.rawValue = v } }

// WithComponent sets the renderer of a single field.
func WithComponent(comp Component) FieldOption { return func(c *config) { c.component = comp } }

// WithGroupComponent sets the renderer of a Fields group.
func WithGroupComponent(fn GroupComponent) FieldOption { return func(c *config) { c.group = fn } }

// Field binds one named field to the form's store.
type Field struct {
	form *Form
	// owned is false for the per-name fields of a Fields group, which
	// registers the names itself.
	owned bool

	mu       sync.Mutex
	name     string
	cfg      *config
	mounted  bool
	reg      *registry.Registration
	props    projection.Props
	last     map[string]any
	rendered any
}

// NewField validates its inputs and returns an unmounted field.
func NewField(form *Form, name string, opts ...FieldOption) (*Field, error) {
	if form == nil {
		return nil, configError(CodeMissingForm, "Field", nil)
	}
	if name == "" {
		return nil, configError(CodeMissingName, "Field", nil)
	}
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	return &Field{form: form, owned: true, name: name, cfg: cfg}, nil
}

func newConnected(form *Form, name string, cfg *config) *Field {
	return &Field{form: form, name: name, cfg: cfg}
}

// Name returns the prefixed name.
func (f *Field) Name() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return PrefixName(f.form, f.name)
}

func (f *Field) displayName() string { return f.Name() }

// Configure applies opts as a prop change. Registered validators pick up
// the new configuration on their next use.
func (f *Field) Configure(opts ...FieldOption) {
	f.mu.Lock()
	for _, o := range opts {
		o(f.cfg)
	}
	f.mu.Unlock()
}

// Mount registers the field and takes its first projection.
func (f *Field) Mount() error {
	f.mu.Lock()
	if f.mounted {
		f.mu.Unlock()
		return nil
	}
	f.mounted = true
	name := PrefixName(f.form, f.name)
	f.mu.Unlock()

	if f.owned {
		if err := f.register(name); err != nil {
			f.mu.Lock()
			f.mounted = false
			f.mu.Unlock()
			return err
		}
		f.form.attach(f)
	}
	f.Sync()
	return nil
}

// Unmount unregisters the field. Unmounting twice is a no-op.
func (f *Field) Unmount() {
	f.mu.Lock()
	if !f.mounted {
		f.mu.Unlock()
		return
	}
	f.mounted = false
	reg := f.reg
	f.reg = nil
	f.mu.Unlock()

	if f.owned {
		f.form.release(reg)
		f.form.detach(f)
	}
}

// Rename moves a mounted field to a new name: the old path is unregistered
// before the new one is registered.
func (f *Field) Rename(name string) error {
	if name == "" {
		return configError(CodeMissingName, "Field", nil)
	}
	f.mu.Lock()
	if name == f.name {
		f.mu.Unlock()
		return nil
	}
	f.name = name
	mounted := f.mounted
	old := f.reg
	f.reg = nil
	f.mu.Unlock()

	if !mounted {
		return nil
	}
	if f.owned {
		f.form.release(old)
		if err := f.register(PrefixName(f.form, name)); err != nil {
			return err
		}
	}
	f.Sync()
	return nil
}

func (f *Field) register(path string) error {
	reg, err := f.form.register(path, registry.KindField, f.validators, f.warners)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.reg = reg
	f.mu.Unlock()
	return nil
}

func (f *Field) validators() []registry.Validator {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg.validate.For(f.name)
}

func (f *Field) warners() []registry.Validator {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg.warn.For(f.name)
}

// Sync projects the current store snapshot and reports whether the result
// warrants a re-render. The first Sync always does.
func (f *Field) Sync() bool {
	s := f.form.Structure()
	state := f.form.FormState()

	f.mu.Lock()
	defer f.mu.Unlock()
	name := PrefixName(f.form, f.name)
	p := projection.Project(s, state, name, projection.Options{
		InitialValues: f.form.core.opt.InitialValues,
		RawValue:      f.cfg.rawValue,
	})
	next := p.Map()
	next["props"] = f.cfg.props
	next["withRef"] = f.cfg.withRef
	next[projection.FormContextKey] = f.form

	changed := f.last == nil || projection.ShouldUpdate(s, f.last, next)
	f.props, f.last = p, next
	return changed
}

// Props returns the projection taken by the last Sync.
func (f *Field) Props() projection.Props {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.props
}

// Value is the stored value as of the last Sync.
func (f *Field) Value() any { return f.Props().Value }

// Dirty reports whether the value differs from its initial value.
func (f *Field) Dirty() bool { return f.Props().Dirty }

// Pristine is !Dirty.
func (f *Field) Pristine() bool { return f.Props().Pristine }

// View splits the last projection into input, meta and custom props.
func (f *Field) View() View {
	s := f.form.Structure()
	f.mu.Lock()
	defer f.mu.Unlock()
	custom := make(map[string]any, len(f.cfg.props))
	for k, v := range f.cfg.props {
		custom[k] = v
	}
	return View{
		Input:  f.props.Input(s, f.cfg.format),
		Meta:   f.props.Meta(s),
		Custom: custom,
	}
}

// Render hands the current view to the component. Without a component it
// returns nil.
func (f *Field) Render() any {
	f.mu.Lock()
	comp := f.cfg.component
	f.mu.Unlock()
	if comp == nil {
		return nil
	}
	out := comp.Render(f.View())

	f.mu.Lock()
	if f.cfg.withRef {
		f.rendered = out
	}
	f.mu.Unlock()
	return out
}

// RenderedComponent returns the last rendered output. It requires WithRef.
func (f *Field) RenderedComponent() (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.cfg.withRef {
		return nil, configError(CodeWithRefRequired, "Field", nil)
	}
	return f.rendered, nil
}

func (f *Field) pipeline() value.Pipeline {
	f.mu.Lock()
	defer f.mu.Unlock()
	return value.Pipeline{
		Extractor: value.NewExtractor(f.form.core.opt.Platform),
		Parse:     f.cfg.parse,
		Normalize: f.cfg.normalize,
	}
}

// HandleChange runs ev through the value pipeline and dispatches Change.
func (f *Field) HandleChange(ev any) {
	name := f.Name()
	f.form.Dispatch(Change(f.form.Name(), name, f.pipeline().Run(ev, name)))
}

// HandleBlur dispatches Blur and then, when the form has one, calls the
// async-validate hook with the same value.
func (f *Field) HandleBlur(ev any) {
	name := f.Name()
	v := f.pipeline().Run(ev, name)
	f.form.Dispatch(Blur(f.form.Name(), name, v))
	if hook := f.form.asyncValidateHook(); hook != nil {
		hook(name, v)
	}
}

// HandleFocus dispatches Focus.
func (f *Field) HandleFocus() {
	f.form.Dispatch(Focus(f.form.Name(), f.Name()))
}

// HandleDragStart writes the current value into ev's transfer payload.
func (f *Field) HandleDragStart(ev *value.DOMEvent) error {
	return value.DragStart(ev, f.form.Structure().ToJS(f.Value()))
}

// HandleDrop dispatches Change with the dropped payload.
func (f *Field) HandleDrop(ev *value.DOMEvent) {
	f.form.Dispatch(Change(f.form.Name(), f.Name(), value.Drop(ev)))
}
