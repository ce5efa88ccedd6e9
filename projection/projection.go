// Package projection derives a field's render-ready props from the shared
// form-state tree and decides whether a new projection warrants a re-render.
//
// Every read goes through a structure.Structure, so the same code projects
// plain and immutable trees.
package projection

import (
	"github.com/reoring/fieldsync/structure"
	"github.com/reoring/fieldsync/value"
)

const (
	errorSlot   = "_error"
	warningSlot = "_warning"
)

// Options carries the caller-side inputs of a projection.
type Options struct {
	// InitialValues is the externally supplied baseline used when the tree
	// has no "initial" entry for the field.
	InitialValues any
	// RawValue is the component's own value prop (checkbox/radio controls).
	RawValue any
}

// Props is the derived view of one field.
type Props struct {
	Name            string
	Value           any
	Initial         any
	Pristine        bool
	Dirty           bool
	SyncError       any
	SyncWarning     any
	AsyncError      any
	AsyncValidating bool
	Submitting      bool
	SubmitError     any
	State           any
	RawValue        any
}

// Project computes the props of the field at name inside formState.
func Project(s structure.Structure, formState any, name string, opts Options) Props {
	initial := s.GetIn(formState, "initial."+name)
	if initial == nil && opts.InitialValues != nil {
		initial = s.GetIn(opts.InitialValues, name)
	}
	v := s.GetIn(formState, "values."+name)
	pristine := s.DeepEqual(v, initial)

	validating, _ := s.ToJS(s.GetIn(formState, "asyncValidating")).(string)

	return Props{
		Name:            name,
		Value:           v,
		Initial:         initial,
		Pristine:        pristine,
		Dirty:           !pristine,
		SyncError:       unwrapSlot(s, s.GetIn(formState, "syncErrors."+name), errorSlot),
		SyncWarning:     unwrapSlot(s, s.GetIn(formState, "syncWarnings."+name), warningSlot),
		AsyncError:      s.GetIn(formState, "asyncErrors."+name),
		AsyncValidating: validating != "" && validating == name,
		Submitting:      structure.Truthy(s.ToJS(s.GetIn(formState, "submitting"))),
		SubmitError:     s.GetIn(formState, "submitErrors."+name),
		State:           s.GetIn(formState, "fields."+name),
		RawValue:        opts.RawValue,
	}
}

// unwrapSlot resolves a group-level error stored next to leaf errors: when
// the raw entry is a container whose slot is set, the slot is the error.
func unwrapSlot(s structure.Structure, raw any, slot string) any {
	if raw == nil {
		return nil
	}
	if inner := s.GetIn(raw, slot); inner != nil && structure.Truthy(s.ToJS(inner)) {
		return inner
	}
	return raw
}

// Map returns the key/value view of p used by the update gate.
func (p Props) Map() map[string]any {
	return map[string]any{
		"name":            p.Name,
		"value":           p.Value,
		"initial":         p.Initial,
		"pristine":        p.Pristine,
		"dirty":           p.Dirty,
		"syncError":       p.SyncError,
		"syncWarning":     p.SyncWarning,
		"asyncError":      p.AsyncError,
		"asyncValidating": p.AsyncValidating,
		"submitting":      p.Submitting,
		"submitError":     p.SubmitError,
		"state":           p.State,
		"_value":          p.RawValue,
	}
}

// InputProps is what an input widget consumes.
type InputProps struct {
	Name  string
	Value any
	// Checked is set for checkbox/radio controls bound through RawValue.
	Checked *bool
}

// Input formats the stored value for display. A nil format uses
// value.DefaultFormat, which renders nil as "".
func (p Props) Input(s structure.Structure, format value.Func) InputProps {
	if format == nil {
		format = value.DefaultFormat
	}
	in := InputProps{Name: p.Name, Value: format(s.ToJS(p.Value), p.Name)}
	if p.RawValue != nil {
		checked := s.DeepEqual(p.Value, p.RawValue)
		in.Checked = &checked
		in.Value = p.RawValue
	}
	return in
}

// MetaProps is the status half of a field's props.
type MetaProps struct {
	Active          bool
	Touched         bool
	Visited         bool
	Error           any
	Warning         any
	Valid           bool
	Invalid         bool
	Pristine        bool
	Dirty           bool
	AsyncValidating bool
	Submitting      bool
}

// Meta summarizes status. Error is the first present of the sync, async and
// submit errors.
func (p Props) Meta(s structure.Structure) MetaProps {
	err := p.SyncError
	if err == nil {
		err = p.AsyncError
	}
	if err == nil {
		err = p.SubmitError
	}
	return MetaProps{
		Active:          structure.Truthy(s.ToJS(s.GetIn(p.State, "active"))),
		Touched:         structure.Truthy(s.ToJS(s.GetIn(p.State, "touched"))),
		Visited:         structure.Truthy(s.ToJS(s.GetIn(p.State, "visited"))),
		Error:           err,
		Warning:         p.SyncWarning,
		Valid:           err == nil,
		Invalid:         err != nil,
		Pristine:        p.Pristine,
		Dirty:           p.Dirty,
		AsyncValidating: p.AsyncValidating,
		Submitting:      p.Submitting,
	}
}
