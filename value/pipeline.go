package value

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// DataKey is the transfer-payload key used for field drag-and-drop.
const DataKey = "text"

// Func transforms a value for the named field. Parse, Normalize and Format
// all share this shape.
type Func func(value any, name string) any

// Extractor pulls a usable value out of a raw event for one platform.
type Extractor struct {
	platform Platform
}

// NewExtractor returns an extractor bound to platform.
func NewExtractor(platform Platform) Extractor { return Extractor{platform: platform} }

// Platform returns the configured platform.
func (x Extractor) Platform() Platform { return x.platform }

// Extract returns the value carried by ev. Non-events pass through
// unchanged.
func (x Extractor) Extract(ev any) any {
	switch e := ev.(type) {
	case *NativeEvent:
		if e.Native != nil && e.Native.Text != nil {
			return *e.Native.Text
		}
		return nil
	case *DOMEvent:
		if e.Native != nil {
			if x.platform == PlatformNative {
				if e.Native.Text == nil {
					return nil
				}
				return *e.Native.Text
			}
			if e.Native.Text != nil {
				return *e.Native.Text
			}
		}
		return fromTarget(e)
	case Event:
		return nil
	}
	return ev
}

func fromTarget(e *DOMEvent) any {
	t := e.Target
	switch t.Type {
	case "checkbox":
		return t.Checked
	case "file":
		if t.Files != nil {
			return t.Files
		}
		if e.DataTransfer != nil {
			return e.DataTransfer.Files
		}
		return nil
	case "select-multiple":
		out := []string{}
		for _, o := range t.Options {
			if o.Selected {
				out = append(out, o.Value)
			}
		}
		return out
	}
	return t.Value
}

// Pipeline extracts a value and applies the optional parse and normalize
// transforms, in that order.
type Pipeline struct {
	Extractor Extractor
	Parse     Func
	Normalize Func
}

// Run returns the normalized value for the named field.
func (p Pipeline) Run(ev any, name string) any {
	v := p.Extractor.Extract(ev)
	if p.Parse != nil {
		v = p.Parse(v, name)
	}
	if p.Normalize != nil {
		v = p.Normalize(v, name)
	}
	return v
}

// DragStart writes the current value into the event's transfer payload under
// DataKey. Strings are stored verbatim, nil as "", anything else as JSON.
func DragStart(ev *DOMEvent, v any) error {
	if ev.DataTransfer == nil {
		ev.DataTransfer = &DataTransfer{}
	}
	payload, err := serialize(v)
	if err != nil {
		return err
	}
	ev.DataTransfer.SetData(DataKey, payload)
	return nil
}

// Drop reads the DataKey payload and suppresses the event's default action.
func Drop(ev *DOMEvent) string {
	v := ev.DataTransfer.GetData(DataKey)
	ev.PreventDefault()
	return v
}

func serialize(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case fmt.Stringer:
		return t.String(), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("value: encode drag payload: %w", err)
	}
	return string(b), nil
}

// DefaultFormat renders nil as "" and leaves every other value alone.
func DefaultFormat(v any, _ string) any {
	if v == nil {
		return ""
	}
	return v
}
