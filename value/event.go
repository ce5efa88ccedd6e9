// Package value turns raw UI events into field values: extraction per
// platform, the parse/normalize pipeline, drag-and-drop payloads and a few
// stock normalizers.
package value

// Platform selects the event extraction strategy. It is passed explicitly
// when building an Extractor; nothing is detected at runtime.
type Platform int

const (
	PlatformWeb Platform = iota
	PlatformNative
)

func (p Platform) String() string {
	switch p {
	case PlatformNative:
		return "native"
	default:
		return "web"
	}
}

// Event is anything that behaves like a UI event. Values that do not
// implement Event are treated as the field value itself.
type Event interface {
	PreventDefault()
	StopPropagation()
}

// File describes one selected or dropped file.
type File struct {
	Name string
	Size int64
	Type string
}

// Option is one entry of a select control.
type Option struct {
	Value    string
	Selected bool
}

// Target mirrors the input element that fired a DOM event.
type Target struct {
	Type    string // "text", "checkbox", "file", "select-multiple", ...
	Value   any
	Checked bool
	Files   []File
	Options []Option
}

// NativeDetail is the platform payload of a native text input event.
type NativeDetail struct {
	Text *string
}

// DataTransfer carries drag-and-drop payloads keyed by format.
type DataTransfer struct {
	Files []File
	data  map[string]string
}

// SetData stores payload under key.
func (d *DataTransfer) SetData(key, payload string) {
	if d.data == nil {
		d.data = map[string]string{}
	}
	d.data[key] = payload
}

// GetData returns the payload under key, or "" when absent.
func (d *DataTransfer) GetData(key string) string {
	if d == nil {
		return ""
	}
	return d.data[key]
}

// DOMEvent is a web change/blur/drag/drop event.
type DOMEvent struct {
	Target       Target
	Native       *NativeDetail
	DataTransfer *DataTransfer

	defaultPrevented bool
	stopped          bool
}

func (e *DOMEvent) PreventDefault()  { e.defaultPrevented = true }
func (e *DOMEvent) StopPropagation() { e.stopped = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *DOMEvent) DefaultPrevented() bool { return e.defaultPrevented }

// PropagationStopped reports whether StopPropagation was called.
func (e *DOMEvent) PropagationStopped() bool { return e.stopped }

// NativeEvent is a mobile text input event.
type NativeEvent struct {
	Native *NativeDetail

	defaultPrevented bool
}

func (e *NativeEvent) PreventDefault()  { e.defaultPrevented = true }
func (e *NativeEvent) StopPropagation() {}

// DefaultPrevented reports whether PreventDefault was called.
func (e *NativeEvent) DefaultPrevented() bool { return e.defaultPrevented }

// Text is a convenience for building NativeDetail literals.
func Text(s string) *NativeDetail { return &NativeDetail{Text: &s} }
