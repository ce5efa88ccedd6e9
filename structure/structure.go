// Package structure defines the adapter that every higher component uses to
// read, write and compare values inside a form-state tree.
//
// Two adapters ship with the module:
//
//   - structure/plain: ordinary nested map[string]any / []any trees.
//   - structure/immutable: persistent cty.Value trees (github.com/zclconf/go-cty).
//
// Both register themselves by name so callers (the CLI, tests) can select an
// adapter at runtime through Lookup.
//
// Equality contract shared by all adapters:
//
//   - recursive value equality, order-insensitive for mapping keys;
//   - nil, absent and "" are interchangeable;
//   - numbers compare by numeric value regardless of Go kind;
//   - false, 0 and empty containers are values, not blanks.
package structure

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"
)

// Structure is the path-based capability set over one tree representation.
// Paths use dotted/bracket syntax ("addresses[0].street"); the empty path
// addresses the root.
type Structure interface {
	// Name identifies the adapter ("plain", "immutable").
	Name() string
	// Empty returns an empty mapping in this representation.
	Empty() any
	// GetIn returns the value at path or nil when absent.
	GetIn(state any, path string) any
	// SetIn returns a new tree with path set to v. state is never mutated.
	SetIn(state any, path string, v any) any
	// DeleteIn returns a new tree without the value at path.
	DeleteIn(state any, path string) any
	// DeepEqual reports structural equality per the package contract.
	DeepEqual(a, b any) bool
	// Size returns the number of entries of a mapping or list, 0 otherwise.
	Size(v any) int
	// FromJS converts a plain Go value into this representation.
	FromJS(v any) any
	// ToJS converts a value of this representation into plain Go values.
	ToJS(v any) any
}

var (
	registryMu sync.RWMutex
	registered = map[string]Structure{}
)

// Register makes s available through Lookup; nil values are ignored and a
// later registration under the same name replaces the earlier one.
func Register(s Structure) {
	if s == nil {
		return
	}
	registryMu.Lock()
	registered[s.Name()] = s
	registryMu.Unlock()
}

// Lookup returns the adapter registered under name.
func Lookup(name string) (Structure, error) {
	registryMu.RLock()
	s, ok := registered[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("structure: unknown adapter %q (registered: %v)", name, Names())
	}
	return s, nil
}

// Names lists registered adapter names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registered))
	for n := range registered {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Blank reports whether v is nil or the empty string.
func Blank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// Number returns v as float64 when v is any Go numeric kind or json.Number.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Truthy mirrors the loose boolean reading used for scalar flags such as
// "submitting": nil, false, "", zero and NaN are false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	if f, ok := Number(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}
