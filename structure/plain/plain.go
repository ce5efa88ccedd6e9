// Package plain implements structure.Structure over ordinary Go trees built
// from map[string]any and []any, the shapes produced by JSON and YAML
// decoding.
package plain

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/reoring/fieldsync/internal/pathutil"
	"github.com/reoring/fieldsync/structure"
)

// Structure is the plain adapter. The zero value is ready to use.
type Structure struct{}

// Plain is the shared adapter instance.
var Plain structure.Structure = Structure{}

func init() { structure.Register(Plain) }

func (Structure) Name() string { return "plain" }

func (Structure) Empty() any { return map[string]any{} }

func (Structure) GetIn(state any, path string) any {
	cur := state
	for _, seg := range pathutil.ToPath(path) {
		next, ok := child(cur, seg)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

func (Structure) SetIn(state any, path string, v any) any {
	return setIn(state, pathutil.ToPath(path), v)
}

func (Structure) DeleteIn(state any, path string) any {
	segs := pathutil.ToPath(path)
	if len(segs) == 0 {
		return nil
	}
	return deleteIn(state, segs)
}

func (Structure) DeepEqual(a, b any) bool { return DeepEqual(a, b) }

func (Structure) Size(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len()
	}
	return 0
}

// FromJS normalizes decoded input: map keys of any type become strings and typed
// slices/maps become []any/map[string]any so every path helper can walk them.
func (Structure) FromJS(v any) any { return normalize(v) }

func (Structure) ToJS(v any) any { return v }

func child(cur any, seg string) (any, bool) {
	switch t := cur.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := t[seg]
		return v, ok
	case []any:
		i, ok := pathutil.Index(seg)
		if !ok || i >= len(t) {
			return nil, false
		}
		return t[i], true
	}
	rv := reflect.ValueOf(cur)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Slice, reflect.Array:
		i, ok := pathutil.Index(seg)
		if !ok || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	}
	return nil, false
}

func setIn(state any, segs []string, v any) any {
	if len(segs) == 0 {
		return v
	}
	key, rest := segs[0], segs[1:]
	existing, _ := child(state, key)
	next := setIn(existing, rest, v)

	if arr, ok := state.([]any); ok {
		if i, isIdx := pathutil.Index(key); isIdx {
			n := len(arr)
			if i >= n {
				n = i + 1
			}
			out := make([]any, n)
			copy(out, arr)
			out[i] = next
			return out
		}
	}
	if m, ok := state.(map[string]any); ok {
		out := make(map[string]any, len(m)+1)
		for k, val := range m {
			out[k] = val
		}
		out[key] = next
		return out
	}
	// nil or scalar: create the container the key asks for
	if i, isIdx := pathutil.Index(key); isIdx {
		out := make([]any, i+1)
		out[i] = next
		return out
	}
	return map[string]any{key: next}
}

func deleteIn(state any, segs []string) any {
	key := segs[0]
	existing, ok := child(state, key)
	if !ok {
		return state
	}
	if len(segs) > 1 {
		return setIn(state, []string{key}, deleteIn(existing, segs[1:]))
	}
	switch t := state.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if k != key {
				out[k] = val
			}
		}
		return out
	case []any:
		i, _ := pathutil.Index(key)
		out := make([]any, 0, len(t)-1)
		out = append(out, t[:i]...)
		return append(out, t[i+1:]...)
	}
	return state
}

var equalOpts = cmp.Options{
	cmp.FilterValues(bothBlank, cmp.Comparer(func(_, _ any) bool { return true })),
	cmp.FilterValues(bothNumeric, cmp.Comparer(func(x, y any) bool {
		a, _ := structure.Number(x)
		b, _ := structure.Number(y)
		return a == b
	})),
	cmpopts.EquateEmpty(),
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

func bothBlank(x, y any) bool { return structure.Blank(x) && structure.Blank(y) }

func bothNumeric(x, y any) bool {
	_, okx := structure.Number(x)
	_, oky := structure.Number(y)
	return okx && oky
}

// DeepEqual reports structural equality of two plain trees: nil and "" are
// interchangeable and numbers compare by value across Go numeric kinds.
func DeepEqual(a, b any) bool {
	return cmp.Equal(a, b, equalOpts)
}

func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[toKey(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[toKey(iter.Key().Interface())] = normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v // []byte stays a scalar
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	}
	return v
}
