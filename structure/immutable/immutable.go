// Package immutable implements structure.Structure over persistent cty.Value
// trees from github.com/zclconf/go-cty. A cty.Value can never be modified in
// place, so every SetIn/DeleteIn returns a new root that shares nothing
// mutable with its input.
//
// Mappings are represented as cty objects and lists as cty tuples, which lets
// one tree hold heterogeneous values the way form state does. Values read
// from the tree are returned as cty.Value; absent and null values are
// returned as nil so callers can test presence uniformly across adapters.
package immutable

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/reoring/fieldsync/internal/pathutil"
	"github.com/reoring/fieldsync/structure"
	"github.com/reoring/fieldsync/structure/plain"
)

// Structure is the cty-backed adapter. The zero value is ready to use.
type Structure struct{}

// Immutable is the shared adapter instance.
var Immutable structure.Structure = Structure{}

func init() { structure.Register(Immutable) }

var null = cty.NullVal(cty.DynamicPseudoType)

func (Structure) Name() string { return "immutable" }

func (Structure) Empty() any { return cty.EmptyObjectVal }

func (Structure) GetIn(state any, path string) any {
	cur, ok := asValue(state)
	if !ok {
		return nil
	}
	for _, seg := range pathutil.ToPath(path) {
		next, found := child(cur, seg)
		if !found {
			return nil
		}
		cur = next
	}
	if cur.IsNull() {
		return nil
	}
	return cur
}

func (Structure) SetIn(state any, path string, v any) any {
	root, _ := asValue(state)
	return setIn(root, pathutil.ToPath(path), toValue(v))
}

func (Structure) DeleteIn(state any, path string) any {
	root, ok := asValue(state)
	segs := pathutil.ToPath(path)
	if !ok || len(segs) == 0 {
		return nil
	}
	return deleteIn(root, segs)
}

func (Structure) DeepEqual(a, b any) bool {
	va, aIsVal := a.(cty.Value)
	vb, bIsVal := b.(cty.Value)
	if !aIsVal && !bIsVal {
		return plain.DeepEqual(a, b)
	}
	if !aIsVal {
		va = toValue(a)
	}
	if !bIsVal {
		vb = toValue(b)
	}
	return equal(va, vb)
}

func (Structure) Size(v any) int {
	val, ok := asValue(v)
	if !ok || val.IsNull() || !val.IsKnown() {
		return 0
	}
	ty := val.Type()
	switch {
	case ty.IsObjectType():
		return len(ty.AttributeTypes())
	case ty.IsTupleType(), ty.IsListType(), ty.IsMapType(), ty.IsSetType():
		return val.LengthInt()
	}
	return 0
}

func (Structure) FromJS(v any) any { return toValue(v) }

func (Structure) ToJS(v any) any {
	val, ok := v.(cty.Value)
	if !ok {
		return v
	}
	return toJS(val)
}

func asValue(v any) (cty.Value, bool) {
	switch t := v.(type) {
	case nil:
		return null, false
	case cty.Value:
		return t, true
	}
	return toValue(v), true
}

func child(cur cty.Value, seg string) (cty.Value, bool) {
	if cur.IsNull() || !cur.IsKnown() {
		return cty.NilVal, false
	}
	ty := cur.Type()
	switch {
	case ty.IsObjectType():
		if !ty.HasAttribute(seg) {
			return cty.NilVal, false
		}
		return cur.GetAttr(seg), true
	case ty.IsMapType():
		key := cty.StringVal(seg)
		if !cur.HasIndex(key).True() {
			return cty.NilVal, false
		}
		return cur.Index(key), true
	case ty.IsTupleType(), ty.IsListType():
		i, ok := pathutil.Index(seg)
		if !ok || i >= cur.LengthInt() {
			return cty.NilVal, false
		}
		return cur.Index(cty.NumberIntVal(int64(i))), true
	}
	return cty.NilVal, false
}

func elements(v cty.Value) []cty.Value {
	if v.IsNull() || !v.IsKnown() || v.LengthInt() == 0 {
		return nil
	}
	return v.AsValueSlice()
}

func attributes(v cty.Value) map[string]cty.Value {
	if v.IsNull() || !v.IsKnown() {
		return map[string]cty.Value{}
	}
	ty := v.Type()
	if ty.IsObjectType() && len(ty.AttributeTypes()) == 0 {
		return map[string]cty.Value{}
	}
	if ty.IsMapType() && v.LengthInt() == 0 {
		return map[string]cty.Value{}
	}
	return v.AsValueMap()
}

func isMapping(v cty.Value) bool {
	ty := v.Type()
	return ty.IsObjectType() || ty.IsMapType()
}

func isList(v cty.Value) bool {
	ty := v.Type()
	return ty.IsTupleType() || ty.IsListType() || ty.IsSetType()
}

func setIn(state cty.Value, segs []string, v cty.Value) cty.Value {
	if len(segs) == 0 {
		return v
	}
	key, rest := segs[0], segs[1:]
	existing, found := child(state, key)
	if !found {
		existing = null
	}
	next := setIn(existing, rest, v)

	if !state.IsNull() && state.IsKnown() {
		if isList(state) {
			if i, isIdx := pathutil.Index(key); isIdx {
				elems := elements(state)
				n := len(elems)
				if i >= n {
					n = i + 1
				}
				out := make([]cty.Value, n)
				copy(out, elems)
				for j := len(elems); j < n; j++ {
					out[j] = null
				}
				out[i] = next
				return cty.TupleVal(out)
			}
		}
		if isMapping(state) {
			attrs := attributes(state)
			out := make(map[string]cty.Value, len(attrs)+1)
			for k, val := range attrs {
				out[k] = val
			}
			out[key] = next
			return cty.ObjectVal(out)
		}
	}
	if i, isIdx := pathutil.Index(key); isIdx {
		out := make([]cty.Value, i+1)
		for j := range out {
			out[j] = null
		}
		out[i] = next
		return cty.TupleVal(out)
	}
	return cty.ObjectVal(map[string]cty.Value{key: next})
}

func deleteIn(state cty.Value, segs []string) cty.Value {
	key := segs[0]
	existing, found := child(state, key)
	if !found {
		return state
	}
	if len(segs) > 1 {
		return setIn(state, []string{key}, deleteIn(existing, segs[1:]))
	}
	if isMapping(state) {
		out := map[string]cty.Value{}
		for k, val := range attributes(state) {
			if k != key {
				out[k] = val
			}
		}
		return cty.ObjectVal(out)
	}
	i, _ := pathutil.Index(key)
	elems := elements(state)
	out := make([]cty.Value, 0, len(elems))
	out = append(out, elems[:i]...)
	out = append(out, elems[i+1:]...)
	return cty.TupleVal(out)
}

// toValue converts plain Go values into cty. Unsupported kinds are rendered
// with fmt as strings.
func toValue(v any) cty.Value {
	switch t := v.(type) {
	case nil:
		return null
	case cty.Value:
		return t
	case string:
		return cty.StringVal(t)
	case bool:
		return cty.BoolVal(t)
	case json.Number:
		n, err := cty.ParseNumberVal(t.String())
		if err != nil {
			return cty.StringVal(t.String())
		}
		return n
	case int:
		return cty.NumberIntVal(int64(t))
	case int64:
		return cty.NumberIntVal(t)
	case float64:
		return floatVal(t)
	case *big.Float:
		return cty.NumberVal(t)
	case map[string]any:
		out := make(map[string]cty.Value, len(t))
		for k, val := range t {
			out[k] = toValue(val)
		}
		return cty.ObjectVal(out)
	case []any:
		out := make([]cty.Value, len(t))
		for i, val := range t {
			out[i] = toValue(val)
		}
		return cty.TupleVal(out)
	}
	if f, ok := structure.Number(v); ok {
		return floatVal(f)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		switch n := plain.Plain.FromJS(v).(type) {
		case map[string]any, []any:
			return toValue(n)
		}
	}
	return cty.StringVal(fmt.Sprint(v))
}

// floatVal maps NaN, which cty numbers cannot hold, to a null number.
func floatVal(f float64) cty.Value {
	if math.IsNaN(f) {
		return cty.NullVal(cty.Number)
	}
	return cty.NumberFloatVal(f)
}

func toJS(v cty.Value) any {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Bool:
		return v.True()
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	case isMapping(v):
		attrs := attributes(v)
		out := make(map[string]any, len(attrs))
		for k, val := range attrs {
			out[k] = toJS(val)
		}
		return out
	case isList(v):
		elems := elements(v)
		out := make([]any, len(elems))
		for i, val := range elems {
			out[i] = toJS(val)
		}
		return out
	}
	return nil
}

func blank(v cty.Value) bool {
	if v.IsNull() {
		return true
	}
	return v.IsKnown() && v.Type() == cty.String && v.AsString() == ""
}

func equal(a, b cty.Value) bool {
	if blank(a) || blank(b) {
		return blank(a) && blank(b)
	}
	if !a.IsKnown() || !b.IsKnown() {
		return false
	}
	switch {
	case a.Type() == cty.Number && b.Type() == cty.Number:
		return a.AsBigFloat().Cmp(b.AsBigFloat()) == 0
	case a.Type() == cty.String && b.Type() == cty.String:
		return a.AsString() == b.AsString()
	case a.Type() == cty.Bool && b.Type() == cty.Bool:
		return a.True() == b.True()
	case isMapping(a) && isMapping(b):
		am, bm := attributes(a), attributes(b)
		if len(am) != len(bm) {
			return false
		}
		for _, k := range sortedKeys(am) {
			bv, ok := bm[k]
			if !ok || !equal(am[k], bv) {
				return false
			}
		}
		return true
	case isList(a) && isList(b):
		ae, be := elements(a), elements(b)
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !equal(ae[i], be[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func sortedKeys(m map[string]cty.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
