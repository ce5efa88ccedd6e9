package projection

import "github.com/reoring/fieldsync/structure"

// FormContextKey is the prop that carries the owning form's handle. It
// changes identity without changing meaning, so the gate ignores it.
const FormContextKey = "_form"

// ExemptKeys lists props never compared by ShouldUpdate.
var ExemptKeys = []string{FormContextKey}

func exempt(key string) bool {
	for _, k := range ExemptKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ShouldUpdate reports whether next differs from prev enough to re-render:
// the key sets differ in size, or some non-exempt key holds values that are
// not deep-equal under s.
func ShouldUpdate(s structure.Structure, prev, next map[string]any) bool {
	if len(prev) != len(next) {
		return true
	}
	for k, nv := range next {
		if exempt(k) {
			continue
		}
		pv, ok := prev[k]
		if !ok || !s.DeepEqual(pv, nv) {
			return true
		}
	}
	return false
}
