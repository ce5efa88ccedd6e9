package fieldsync

import (
	"sort"

	"github.com/reoring/fieldsync/internal/pathutil"
	"github.com/reoring/fieldsync/structure"
)

// LeafPaths lists the paths of every non-container, non-nil value in tree,
// sorted. Empty containers contribute nothing.
func LeafPaths(s structure.Structure, tree any) []string {
	var out []string
	walkLeaves(s.ToJS(tree), nil, func(segs []string, _ any) {
		out = append(out, pathutil.Join(segs))
	})
	sort.Strings(out)
	return out
}

// DirtyPaths lists the leaf paths under "values" or "initial" of formState
// whose value and initial value are not deep-equal under s.
func DirtyPaths(s structure.Structure, formState any) []string {
	values := s.GetIn(formState, "values")
	initial := s.GetIn(formState, "initial")
	seen := map[string]bool{}
	var out []string
	for _, p := range append(LeafPaths(s, values), LeafPaths(s, initial)...) {
		if seen[p] {
			continue
		}
		seen[p] = true
		if !s.DeepEqual(s.GetIn(values, p), s.GetIn(initial, p)) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
