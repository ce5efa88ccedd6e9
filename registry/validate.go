package registry

import "github.com/reoring/fieldsync/structure"

// Validate runs the validators of every registered path against the value
// at that path in values and returns a sync-error tree shaped like values.
// The first non-nil result per path wins. A clean form yields s.Empty().
func (r *Registry) Validate(s structure.Structure, values any) any {
	return r.run(s, values, r.Validators)
}

// Warn is Validate for warn accessors; the result feeds syncWarnings.
func (r *Registry) Warn(s structure.Structure, values any) any {
	return r.run(s, values, r.Warners)
}

func (r *Registry) run(s structure.Structure, values any, pick func(string) []Validator) any {
	out := s.Empty()
	all := s.ToJS(values)
	for _, path := range r.Paths() {
		v := s.ToJS(s.GetIn(values, path))
		for _, fn := range pick(path) {
			if fn == nil {
				continue
			}
			if res := fn(v, all); res != nil {
				out = s.SetIn(out, path, res)
				break
			}
		}
	}
	return out
}
