package fieldsync

import "github.com/reoring/fieldsync/registry"

// Rule is the validate or warn configuration of a field component: either a
// list applied to every name, or a per-name lookup.
type Rule struct {
	all    []registry.Validator
	byName map[string][]registry.Validator
}

// ValidateAll applies fns to every name the component manages.
func ValidateAll(fns ...registry.Validator) Rule {
	return Rule{all: fns}
}

// ValidateByName picks validators by unprefixed field name. Names missing
// from m have none.
func ValidateByName(m map[string][]registry.Validator) Rule {
	if m == nil {
		m = map[string][]registry.Validator{}
	}
	return Rule{byName: m}
}

// For returns the validators that apply to name.
func (r Rule) For(name string) []registry.Validator {
	if r.byName != nil {
		return r.byName[name]
	}
	return r.all
}

// IsZero reports whether r carries no validators at all.
func (r Rule) IsZero() bool { return len(r.all) == 0 && len(r.byName) == 0 }
