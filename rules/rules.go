// Package rules provides ready-made field validators and combinators for
// registry.Validator. Validators return their message when the value is
// invalid and nil otherwise.
package rules

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/reoring/fieldsync/registry"
	"github.com/reoring/fieldsync/structure"
	"github.com/reoring/fieldsync/structure/plain"
)

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional gates validators on the form's other values.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional comparing the value at path (dotted/bracket
// syntax, relative to all form values) with want.
func If(path string, op Op, want any) Conditional {
	return Conditional{path: path, op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then runs fns, first error wins, only while the condition holds.
func (c Conditional) Then(fns ...registry.Validator) registry.Validator {
	inner := And(fns...)
	return func(v, all any) any {
		if !c.holds(all) {
			return nil
		}
		return inner(v, all)
	}
}

func (c Conditional) holds(all any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.holds(all) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.holds(all) {
				return true
			}
		}
		return false
	}
	return compare(plain.Plain.GetIn(all, c.path), c.op, c.want)
}

// Required rejects blank values: nil and "". false and 0 are values.
func Required(msg string) registry.Validator {
	return func(v, _ any) any {
		if structure.Blank(v) {
			return msg
		}
		return nil
	}
}

// MinLength rejects strings with fewer than n runes. Blank values pass so
// the rule composes with Required.
func MinLength(n int, msg string) registry.Validator {
	return func(v, _ any) any {
		s, ok := v.(string)
		if !ok || s == "" {
			return nil
		}
		if utf8.RuneCountInString(s) < n {
			return msg
		}
		return nil
	}
}

// MaxLength rejects strings longer than n runes.
func MaxLength(n int, msg string) registry.Validator {
	return func(v, _ any) any {
		if s, ok := v.(string); ok && utf8.RuneCountInString(s) > n {
			return msg
		}
		return nil
	}
}

// AtLeastOne ensures a list value has at least one element. The error is
// reported in the group slot so it survives next to per-item errors.
func AtLeastOne(msg string) registry.Validator {
	return func(v, _ any) any {
		if v == nil {
			return map[string]any{"_error": msg}
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if rv.Len() == 0 {
				return map[string]any{"_error": msg}
			}
		}
		return nil
	}
}

// UniqueBy ensures the elements of a list value have distinct values at
// keyPath. Each duplicate gets msg at its own index, keyed like the
// element, so the error tree lines up with the values tree.
// Note: keys are compared by their fmt rendering; keep key types uniform.
func UniqueBy(keyPath, msg string) registry.Validator {
	return func(v, _ any) any {
		list, ok := v.([]any)
		if !ok {
			return nil
		}
		seen := map[string]bool{}
		var out any
		for i, elem := range list {
			kv := plain.Plain.GetIn(elem, keyPath)
			if kv == nil {
				continue
			}
			key := fmt.Sprint(kv)
			if seen[key] {
				out = plain.Plain.SetIn(out, fmt.Sprintf("[%d].%s", i, keyPath), msg)
				continue
			}
			seen[key] = true
		}
		return out
	}
}

// ---------- combinators ----------

// And runs fns in order and returns the first error.
func And(fns ...registry.Validator) registry.Validator {
	return func(v, all any) any {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if err := fn(v, all); err != nil {
				return err
			}
		}
		return nil
	}
}

// Or succeeds if any validator does. When all fail the last error is
// returned.
func Or(fns ...registry.Validator) registry.Validator {
	return func(v, all any) any {
		var last any
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			err := fn(v, all)
			if err == nil {
				return nil
			}
			last = err
		}
		return last
	}
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return plain.DeepEqual(cur, want)
	case Ne:
		return !plain.DeepEqual(cur, want)
	case Lt, Le, Gt, Ge:
		return compareOrdered(cur, op, want)
	default:
		return false
	}
}

// compareOrdered supports numbers of any Go kind and strings.
func compareOrdered(cur any, op Op, want any) bool {
	var c int
	a, aok := structure.Number(cur)
	b, bok := structure.Number(want)
	switch {
	case aok && bok:
		c = cmpOrdered(a, b)
	default:
		as, aok := cur.(string)
		bs, bok := want.(string)
		if !aok || !bok {
			return false
		}
		c = cmpOrdered(as, bs)
	}
	switch op {
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	}
	return false
}

func cmpOrdered[T float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
