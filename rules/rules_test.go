package rules_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reoring/fieldsync/registry"
	"github.com/reoring/fieldsync/rules"
	"github.com/reoring/fieldsync/structure/plain"
)

func TestRequired(t *testing.T) {
	req := rules.Required("Required")
	assert.Equal(t, "Required", req(nil, nil))
	assert.Equal(t, "Required", req("", nil))
	assert.Nil(t, req(false, nil))
	assert.Nil(t, req(0, nil))
	assert.Nil(t, req("x", nil))
}

func TestLength(t *testing.T) {
	minLen := rules.MinLength(3, "short")
	assert.Nil(t, minLen("", nil), "blank is Required's job")
	assert.Equal(t, "short", minLen("ab", nil))
	assert.Nil(t, minLen("äöü", nil), "counts runes")
	assert.Nil(t, minLen(12, nil))

	maxLen := rules.MaxLength(2, "long")
	assert.Equal(t, "long", maxLen("abc", nil))
	assert.Nil(t, maxLen("ab", nil))
}

func TestAtLeastOne(t *testing.T) {
	fn := rules.AtLeastOne("Add one")
	assert.Equal(t, map[string]any{"_error": "Add one"}, fn(nil, nil))
	assert.Equal(t, map[string]any{"_error": "Add one"}, fn([]any{}, nil))
	assert.Nil(t, fn([]any{"x"}, nil))
	assert.Nil(t, fn("not a list", nil))
}

func TestUniqueBy(t *testing.T) {
	fn := rules.UniqueBy("sku", "Duplicate")
	items := []any{
		map[string]any{"sku": "a"},
		map[string]any{"sku": "b"},
		map[string]any{"sku": "a"},
		map[string]any{},
	}
	errs := fn(items, nil)
	assert.Equal(t, "Duplicate", plain.Plain.GetIn(errs, "[2].sku"))
	assert.Nil(t, plain.Plain.GetIn(errs, "[0].sku"))
	assert.Nil(t, fn(items[:2], nil))
	assert.Nil(t, fn("x", nil))
}

func TestIfThen(t *testing.T) {
	all := map[string]any{
		"contact": "email",
		"age":     json.Number("17"),
		"plan":    map[string]any{"tier": "pro"},
	}
	req := rules.Required("Required")

	whenEmail := rules.If("contact", rules.Eq, "email").Then(req)
	assert.Equal(t, "Required", whenEmail("", all))

	whenPhone := rules.If("contact", rules.Eq, "phone").Then(req)
	assert.Nil(t, whenPhone("", all))

	minor := rules.If("age", rules.Lt, 18)
	assert.Equal(t, "Required", minor.Then(req)("", all))
	assert.Nil(t, rules.If("age", rules.Ge, 18).Then(req)("", all))

	both := minor.And(rules.If("plan.tier", rules.Eq, "pro"))
	assert.Equal(t, "Required", both.Then(req)("", all))

	either := rules.If("contact", rules.Ne, "email").Or(rules.If("plan.tier", rules.Gt, "basic"))
	assert.Equal(t, "Required", either.Then(req)("", all))

	neither := rules.IfAny(rules.If("missing", rules.Eq, "x"), rules.If("age", rules.Gt, "x"))
	assert.Nil(t, neither.Then(req)("", all), "mixed kinds never compare")
}

func TestAndOr(t *testing.T) {
	calls := 0
	count := func(v, _ any) any { calls++; return nil }
	and := rules.And(rules.Required("Required"), nil, count)
	assert.Equal(t, "Required", and("", nil))
	assert.Zero(t, calls, "first error stops the chain")
	assert.Nil(t, and("x", nil))
	assert.Equal(t, 1, calls)

	isA := func(v, _ any) any {
		if v != "a" {
			return "not a"
		}
		return nil
	}
	isB := func(v, _ any) any {
		if v != "b" {
			return "not b"
		}
		return nil
	}
	or := rules.Or(isA, isB)
	assert.Nil(t, or("b", nil))
	assert.Equal(t, "not b", or("c", nil))

	var _ registry.Validator = or
}
