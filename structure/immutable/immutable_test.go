package immutable_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/reoring/fieldsync/structure"
	"github.com/reoring/fieldsync/structure/immutable"
	"github.com/reoring/fieldsync/structure/plain"
)

func fixture() map[string]any {
	return map[string]any{
		"values": map[string]any{
			"name":      "ada",
			"qty":       3,
			"addresses": []any{map[string]any{"street": "1 Loop"}},
		},
		"asyncValidating": "name",
	}
}

func TestGetIn(t *testing.T) {
	s := immutable.Immutable
	st := s.FromJS(fixture())

	got, ok := s.GetIn(st, "values.addresses[0].street").(cty.Value)
	require.True(t, ok)
	assert.Equal(t, "1 Loop", got.AsString())
	assert.Equal(t, "name", s.ToJS(s.GetIn(st, "asyncValidating")))
	assert.Nil(t, s.GetIn(st, "values.missing"))
	assert.Nil(t, s.GetIn(st, "values.addresses[5]"))
	assert.Nil(t, s.GetIn(nil, "values"))
}

func TestSetIn_ReturnsNewRoot(t *testing.T) {
	s := immutable.Immutable
	st := s.FromJS(fixture())

	next := s.SetIn(st, "values.addresses[0].street", "2 Loop")
	assert.Equal(t, "1 Loop", s.ToJS(s.GetIn(st, "values.addresses[0].street")))
	assert.Equal(t, "2 Loop", s.ToJS(s.GetIn(next, "values.addresses[0].street")))

	grown := s.SetIn(st, "values.addresses[2].street", "3 Loop")
	assert.Equal(t, 3, s.Size(s.GetIn(grown, "values.addresses")))
	assert.Nil(t, s.GetIn(grown, "values.addresses[1]"))

	fresh := s.SetIn(nil, "values.tags[0]", "x")
	assert.Equal(t, map[string]any{"values": map[string]any{"tags": []any{"x"}}}, s.ToJS(fresh))
}

func TestDeleteIn(t *testing.T) {
	s := immutable.Immutable
	st := s.FromJS(fixture())
	next := s.DeleteIn(st, "values.name")
	assert.Nil(t, s.GetIn(next, "values.name"))
	assert.NotNil(t, s.GetIn(st, "values.name"))
	assert.Equal(t, 2, s.Size(s.GetIn(next, "values")))

	next = s.DeleteIn(st, "values.addresses[0]")
	assert.Equal(t, 0, s.Size(s.GetIn(next, "values.addresses")))
}

func TestRoundTrip(t *testing.T) {
	s := immutable.Immutable
	back := s.ToJS(s.FromJS(fixture()))
	assert.True(t, plain.DeepEqual(fixture(), back))
}

// Both adapters must agree on equality for the same plain inputs.
func TestEqualityMatchesPlain(t *testing.T) {
	pairs := []struct{ a, b any }{
		{nil, ""},
		{map[string]any{"a": 1}, map[string]any{"a": 1.0}},
		{map[string]any{"a": 1, "b": "x"}, map[string]any{"b": "x", "a": 1}},
		{[]any{1, 2}, []any{2, 1}},
		{false, nil},
		{map[string]any{"a": nil}, map[string]any{"a": ""}},
		{map[string]any{"a": []any{"x"}}, map[string]any{"a": []any{"x", "y"}}},
		{"x", "y"},
	}
	im := immutable.Immutable
	for _, p := range pairs {
		want := plain.Plain.DeepEqual(p.a, p.b)
		got := im.DeepEqual(im.FromJS(p.a), im.FromJS(p.b))
		assert.Equal(t, want, got, "a=%v b=%v", p.a, p.b)
	}
}

func TestDeepEqual_MixedRepresentations(t *testing.T) {
	im := immutable.Immutable
	assert.True(t, im.DeepEqual(im.FromJS("x"), "x"))
	assert.True(t, im.DeepEqual(map[string]any{"k": 1}, map[string]any{"k": 1}))
	assert.False(t, im.DeepEqual(im.FromJS(map[string]any{"k": 1}), map[string]any{"k": 2}))
}

func TestFromJS_NonStringKeys(t *testing.T) {
	im := immutable.Immutable
	v := im.FromJS(map[int]string{1: "a"})
	assert.Equal(t, map[string]any{"1": "a"}, im.ToJS(v))
	assert.True(t, im.DeepEqual(v, map[int]string{1: "a"}))
	assert.False(t, im.DeepEqual(v, map[int]string{2: "a"}))
}

func TestFromJS_NaN(t *testing.T) {
	im := immutable.Immutable
	var v any
	require.NotPanics(t, func() { v = im.FromJS(map[string]any{"x": math.NaN(), "y": 1}) })
	assert.Nil(t, im.ToJS(im.GetIn(v, "x")))
	assert.Equal(t, int64(1), im.ToJS(im.GetIn(v, "y")))

	require.NotPanics(t, func() { v = im.SetIn(v, "z", float32(math.NaN())) })
	assert.Nil(t, im.ToJS(im.GetIn(v, "z")))
}

func TestRegistered(t *testing.T) {
	s, err := structure.Lookup("immutable")
	require.NoError(t, err)
	assert.Equal(t, "immutable", s.Name())
	assert.Contains(t, structure.Names(), "immutable")
}
