package plain_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/fieldsync/structure"
	"github.com/reoring/fieldsync/structure/plain"
)

func tree() map[string]any {
	return map[string]any{
		"values": map[string]any{
			"name": "ada",
			"addresses": []any{
				map[string]any{"street": "1 Loop"},
			},
		},
	}
}

func TestGetIn(t *testing.T) {
	s := plain.Plain
	st := tree()
	assert.Equal(t, "ada", s.GetIn(st, "values.name"))
	assert.Equal(t, "1 Loop", s.GetIn(st, "values.addresses[0].street"))
	assert.Equal(t, "1 Loop", s.GetIn(st, "values.addresses.0.street"))
	assert.Nil(t, s.GetIn(st, "values.addresses[3].street"))
	assert.Nil(t, s.GetIn(st, "values.name.first"))
	assert.Nil(t, s.GetIn(nil, "values"))
	assert.Equal(t, st, s.GetIn(st, ""))
}

func TestGetIn_TypedContainers(t *testing.T) {
	st := map[string]any{"tags": []string{"a", "b"}, "meta": map[string]int{"n": 2}}
	assert.Equal(t, "b", plain.Plain.GetIn(st, "tags[1]"))
	assert.Equal(t, 2, plain.Plain.GetIn(st, "meta.n"))
}

func TestSetIn_DoesNotMutate(t *testing.T) {
	s := plain.Plain
	st := tree()
	before := tree()

	next := s.SetIn(st, "values.addresses[0].street", "2 Loop")
	require.True(t, cmp.Equal(before, st), "input mutated: %s", cmp.Diff(before, st))
	assert.Equal(t, "2 Loop", s.GetIn(next, "values.addresses[0].street"))
	assert.Equal(t, "ada", s.GetIn(next, "values.name"))
}

func TestSetIn_CreatesContainers(t *testing.T) {
	s := plain.Plain
	next := s.SetIn(nil, "values.items[2].sku", "x")
	items, ok := s.GetIn(next, "values.items").([]any)
	require.True(t, ok)
	assert.Len(t, items, 3)
	assert.Nil(t, items[0])
	assert.Equal(t, "x", s.GetIn(next, "values.items[2].sku"))

	root := s.SetIn(map[string]any{"a": 1}, "", "replaced")
	assert.Equal(t, "replaced", root)
}

func TestDeleteIn(t *testing.T) {
	s := plain.Plain
	st := map[string]any{
		"values": map[string]any{"a": 1, "b": 2, "list": []any{"x", "y", "z"}},
	}
	next := s.DeleteIn(st, "values.a")
	assert.Nil(t, s.GetIn(next, "values.a"))
	assert.Equal(t, 1, s.GetIn(st, "values.a"))

	next = s.DeleteIn(st, "values.list[1]")
	assert.Equal(t, []any{"x", "z"}, s.GetIn(next, "values.list"))

	assert.Equal(t, st, s.DeleteIn(st, "values.missing.deep"))
}

func TestDeepEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil vs empty string", nil, "", true},
		{"identical maps", map[string]any{"a": 1}, map[string]any{"a": 1}, true},
		{"numeric kinds", map[string]any{"n": 1}, map[string]any{"n": float64(1)}, true},
		{"json number", json.Number("2.5"), 2.5, true},
		{"nested blank", map[string]any{"a": nil}, map[string]any{"a": ""}, true},
		{"false is not blank", false, nil, false},
		{"zero is not blank", 0, "", false},
		{"different leaf", map[string]any{"a": []any{1, 2}}, map[string]any{"a": []any{1, 3}}, false},
		{"empty map vs nil", map[string]any{}, nil, false},
		{"typed nil vs empty", []any(nil), []any{}, true},
		{"extra key", map[string]any{"a": 1}, map[string]any{"a": 1, "b": 2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, plain.Plain.DeepEqual(tc.a, tc.b))
			assert.Equal(t, tc.want, plain.Plain.DeepEqual(tc.b, tc.a))
		})
	}
}

func TestSizeEmptyFromJS(t *testing.T) {
	s := plain.Plain
	assert.Equal(t, 0, s.Size(s.Empty()))
	assert.Equal(t, 2, s.Size([]any{1, 2}))
	assert.Equal(t, 0, s.Size("abc"))

	in := map[any]any{"a": []string{"x"}, 1: true}
	got := s.FromJS(in)
	assert.Equal(t, map[string]any{"a": []any{"x"}, "1": true}, got)

	assert.Equal(t, map[string]any{"1": "a", "2": "b"}, s.FromJS(map[int]string{1: "a", 2: "b"}))
}

func TestDecode(t *testing.T) {
	j, err := plain.DecodeJSON([]byte(`{"values":{"qty":3,"name":"ada"}}`))
	require.NoError(t, err)
	y, err := plain.DecodeYAML([]byte("values:\n  qty: 3\n  name: ada\n"))
	require.NoError(t, err)
	assert.True(t, plain.DeepEqual(j, y))

	_, err = plain.DecodeJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestRegistered(t *testing.T) {
	s, err := structure.Lookup("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", s.Name())
}
