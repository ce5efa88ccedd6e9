package fieldsync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reoring/fieldsync"
)

func TestLeafPaths(t *testing.T) {
	tree := map[string]any{
		"a":    map[string]any{"b": 1, "c": ""},
		"list": []any{"x", map[string]any{"y": true}},
		"none": nil,
		"e":    map[string]any{},
	}
	for _, s := range adapters {
		t.Run(s.Name(), func(t *testing.T) {
			assert.Equal(t, []string{"a.b", "a.c", "list[0]", "list[1].y"}, fieldsync.LeafPaths(s, s.FromJS(tree)))
		})
	}
	assert.Empty(t, fieldsync.LeafPaths(adapters[0], nil))
}

func TestDirtyPaths(t *testing.T) {
	state := map[string]any{
		"values":  map[string]any{"a": 1, "b": "", "c": []any{"x", "y"}, "d": false},
		"initial": map[string]any{"a": 1.0, "c": []any{"x"}, "e": "gone"},
	}
	for _, s := range adapters {
		t.Run(s.Name(), func(t *testing.T) {
			assert.Equal(t, []string{"c[1]", "d", "e"}, fieldsync.DirtyPaths(s, s.FromJS(state)))
		})
	}
}

func TestIssuesFromTree_GroupSlots(t *testing.T) {
	for _, s := range adapters {
		t.Run(s.Name(), func(t *testing.T) {
			tree := s.FromJS(map[string]any{
				"address": map[string]any{"_error": "Incomplete", "zip": "Bad zip", "city": ""},
				"age":     map[string]any{"min": 18},
			})
			iss := fieldsync.IssuesFromTree(s, tree, fieldsync.CodeSyncError)
			if assert.Len(t, iss, 3) {
				assert.Equal(t, "address", iss[0].Path)
				assert.Equal(t, "Incomplete", iss[0].Message)
				assert.Equal(t, "address.zip", iss[1].Path)
				assert.Equal(t, "age.min", iss[2].Path)
				assert.Equal(t, "18", iss[2].Message)
				assert.NotNil(t, iss[2].Value)
			}
		})
	}
}

func TestIssues_Error(t *testing.T) {
	iss := fieldsync.Issues{
		{Path: "a", Code: "c", Message: "m1"},
		{Path: "b", Code: "c", Message: "m2"},
		{Path: "c", Code: "c", Message: "m3"},
		{Path: "d", Code: "c", Message: "m4"},
	}
	assert.Equal(t, "c at a: m1; c at b: m2; c at c: m3; ... (total 4)", iss.Error())
	assert.Equal(t, "", fieldsync.Issues(nil).Error())
	_, ok := fieldsync.AsIssues(nil)
	assert.False(t, ok)
}
