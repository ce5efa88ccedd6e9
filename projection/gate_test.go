package projection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reoring/fieldsync/projection"
	"github.com/reoring/fieldsync/structure/immutable"
	"github.com/reoring/fieldsync/structure/plain"
)

func TestShouldUpdate(t *testing.T) {
	s := plain.Plain
	prev := map[string]any{
		"name":                    "email",
		"value":                   map[string]any{"a": 1},
		projection.FormContextKey: &struct{ id int }{1},
	}

	onlyExempt := map[string]any{
		"name":                    "email",
		"value":                   map[string]any{"a": 1.0},
		projection.FormContextKey: &struct{ id int }{2},
	}
	assert.False(t, projection.ShouldUpdate(s, prev, onlyExempt))

	changed := map[string]any{
		"name":                    "email",
		"value":                   map[string]any{"a": 2},
		projection.FormContextKey: prev[projection.FormContextKey],
	}
	assert.True(t, projection.ShouldUpdate(s, prev, changed))

	extra := map[string]any{
		"name":                    "email",
		"value":                   map[string]any{"a": 1},
		projection.FormContextKey: prev[projection.FormContextKey],
		"dirty":                   true,
	}
	assert.True(t, projection.ShouldUpdate(s, prev, extra))

	renamed := map[string]any{
		"title":                   "email",
		"value":                   map[string]any{"a": 1},
		projection.FormContextKey: prev[projection.FormContextKey],
	}
	assert.True(t, projection.ShouldUpdate(s, prev, renamed))
}

func TestShouldUpdate_ProjectedProps(t *testing.T) {
	s := immutable.Immutable
	st := s.FromJS(formState())
	a := projection.Project(s, st, "name", projection.Options{}).Map()
	b := projection.Project(s, s.FromJS(formState()), "name", projection.Options{}).Map()
	assert.False(t, projection.ShouldUpdate(s, a, b), "fresh projection of an equal tree")

	moved := s.SetIn(st, "values.name", "grace")
	c := projection.Project(s, moved, "name", projection.Options{}).Map()
	assert.True(t, projection.ShouldUpdate(s, a, c))
}
