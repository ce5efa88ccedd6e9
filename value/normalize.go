package value

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// TrimSpace trims surrounding white space from string values.
func TrimSpace(v any, _ string) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}

// NFC puts string values into Unicode normalization form C so visually
// identical input compares equal against the stored baseline.
func NFC(v any, _ string) any {
	if s, ok := v.(string); ok {
		return norm.NFC.String(s)
	}
	return v
}

// FoldWidth maps full-width and half-width forms to their canonical width
// (e.g. "１２３" -> "123").
func FoldWidth(v any, _ string) any {
	if s, ok := v.(string); ok {
		return width.Fold.String(s)
	}
	return v
}

// Chain composes transforms left to right. Nil entries are skipped.
func Chain(fns ...Func) Func {
	return func(v any, name string) any {
		for _, fn := range fns {
			if fn != nil {
				v = fn(v, name)
			}
		}
		return v
	}
}
