package fieldsync

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/reoring/fieldsync/i18n"
	"github.com/reoring/fieldsync/internal/pathutil"
	"github.com/reoring/fieldsync/structure"
)

// Configuration and misuse codes (exported consts for IDE completion and
// errors.Is matching through the sentinels below).
const (
	CodeMissingStore    = "missing_store"
	CodeMissingForm     = "missing_form"
	CodeMissingName     = "missing_name"
	CodeMissingNames    = "missing_names"
	CodeInvalidNames    = "invalid_names"
	CodeWithRefRequired = "with_ref_required"
)

// Validation issue codes produced by Form.Issues.
const (
	CodeSyncError   = "sync_error"
	CodeSyncWarning = "sync_warning"
)

// ConfigError is raised synchronously for configuration and programmer
// misuse. It is never retried.
type ConfigError struct {
	Code      string
	Component string // "Form", "Field", "Fields"
	Message   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("fieldsync: %s: %s", e.Component, e.Message)
}

// Is matches another *ConfigError with the same Code, so the sentinels
// below work with errors.Is regardless of component or message.
func (e *ConfigError) Is(target error) bool {
	var t *ConfigError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func configError(code, component string, data map[string]string) *ConfigError {
	return &ConfigError{Code: code, Component: component, Message: i18n.T(code, data)}
}

var (
	ErrMissingStore    = &ConfigError{Code: CodeMissingStore}
	ErrMissingForm     = &ConfigError{Code: CodeMissingForm}
	ErrMissingName     = &ConfigError{Code: CodeMissingName}
	ErrMissingNames    = &ConfigError{Code: CodeMissingNames}
	ErrInvalidNames    = &ConfigError{Code: CodeInvalidNames}
	ErrWithRefRequired = &ConfigError{Code: CodeWithRefRequired}
)

// Issue is one validation entry flattened out of an error tree.
type Issue struct {
	Path    string // field path, e.g. addresses[0].street
	Code    string
	Message string
	Value   any // raw error value when it is not a string
}

// Issues is a collection of validation entries that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(iss)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s: %s", iss[i].Code, iss[i].Path, iss[i].Message)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssuesFromTree flattens an error or warning tree into Issues, sorted by
// path. Group-level "_error"/"_warning" slots are reported at their
// container's path.
func IssuesFromTree(s structure.Structure, tree any, code string) Issues {
	var out Issues
	walkLeaves(s.ToJS(tree), nil, func(segs []string, v any) {
		if structure.Blank(v) {
			return
		}
		if n := len(segs); n > 0 && (segs[n-1] == "_error" || segs[n-1] == "_warning") {
			segs = segs[:n-1]
		}
		it := Issue{Path: pathutil.Join(segs), Code: code}
		if msg, ok := v.(string); ok {
			it.Message = msg
		} else {
			it.Message = fmt.Sprint(v)
			it.Value = v
		}
		out = append(out, it)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func walkLeaves(v any, segs []string, fn func([]string, any)) {
	switch t := v.(type) {
	case nil:
	case map[string]any:
		for k, child := range t {
			walkLeaves(child, append(append([]string(nil), segs...), k), fn)
		}
	case []any:
		for i, child := range t {
			walkLeaves(child, append(append([]string(nil), segs...), fmt.Sprint(i)), fn)
		}
	default:
		fn(segs, v)
	}
}
