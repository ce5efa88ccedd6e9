package plain

import (
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DecodeJSON parses a JSON document into a plain tree. Numbers are kept as
// json.Number so integer and decimal inputs survive a round trip unchanged.
func DecodeJSON(data []byte) (any, error) {
	return DecodeJSONReader(bytes.NewReader(data))
}

// DecodeJSONReader is DecodeJSON over an io.Reader.
func DecodeJSONReader(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("plain: decode json: %w", err)
	}
	return normalize(v), nil
}

// DecodeYAML parses a YAML document into a plain tree. Non-string mapping
// keys are rendered with fmt so every mapping is map[string]any.
func DecodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("plain: decode yaml: %w", err)
	}
	return normalize(v), nil
}

// EncodeJSON renders a plain tree as indented JSON.
func EncodeJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func toKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}
