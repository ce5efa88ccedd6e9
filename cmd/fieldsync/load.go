package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/fieldsync/structure"
	"github.com/reoring/fieldsync/structure/plain"
)

// loadTree decodes a JSON or YAML file into a plain tree, chosen by
// extension.
func loadTree(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var tree any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		tree, err = plain.DecodeYAML(data)
	default:
		tree, err = plain.DecodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	logger.Debug("state loaded", "file", path, "bytes", len(data))
	return tree, nil
}

// loadFormState loads path, selects the configured form subtree and converts
// it with the configured adapter.
func loadFormState(path string) (structure.Structure, any, error) {
	s, err := structure.Lookup(cfg.Structure)
	if err != nil {
		return nil, nil, err
	}
	tree, err := loadTree(path)
	if err != nil {
		return nil, nil, err
	}
	if cfg.FormPath != "" {
		tree = plain.Plain.GetIn(tree, cfg.FormPath)
		if tree == nil {
			return nil, nil, fmt.Errorf("no form state at %q in %s", cfg.FormPath, path)
		}
	}
	logger.Debug("form state selected", "form", cfg.FormPath, "structure", s.Name())
	return s, s.FromJS(tree), nil
}

func printJSON(v any) error {
	b, err := plain.EncodeJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(b))
	return err
}
