// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package persist reads and writes the content model and selection files.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/problemset/pkg/types"
)

// LoadModel reads a persisted content model. A model file written by any
// earlier version of the extractor is accepted; see types.Section.
func LoadModel(path string) (types.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}

	model := types.Model{}
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("parsing model %s: %w", path, err)
	}
	for label, sec := range model {
		if sec == nil {
			model[label] = types.NewSection()
		}
	}
	return model, nil
}

// SaveModel writes model as indented JSON, creating parent directories as
// needed. The file is written to a temporary sibling and renamed into place.
func SaveModel(path string, model types.Model) error {
	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing model: %w", err)
	}
	return nil
}

// LoadSelection reads a YAML selection file.
func LoadSelection(path string) (types.Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading selection: %w", err)
	}
	return ParseSelection(data)
}

// ParseSelection decodes a YAML selection document.
func ParseSelection(data []byte) (types.Selection, error) {
	var sel types.Selection
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("parsing selection: %w", err)
	}
	return sel, nil
}

// SaveSelection writes sel as YAML.
func SaveSelection(path string, sel types.Selection) error {
	data, err := yaml.Marshal(sel)
	if err != nil {
		return fmt.Errorf("encoding selection: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating selection directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing selection: %w", err)
	}
	return nil
}

// AnswerKeyPath derives the answer-key file for a model file by replacing a
// trailing ".json" with ".key.json".
func AnswerKeyPath(modelPath string) string {
	if base, ok := strings.CutSuffix(modelPath, ".json"); ok {
		return base + ".key.json"
	}
	return modelPath + ".key.json"
}
