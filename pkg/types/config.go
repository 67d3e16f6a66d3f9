// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MathStyle selects the TeX style command placed in front of every math span.
type MathStyle string

const (
	StyleText    MathStyle = "textstyle"
	StyleDisplay MathStyle = "displaystyle"
)

// ConversionConfig holds settings for the HTML-to-LaTeX converter.
type ConversionConfig struct {
	// Runtime selects where pandoc runs: host, docker, podman, or auto
	// (host binary first, then a container runtime).
	Runtime string `json:"runtime" yaml:"runtime" mapstructure:"runtime" validate:"omitempty,oneof=auto host docker podman"`

	// PandocBinary is the pandoc executable used by the host runtime.
	PandocBinary string `json:"pandoc_binary" yaml:"pandoc_binary" mapstructure:"pandoc_binary"`

	// PandocImage is the container image used by docker or podman.
	PandocImage string `json:"pandoc_image" yaml:"pandoc_image" mapstructure:"pandoc_image"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// Sources are the annotated HTML documents, read and walked as one tree.
	Sources []string `json:"sources" yaml:"sources" mapstructure:"sources" validate:"required,min=1,dive,required"`

	// Output is the path of the persisted content model (JSON).
	Output string `json:"output" yaml:"output" mapstructure:"output" validate:"required"`

	// InitialSection is the section label in effect before the first
	// section header is seen.
	InitialSection string `json:"initial_section" yaml:"initial_section" mapstructure:"initial_section"`

	// RestartNumbering numbers each problem-list container from 1 instead
	// of continuing the section's sequence.
	RestartNumbering bool `json:"restart_numbering" yaml:"restart_numbering" mapstructure:"restart_numbering"`
}

// GenerationConfig holds settings for the generation stage.
type GenerationConfig struct {
	// ModelPath is the persisted content model to read.
	ModelPath string `json:"model_path" yaml:"model_path" mapstructure:"model_path" validate:"required"`

	// SelectionPath is the YAML selection file.
	SelectionPath string `json:"selection_path" yaml:"selection_path" mapstructure:"selection_path"`

	// MergeAnswerKey loads AnswerKeyPath and merges its overlay before
	// resolution.
	MergeAnswerKey bool `json:"merge_answer_key" yaml:"merge_answer_key" mapstructure:"merge_answer_key"`

	// AnswerKeyPath defaults to ModelPath with ".json" replaced by ".key.json".
	AnswerKeyPath string `json:"answer_key_path" yaml:"answer_key_path" mapstructure:"answer_key_path"`

	// Output is the requested artifact path (e.g. "out/homework.pdf"); the
	// LaTeX source is written next to it with a .tex extension.
	Output string `json:"output" yaml:"output" mapstructure:"output" validate:"required"`

	// Style is the math style used for item bodies and answers.
	Style MathStyle `json:"style" yaml:"style" mapstructure:"style" validate:"required,oneof=textstyle displaystyle"`

	// Indent is the horizontal indent placed before multi-part labels.
	Indent string `json:"indent" yaml:"indent" mapstructure:"indent"`

	// Title is printed at the top of the document.
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// PartHeight is the fixed height of each item block, as a fraction of
	// \textheight (e.g. "0.2375").
	PartHeight string `json:"part_height" yaml:"part_height" mapstructure:"part_height"`

	// OmitAnswers drops the answer-key section from the document.
	OmitAnswers bool `json:"omit_answers" yaml:"omit_answers" mapstructure:"omit_answers"`
}

// TypesetConfig holds settings for the external typesetting toolchain.
type TypesetConfig struct {
	// Binary is the latexmk executable.
	Binary string `json:"binary" yaml:"binary" mapstructure:"binary"`

	// Engine is the latexmk engine flag (e.g. "-xelatex").
	Engine string `json:"engine" yaml:"engine" mapstructure:"engine"`

	// KeepArtifacts disables removal of intermediate build files.
	KeepArtifacts bool `json:"keep_artifacts" yaml:"keep_artifacts" mapstructure:"keep_artifacts"`
}

// CatalogConfig holds settings for the searchable content catalog.
type CatalogConfig struct {
	// DBPath is the SQLite database file.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path" validate:"required"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"gte=0"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Debug      bool             `json:"debug" yaml:"debug" mapstructure:"debug"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion" mapstructure:"conversion"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`
	Typeset    TypesetConfig    `json:"typeset" yaml:"typeset" mapstructure:"typeset"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a stage config against its struct tags.
func Validate(cfg any) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
