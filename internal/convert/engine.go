// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns annotated HTML fragments into LaTeX fragments.
//
// Every fragment runs through a fixed pipeline: sanitize HTML, protect math
// spans, convert the dialect with an external Converter, restore protected
// spans, clean the LaTeX, normalize math style, and reformat part labels.
// The order matters; each stage is exported so it can be tested alone.
package convert

import (
	"fmt"

	"github.com/pdiddy/problemset/pkg/types"
)

// DefaultIndent is the horizontal indent placed before part labels.
const DefaultIndent = "0.5em"

// Converter transforms an HTML fragment into an equivalent LaTeX fragment.
// Backends (pandoc on the host or in a container) implement this interface.
type Converter interface {
	// Convert returns the LaTeX rendering of markup.
	Convert(markup string) (string, error)
}

// Options configures one Engine. All fields are independent.
type Options struct {
	// Style is the math style command placed in front of every math span.
	Style types.MathStyle

	// Inline selects inline orientation: block spans are protected from the
	// converter and math stays in running text. When false, inline spans are
	// protected and styled math is set in display boundaries.
	Inline bool

	// Indent is the horizontal indent literal used before part labels.
	Indent string

	// Sanitize enables the HTML sanitizer stage.
	Sanitize bool

	// NoBreak boxes inline display-styled math so it cannot break across lines.
	NoBreak bool
}

// DefaultOptions returns inline, sanitized options for style.
func DefaultOptions(style types.MathStyle) Options {
	return Options{
		Style:    style,
		Inline:   true,
		Indent:   DefaultIndent,
		Sanitize: true,
	}
}

// Engine runs the conversion pipeline with fixed options. It keeps no state
// between calls.
type Engine struct {
	conv Converter
	opts Options
}

// NewEngine returns an Engine that uses conv for the dialect conversion.
func NewEngine(conv Converter, opts Options) *Engine {
	if opts.Style == "" {
		opts.Style = types.StyleText
	}
	return &Engine{conv: conv, opts: opts}
}

// Options returns the engine's configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Latexify converts one HTML fragment to LaTeX. A converter failure is
// returned as is; nothing is retried.
func (e *Engine) Latexify(markup string) (string, error) {
	if e.opts.Sanitize {
		clean, err := SanitizeHTML(markup)
		if err != nil {
			return "", err
		}
		markup = clean
	}

	protected, vault := Protect(markup, e.opts.Inline)

	latex, err := e.conv.Convert(protected)
	if err != nil {
		return "", fmt.Errorf("converting fragment: %w", err)
	}

	latex = vault.Restore(latex)
	latex = CleanLaTeX(latex)
	latex = NormalizeMath(latex, e.opts.Style, e.opts.Inline, e.opts.NoBreak)
	latex = FormatParts(latex, e.opts.Indent)

	return latex, nil
}
