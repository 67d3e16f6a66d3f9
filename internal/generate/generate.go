// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate assembles a LaTeX problem set from a persisted content
// model and a selection.
package generate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/problemset/internal/convert"
	"github.com/pdiddy/problemset/internal/logging"
	"github.com/pdiddy/problemset/internal/persist"
	"github.com/pdiddy/problemset/pkg/types"
)

const (
	defaultTitle      = "Homework Template"
	defaultPartHeight = "0.2375"
)

// Entry is one resolved selection item.
type Entry struct {
	// Label is the printed label, section.number.
	Label   string
	Section string
	Kind    types.FolderKind
	Number  int
	Item    types.Item

	// Reference is the shared instruction block the item points to, when it
	// exists in the same section.
	Reference *types.Item

	// Answer is the overlay markup for the item; empty when HasAnswer is false.
	Answer    string
	HasAnswer bool
}

// Generator renders selections of a content model.
type Generator struct {
	cfg    types.GenerationConfig
	items  *convert.Engine
	refs   *convert.Engine
	logger *zap.Logger
}

// New returns a Generator that converts fragments with conv. A nil logger
// discards log output.
func New(cfg types.GenerationConfig, conv convert.Converter, logger *zap.Logger) *Generator {
	if cfg.Style == "" {
		cfg.Style = types.StyleText
	}
	if cfg.Indent == "" {
		cfg.Indent = convert.DefaultIndent
	}
	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}
	if cfg.PartHeight == "" {
		cfg.PartHeight = defaultPartHeight
	}
	if cfg.AnswerKeyPath == "" && cfg.ModelPath != "" {
		cfg.AnswerKeyPath = persist.AnswerKeyPath(cfg.ModelPath)
	}

	return &Generator{
		cfg: cfg,
		items: convert.NewEngine(conv, convert.Options{
			Style:    cfg.Style,
			Inline:   true,
			Indent:   cfg.Indent,
			Sanitize: true,
		}),
		refs: convert.NewEngine(conv, convert.Options{
			Style:    types.StyleDisplay,
			Inline:   false,
			Indent:   cfg.Indent,
			Sanitize: true,
		}),
		logger: logging.OrNop(logger),
	}
}

// Load reads the content model and, when configured, merges the answer
// overlay of the separately extracted answer key. Either file missing is
// an error.
func (g *Generator) Load() (types.Model, error) {
	model, err := persist.LoadModel(g.cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	if !g.cfg.MergeAnswerKey {
		return model, nil
	}

	key, err := persist.LoadModel(g.cfg.AnswerKeyPath)
	if err != nil {
		return nil, fmt.Errorf("loading answer key: %w", err)
	}
	merged := model.MergeAnswers(key)
	g.logger.Debug("merged answer key", zap.String("path", g.cfg.AnswerKeyPath), zap.Int("answers", merged))
	return model, nil
}

// Resolve looks up every selected item in selection order. Sections and
// numbers missing from the model are skipped with a warning.
func (g *Generator) Resolve(model types.Model, sel types.Selection) []Entry {
	var entries []Entry
	for _, t := range sel.Triples() {
		sec, ok := model.Lookup(t.Section)
		if !ok {
			g.logger.Warn("selected section not found", zap.String("section", t.Section))
			continue
		}
		item, ok := sec.Search(t.Kind, t.Number)
		if !ok {
			g.logger.Warn("selected item not found",
				zap.String("section", t.Section),
				zap.String("kind", string(t.Kind)),
				zap.Int("number", t.Number))
			continue
		}

		e := Entry{
			Label:   fmt.Sprintf("%s.%d", t.Section, t.Number),
			Section: t.Section,
			Kind:    t.Kind,
			Number:  t.Number,
			Item:    types.NewItem(item.Markup, item.ReferenceID),
		}
		if item.HasReference() {
			if ref, ok := sec.Search(types.KindReference, *item.ReferenceID); ok {
				e.Reference = &ref
			} else {
				g.logger.Debug("reference not found",
					zap.String("label", e.Label), zap.Int("reference", *item.ReferenceID))
			}
		}
		e.Answer, e.HasAnswer = sec.Answer(t.Kind, t.Number)
		entries = append(entries, e)
	}
	return entries
}

type referenceKey struct {
	section string
	id      int
}

// Render converts the entries and assembles the complete document. A shared
// reference is rendered once, in the block of the first entry that uses it;
// later entries have their reference cleared. Any conversion failure aborts
// the render.
func (g *Generator) Render(entries []Entry) (string, error) {
	doc := document{Title: g.cfg.Title, PartHeight: g.cfg.PartHeight}
	emitted := map[referenceKey]bool{}

	for _, e := range entries {
		b := block{Label: e.Label}

		if e.Item.HasReference() {
			key := referenceKey{section: e.Section, id: *e.Item.ReferenceID}
			if emitted[key] {
				e.Item.ClearReference()
			} else if e.Reference != nil {
				ref, err := g.refs.Latexify(e.Reference.Markup)
				if err != nil {
					return "", fmt.Errorf("rendering reference for %s: %w", e.Label, err)
				}
				b.Reference = strings.TrimSpace(ref)
				emitted[key] = true
			}
		}

		body, err := g.items.Latexify(e.Item.Markup)
		if err != nil {
			return "", fmt.Errorf("rendering %s: %w", e.Label, err)
		}
		b.Body = strings.TrimSpace(body)
		doc.Blocks = append(doc.Blocks, b)

		if !e.HasAnswer || g.cfg.OmitAnswers {
			continue
		}
		answer, err := g.items.Latexify(e.Answer)
		if err != nil {
			return "", fmt.Errorf("rendering answer for %s: %w", e.Label, err)
		}
		doc.Answers = append(doc.Answers, block{Label: e.Label, Body: strings.TrimSpace(answer)})
	}

	out, err := renderDocument(doc)
	if err != nil {
		return "", fmt.Errorf("assembling document: %w", err)
	}
	return out, nil
}

// TeXPath returns the LaTeX source path for the configured output: the
// output path with its extension replaced by .tex.
func (g *Generator) TeXPath() string {
	out := g.cfg.Output
	return strings.TrimSuffix(out, filepath.Ext(out)) + ".tex"
}

// WriteTeX writes doc to TeXPath and returns that path.
func (g *Generator) WriteTeX(doc string) (string, error) {
	path := g.TeXPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Preview lists the plain text of every entry and of the reference it
// points to, one line each.
func (g *Generator) Preview(entries []Entry, w io.Writer) error {
	for _, e := range entries {
		text, err := convert.PlainText(e.Item.Markup)
		if err != nil {
			return fmt.Errorf("previewing %s: %w", e.Label, err)
		}
		fmt.Fprintf(w, "%s: %s\n", e.Label, text)

		if e.Reference == nil {
			continue
		}
		ref, err := convert.PlainText(e.Reference.Markup)
		if err != nil {
			return fmt.Errorf("previewing reference of %s: %w", e.Label, err)
		}
		fmt.Fprintf(w, "%s -> %d: %s\n", e.Label, *e.Item.ReferenceID, ref)
	}
	return nil
}

// Run loads the model, resolves sel, renders the document and writes it.
// It returns the path of the LaTeX source.
func (g *Generator) Run(ctx context.Context, sel types.Selection, w io.Writer) (string, error) {
	model, err := g.Load()
	if err != nil {
		return "", err
	}

	entries := g.Resolve(model, sel)
	if len(entries) == 0 {
		g.logger.Warn("selection resolved to no items")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := g.Render(entries)
	if err != nil {
		return "", err
	}
	path, err := g.WriteTeX(doc)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(w, "wrote %s (%d items)\n", path, len(entries))
	return path, nil
}
