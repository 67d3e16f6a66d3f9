// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract walks annotated textbook HTML and builds the content
// model: numbered problems with their shared instructions, worked examples
// with their solutions, and answer keys.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdiddy/problemset/internal/logging"
	"github.com/pdiddy/problemset/internal/persist"
	"github.com/pdiddy/problemset/pkg/types"
)

// defaultSection is the section label in effect before any header is seen.
const defaultSection = "1.1"

// ContainerKind is the class that marks a <section> as one of the
// structural containers the extractor understands.
type ContainerKind string

const (
	ContainerHeader      ContainerKind = "level1"
	ContainerProblemList ContainerKind = "practice"
	ContainerExample     ContainerKind = "example"
	ContainerAnswerKey   ContainerKind = "answersetdiv"
)

// containerSelector matches every section carrying one of the known kinds.
const containerSelector = "section.level1, section.practice, section.example, section.answersetdiv"

type handler func(w *walker, body *goquery.Selection)

var handlers = map[ContainerKind]handler{
	ContainerHeader:      (*walker).enterSection,
	ContainerProblemList: (*walker).problemList,
	ContainerExample:     (*walker).example,
	ContainerAnswerKey:   (*walker).answerKey,
}

// Extractor builds a content model from annotated HTML sources.
type Extractor struct {
	cfg    types.ExtractionConfig
	logger *zap.Logger
}

// New returns an Extractor for cfg. A nil logger discards log output.
func New(cfg types.ExtractionConfig, logger *zap.Logger) *Extractor {
	if cfg.InitialSection == "" {
		cfg.InitialSection = defaultSection
	}
	return &Extractor{cfg: cfg, logger: logging.OrNop(logger)}
}

// ExtractDocuments reads every source, joins them with blank lines into one
// document and walks it once. Reference ids are unique across all sources.
func (e *Extractor) ExtractDocuments(sources ...io.Reader) (types.Model, error) {
	var combined bytes.Buffer
	for i, r := range sources {
		if _, err := io.Copy(&combined, r); err != nil {
			return nil, fmt.Errorf("reading source %d: %w", i+1, err)
		}
		combined.WriteString("\n\n")
	}

	doc, err := goquery.NewDocumentFromReader(&combined)
	if err != nil {
		return nil, fmt.Errorf("parsing sources: %w", err)
	}

	w := e.newWalker()
	doc.Find(containerSelector).Each(func(_ int, sel *goquery.Selection) {
		w.visit(sel)
	})
	return w.model, nil
}

// ExtractFiles runs ExtractDocuments over the files at paths.
func (e *Extractor) ExtractFiles(paths []string) (types.Model, error) {
	readers := make([]io.Reader, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("opening source: %w", err)
		}
		defer f.Close()
		readers = append(readers, f)
	}
	return e.ExtractDocuments(readers...)
}

// Run extracts the configured sources, writes the model to the configured
// output and reports per-section counts to w.
func (e *Extractor) Run(ctx context.Context, w io.Writer) (Summary, error) {
	model, err := e.ExtractFiles(e.cfg.Sources)
	if err != nil {
		return Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	if err := persist.SaveModel(e.cfg.Output, model); err != nil {
		return Summary{}, err
	}

	summary := Summarize(model)
	for _, label := range slices.Sorted(maps.Keys(model)) {
		sec := model[label]
		fmt.Fprintf(w, "extracted %s: %d problems, %d examples, %d references, %d answers\n",
			label, sec.Len(types.KindProblem), sec.Len(types.KindExample),
			sec.Len(types.KindReference), answerCount(sec))
	}
	fmt.Fprintf(w, "wrote %d sections to %s\n", summary.Sections, e.cfg.Output)
	return summary, nil
}

// walker carries the extraction state through one pass over the document.
type walker struct {
	model   types.Model
	section string
	current int
	nextRef int
	restart bool
	logger  *zap.Logger
}

func (e *Extractor) newWalker() *walker {
	return &walker{
		model:   types.Model{},
		section: e.cfg.InitialSection,
		current: 1,
		nextRef: 1,
		restart: e.cfg.RestartNumbering,
		logger:  e.logger,
	}
}

// visit dispatches a container on its first class, as authored.
func (w *walker) visit(sel *goquery.Selection) {
	classes := strings.Fields(sel.AttrOr("class", ""))
	if len(classes) == 0 {
		return
	}
	h, ok := handlers[ContainerKind(classes[0])]
	if !ok {
		w.logger.Debug("ignoring container", zap.String("class", classes[0]), zap.String("section", w.section))
		return
	}
	h(w, sel)
}

func (w *walker) sectionRecord() *types.Section {
	return w.model.Section(w.section)
}

// enterSection switches the current section to the one named by the first
// title's number span.
func (w *walker) enterSection(body *goquery.Selection) {
	number := body.Find("h1.title").First().Find("span.number").First()
	if number.Length() == 0 {
		return
	}
	label := strings.TrimSuffix(strings.TrimSpace(number.Text()), ".")
	if label == "" {
		return
	}

	w.section = label
	w.current = 1
	w.sectionRecord()
}

// problemList pairs instruction blocks with problem lists by position and
// records every direct list item as a problem.
func (w *walker) problemList(body *goquery.Selection) {
	instructions := body.Find("div.instructions")
	lists := body.Find("ol.practicelist")
	sec := w.sectionRecord()

	if w.restart {
		w.current = 1
	}

	lists.Each(func(i int, list *goquery.Selection) {
		var ref *int
		if i < instructions.Length() {
			id := w.reference(instructions.Eq(i))
			ref = &id
		}

		list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			markup, err := goquery.OuterHtml(li)
			if err != nil {
				w.logger.Debug("skipping unrenderable problem", zap.String("section", w.section), zap.Error(err))
				return
			}
			sec.Append(types.KindProblem, types.NewItem(markup, ref), w.current)
			w.current++
		})
	})
}

// reference stores an instruction block as the next reference and returns
// its id.
func (w *walker) reference(sel *goquery.Selection) int {
	id := w.nextRef
	w.nextRef++

	markup, err := goquery.OuterHtml(sel)
	if err != nil {
		w.logger.Debug("storing empty reference", zap.Int("reference", id), zap.Error(err))
	}
	w.sectionRecord().Append(types.KindReference, types.NewItem(markup, nil), id)
	return id
}

// example stores a numbered worked example, moving its solution into the
// answer overlay.
func (w *walker) example(sel *goquery.Selection) {
	body := sel.Clone()

	header := body.Find("h1.title").First()
	if header.Length() == 0 {
		w.logger.Debug("skipping example without title", zap.String("section", w.section))
		return
	}
	number, ok := parseLabel(header.Find("span.number").First())
	if !ok {
		w.logger.Debug("skipping example without number", zap.String("section", w.section))
		return
	}

	sec := w.sectionRecord()
	if solution := body.Find("section.level3, section.level4").First(); solution.Length() > 0 {
		markup, err := goquery.OuterHtml(solution)
		if err == nil {
			sec.SetAnswer(types.KindExample, number, markup)
		}
		solution.Remove()
	}
	header.Remove()

	markup, err := goquery.OuterHtml(body)
	if err != nil {
		w.logger.Debug("skipping unrenderable example", zap.Int("example", number), zap.Error(err))
		return
	}
	sec.Append(types.KindExample, types.NewItem(markup, nil), number)
}

// answerKey records every labelled answer of the first answer list under
// the problem overlay.
func (w *walker) answerKey(sel *goquery.Selection) {
	w.enterSection(sel)

	list := sel.Find("ol.answerlist").First()
	if list.Length() == 0 {
		return
	}
	sec := w.sectionRecord()

	list.Find("li.answer").Each(func(_ int, li *goquery.Selection) {
		item := li.Clone()
		label := item.Find("span.number").First()
		number, ok := parseLabel(label)
		if !ok {
			w.logger.Debug("skipping unlabelled answer", zap.String("section", w.section))
			return
		}
		label.Remove()

		markup, err := goquery.OuterHtml(item)
		if err != nil {
			w.logger.Debug("skipping unrenderable answer", zap.Int("problem", number), zap.Error(err))
			return
		}
		sec.SetAnswer(types.KindProblem, number, markup)
	})
}

// parseLabel reads an integer label such as "7." from sel.
func parseLabel(sel *goquery.Selection) (int, bool) {
	if sel.Length() == 0 {
		return 0, false
	}
	text := strings.TrimSuffix(strings.TrimSpace(sel.Text()), ".")
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return n, true
}
