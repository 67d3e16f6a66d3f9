// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/problemset/internal/persist"
	"github.com/pdiddy/problemset/pkg/types"
)

func extractDocs(t *testing.T, cfg types.ExtractionConfig, docs ...string) types.Model {
	t.Helper()
	readers := make([]io.Reader, 0, len(docs))
	for _, d := range docs {
		readers = append(readers, strings.NewReader(d))
	}
	model, err := New(cfg, nil).ExtractDocuments(readers...)
	require.NoError(t, err)
	return model
}

func section(t *testing.T, model types.Model, label string) *types.Section {
	t.Helper()
	sec, ok := model.Lookup(label)
	require.True(t, ok, "section %s not extracted", label)
	return sec
}

const headerDoc = `<section class="level1"><h1 class="title"><span class="number">1.5</span> Linear Equations</h1></section>`

func TestSequentialNumbering(t *testing.T) {
	doc := headerDoc + `<section class="practice"><ol class="practicelist"><li>one</li><li>two</li><li>three</li></ol></section>`

	sec := section(t, extractDocs(t, types.ExtractionConfig{}, doc), "1.5")

	require.Equal(t, 3, sec.Len(types.KindProblem))
	for n, want := range map[int]string{1: "<li>one</li>", 2: "<li>two</li>", 3: "<li>three</li>"} {
		it, ok := sec.Search(types.KindProblem, n)
		require.True(t, ok, "problem %d", n)
		assert.Equal(t, want, it.Markup)
		assert.Nil(t, it.ReferenceID)
	}
	assert.Equal(t, 0, sec.Len(types.KindReference))
}

func TestNestedListsOnlyTakeDirectItems(t *testing.T) {
	doc := headerDoc + `<section class="practice"><ol class="practicelist"><li>outer<ol><li>inner</li></ol></li></ol></section>`

	sec := section(t, extractDocs(t, types.ExtractionConfig{}, doc), "1.5")
	require.Equal(t, 1, sec.Len(types.KindProblem))
	it, _ := sec.Search(types.KindProblem, 1)
	assert.Equal(t, "<li>outer<ol><li>inner</li></ol></li>", it.Markup)
}

const pairingDoc = `<section class="level1"><h1 class="title"><span class="number">2.1.</span></h1></section>` +
	`<section class="practice"><div class="instructions"><p>Solve each.</p></div>` +
	`<ol class="practicelist"><li>a</li><li>b</li></ol></section>` +
	`<section class="practice"><ol class="practicelist"><li>c</li></ol></section>`

func TestReferencePairing(t *testing.T) {
	sec := section(t, extractDocs(t, types.ExtractionConfig{}, pairingDoc), "2.1")

	require.Equal(t, 1, sec.Len(types.KindReference))
	ref, ok := sec.Search(types.KindReference, 1)
	require.True(t, ok)
	assert.Equal(t, `<div class="instructions"><p>Solve each.</p></div>`, ref.Markup)
	assert.Nil(t, ref.ReferenceID)

	require.Equal(t, 3, sec.Len(types.KindProblem))
	for _, n := range []int{1, 2} {
		it, _ := sec.Search(types.KindProblem, n)
		require.NotNil(t, it.ReferenceID, "problem %d", n)
		assert.Equal(t, 1, *it.ReferenceID)
	}
	third, _ := sec.Search(types.KindProblem, 3)
	assert.Equal(t, "<li>c</li>", third.Markup)
	assert.Nil(t, third.ReferenceID)
}

func TestRestartNumbering(t *testing.T) {
	sec := section(t, extractDocs(t, types.ExtractionConfig{RestartNumbering: true}, pairingDoc), "2.1")

	// The second list starts again at 1 and replaces the first problem.
	require.Equal(t, 2, sec.Len(types.KindProblem))
	first, _ := sec.Search(types.KindProblem, 1)
	assert.Equal(t, "<li>c</li>", first.Markup)
	assert.Nil(t, first.ReferenceID)
	second, _ := sec.Search(types.KindProblem, 2)
	assert.Equal(t, "<li>b</li>", second.Markup)
}

func TestMultipleInstructionBlocks(t *testing.T) {
	doc := headerDoc +
		`<section class="practice">` +
		`<div class="instructions">first</div><ol class="practicelist"><li>a</li></ol>` +
		`<div class="instructions">second</div><ol class="practicelist"><li>b</li></ol>` +
		`<ol class="practicelist"><li>c</li></ol>` +
		`</section>`

	sec := section(t, extractDocs(t, types.ExtractionConfig{}, doc), "1.5")
	assert.Equal(t, 2, sec.Len(types.KindReference))

	want := map[int]*int{1: ptr(1), 2: ptr(2), 3: nil}
	for n, ref := range want {
		it, ok := sec.Search(types.KindProblem, n)
		require.True(t, ok)
		assert.Equal(t, ref, it.ReferenceID, "problem %d", n)
	}
}

func TestReferenceIDsSpanSources(t *testing.T) {
	a := headerDoc + `<section class="practice"><div class="instructions">x</div><ol class="practicelist"><li>a</li></ol></section>`
	b := `<section class="level1"><h1 class="title"><span class="number">1.6</span></h1></section>` +
		`<section class="practice"><div class="instructions">y</div><ol class="practicelist"><li>b</li></ol></section>`

	model := extractDocs(t, types.ExtractionConfig{}, a, b)

	_, ok := section(t, model, "1.5").Search(types.KindReference, 1)
	assert.True(t, ok)
	it, _ := section(t, model, "1.6").Search(types.KindProblem, 1)
	require.NotNil(t, it.ReferenceID)
	assert.Equal(t, 2, *it.ReferenceID)
	_, ok = section(t, model, "1.6").Search(types.KindReference, 2)
	assert.True(t, ok)
}

func TestInitialSection(t *testing.T) {
	doc := `<section class="practice"><ol class="practicelist"><li>early</li></ol></section>`

	model := extractDocs(t, types.ExtractionConfig{}, doc)
	assert.Equal(t, 1, section(t, model, "1.1").Len(types.KindProblem))

	model = extractDocs(t, types.ExtractionConfig{InitialSection: "0.1"}, doc)
	assert.Equal(t, 1, section(t, model, "0.1").Len(types.KindProblem))
}

func TestHeaderWithoutNumberKeepsSection(t *testing.T) {
	doc := headerDoc +
		`<section class="level1"><h1 class="title">Review</h1></section>` +
		`<section class="practice"><ol class="practicelist"><li>a</li></ol></section>`

	model := extractDocs(t, types.ExtractionConfig{}, doc)
	assert.Len(t, model, 1)
	assert.Equal(t, 1, section(t, model, "1.5").Len(types.KindProblem))
}

func TestExample(t *testing.T) {
	doc := headerDoc +
		`<section class="example" id="ex4"><h1 class="title"><span class="number">4.</span> Example</h1>` +
		`<p>Find x.</p>` +
		`<section class="level3"><h1 class="title">Solution</h1><p>x = 1</p></section>` +
		`</section>`

	sec := section(t, extractDocs(t, types.ExtractionConfig{}, doc), "1.5")

	it, ok := sec.Search(types.KindExample, 4)
	require.True(t, ok)
	assert.Equal(t, `<section class="example" id="ex4"><p>Find x.</p></section>`, it.Markup)
	assert.Nil(t, it.ReferenceID)

	answer, ok := sec.Answer(types.KindExample, 4)
	require.True(t, ok)
	assert.Equal(t, `<section class="level3"><h1 class="title">Solution</h1><p>x = 1</p></section>`, answer)
}

func TestExampleWithoutSolution(t *testing.T) {
	doc := headerDoc + `<section class="example"><h1 class="title"><span class="number">2</span></h1><p>Plain.</p></section>`

	sec := section(t, extractDocs(t, types.ExtractionConfig{}, doc), "1.5")
	it, ok := sec.Search(types.KindExample, 2)
	require.True(t, ok)
	assert.Equal(t, `<section class="example"><p>Plain.</p></section>`, it.Markup)
	_, ok = sec.Answer(types.KindExample, 2)
	assert.False(t, ok)
}

func TestExampleSkips(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "no title", doc: `<section class="example"><p>x</p></section>`},
		{name: "no number", doc: `<section class="example"><h1 class="title">Example</h1></section>`},
		{name: "non-numeric number", doc: `<section class="example"><h1 class="title"><span class="number">A.</span></h1></section>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := section(t, extractDocs(t, types.ExtractionConfig{}, headerDoc+tt.doc), "1.5")
			assert.Equal(t, 0, sec.Len(types.KindExample))
			assert.Empty(t, sec.Answers[types.KindExample])
		})
	}
}

func TestAnswerKey(t *testing.T) {
	doc := headerDoc +
		`<section class="answersetdiv"><h1 class="title"><span class="number">3.2</span> Answers</h1>` +
		`<ol class="answerlist">` +
		`<li class="answer"><span class="number">3.</span> \(x = 2\)</li>` +
		`<li class="answer">no label</li>` +
		`<li class="answer"><span class="number">7.</span> \(y\)</li>` +
		`<li class="answer"><span class="number">a.</span> bad</li>` +
		`</ol></section>`

	model := extractDocs(t, types.ExtractionConfig{}, doc)
	sec := section(t, model, "3.2")

	assert.Equal(t, map[int]string{
		3: `<li class="answer"> \(x = 2\)</li>`,
		7: `<li class="answer"> \(y\)</li>`,
	}, sec.Answers[types.KindProblem])
	assert.Equal(t, 0, sec.Len(types.KindProblem))
}

func TestAnswerKeyKeepsCurrentSection(t *testing.T) {
	doc := headerDoc +
		`<section class="answersetdiv"><ol class="answerlist"><li class="answer"><span class="number">1.</span>ok</li></ol></section>`

	sec := section(t, extractDocs(t, types.ExtractionConfig{}, doc), "1.5")
	got, ok := sec.Answer(types.KindProblem, 1)
	require.True(t, ok)
	assert.Equal(t, `<li class="answer">ok</li>`, got)
}

func TestUnknownContainersIgnored(t *testing.T) {
	doc := headerDoc +
		`<section class="remark practice"><ol class="practicelist"><li>x</li></ol></section>` +
		`<section class="level2"><ol class="practicelist"><li>y</li></ol></section>` +
		`<div class="practice"><ol class="practicelist"><li>z</li></ol></div>`

	model := extractDocs(t, types.ExtractionConfig{}, doc)
	assert.Len(t, model, 1)
	assert.Equal(t, 0, section(t, model, "1.5").Len(types.KindProblem))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "chapter.html")
	require.NoError(t, os.WriteFile(src, []byte("<html><body>"+pairingDoc+"</body></html>"), 0o644))

	cfg := types.ExtractionConfig{
		Sources: []string{src},
		Output:  filepath.Join(dir, "out", "homework.json"),
	}

	var buf bytes.Buffer
	summary, err := New(cfg, nil).Run(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, Summary{Sections: 1, Problems: 3, References: 1}, summary)
	assert.Contains(t, buf.String(), "extracted 2.1: 3 problems, 0 examples, 1 references, 0 answers")

	model, err := persist.LoadModel(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, 3, section(t, model, "2.1").Len(types.KindProblem))
}

func TestRunMissingSource(t *testing.T) {
	cfg := types.ExtractionConfig{
		Sources: []string{filepath.Join(t.TempDir(), "missing.html")},
		Output:  filepath.Join(t.TempDir(), "homework.json"),
	}
	_, err := New(cfg, nil).Run(context.Background(), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening source")
}

func TestRunCancelled(t *testing.T) {
	src := filepath.Join(t.TempDir(), "chapter.html")
	require.NoError(t, os.WriteFile(src, []byte(pairingDoc), 0o644))
	cfg := types.ExtractionConfig{
		Sources: []string{src},
		Output:  filepath.Join(t.TempDir(), "homework.json"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(cfg, nil).Run(ctx, io.Discard)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.Output)
}

func ptr(n int) *int { return &n }
