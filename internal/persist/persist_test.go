// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/problemset/pkg/types"
)

func sampleModel() types.Model {
	ref := 0
	m := types.Model{}
	sec := m.Section("1.5")
	sec.Append(types.KindReference, types.NewItem(`<div class="instructions">Solve.</div>`, nil), 0)
	sec.Append(types.KindProblem, types.NewItem(`<li>\(x^2\)</li>`, &ref), 1)
	sec.Append(types.KindProblem, types.NewItem(`<li>plain</li>`, nil), 2)
	sec.Append(types.KindExample, types.NewItem(`<section class="example">e</section>`, nil), 1)
	sec.SetAnswer(types.KindExample, 1, "<p>worked</p>")
	return m
}

func TestModelRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "model.json")
	want := sampleModel()

	require.NoError(t, SaveModel(path, want))
	got, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file is renamed away")
}

func TestSaveModel_Indented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, SaveModel(path, sampleModel()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"1.5\": {")
	assert.Contains(t, string(data), `"reference_id": null`)
}

func TestLoadModel_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadModel(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading model")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = LoadModel(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing model")
}

func TestLoadModel_NullSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"2.1": null}`), 0o644))

	m, err := LoadModel(path)
	require.NoError(t, err)
	sec, ok := m.Lookup("2.1")
	require.True(t, ok)
	assert.Equal(t, 0, sec.Len(types.KindProblem))
}

func TestSelectionFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("\"2.3\":\n  problem: [4, 1]\n\"1.5\":\n  example: [2]\n"), 0o644))

	sel, err := LoadSelection(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"2.3", "1.5"}, sel.Sections())

	out := filepath.Join(t.TempDir(), "out", "sel.yaml")
	require.NoError(t, SaveSelection(out, sel))
	again, err := LoadSelection(out)
	require.NoError(t, err)
	assert.Equal(t, sel, again)
}

func TestParseSelection_Invalid(t *testing.T) {
	_, err := ParseSelection([]byte("- 1\n- 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing selection")
}

func TestAnswerKeyPath(t *testing.T) {
	assert.Equal(t, "out/homework.key.json", AnswerKeyPath("out/homework.json"))
	assert.Equal(t, "model.key.json", AnswerKeyPath("model"))
}
