// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

const selectionYAML = `
"1.5":
  problem: [3, 5, 7]
  example: [1]
"1.3":
  problems: [11]
`

func TestSelection_UnmarshalKeepsOrder(t *testing.T) {
	var sel Selection
	require.NoError(t, yaml.Unmarshal([]byte(selectionYAML), &sel))

	assert.Equal(t, []string{"1.5", "1.3"}, sel.Sections())
	assert.Equal(t, []Triple{
		{"1.5", KindProblem, 3},
		{"1.5", KindProblem, 5},
		{"1.5", KindProblem, 7},
		{"1.5", KindExample, 1},
		{"1.3", KindProblem, 11},
	}, sel.Triples())
}

func TestSelection_UnmarshalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "not a mapping", input: "- 1\n- 2\n", want: "must be a mapping"},
		{name: "section not a mapping", input: "\"1.1\": [1, 2]\n", want: "must map folder kinds"},
		{name: "unknown kind", input: "\"1.1\":\n  remark: [1]\n", want: "unknown folder kind"},
		{name: "bad numbers", input: "\"1.1\":\n  problem: [a]\n", want: "numbers for 1.1/problem"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sel Selection
			err := yaml.Unmarshal([]byte(tt.input), &sel)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSelection_MarshalRoundTrip(t *testing.T) {
	var sel Selection
	sel.Add("2.1", KindExample, 4)
	sel.Add("1.1", KindProblem, 2)
	sel.Add("2.1", KindExample, 6)
	sel.Add("2.1", KindProblem, 1)

	data, err := yaml.Marshal(sel)
	require.NoError(t, err)

	var got Selection
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, sel, got)
	assert.Equal(t, []string{"2.1", "1.1"}, got.Sections())
}
