// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: `<li>Solve <em>for</em>   \(x\)</li>`, want: `Solve for \(x\)`},
		{input: "<div>\n  <p>a</p>\n  <p>b &amp; c</p>\n</div>", want: "a b & c"},
		{input: "", want: ""},
	}
	for _, tt := range tests {
		got, err := PlainText(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.input)
	}
}
