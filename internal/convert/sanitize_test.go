// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "links unwrapped and scripts dropped",
			input: `<p>See <a href="http://x.com">link</a> and <script>evil()</script> text</p>`,
			want:  `<p>See link and text</p>`,
		},
		{
			name:  "only class attributes survive",
			input: `<div class="problem" id="p1" onclick="x()" style="color:red"><span data-x="1" class="number">3.</span></div>`,
			want:  `<div class="problem"><span class="number">3.</span></div>`,
		},
		{
			name:  "math elements keep only class",
			input: `<math xmlns="http://www.w3.org/1998/Math/MathML" display="block"><mi mathvariant="normal" class="v">x</mi></math>`,
			want:  `<math><mi class="v">x</mi></math>`,
		},
		{
			name:  "embeds and media removed with content",
			input: `<p>x<img src="a.png"/>y<iframe src="u"></iframe><video><source src="v.mp4"/>no video</video>z</p>`,
			want:  `<p>xyz</p>`,
		},
		{
			name:  "solution heading removed",
			input: `<h1 class="title">Solution</h1><p>Integrate.</p>`,
			want:  `<p>Integrate.</p>`,
		},
		{
			name:  "other titles kept",
			input: `<h1 class="title"><span class="number">2.</span> Example</h1>`,
			want:  `<h1 class="title"><span class="number">2.</span> Example</h1>`,
		},
		{
			name:  "literal urls removed",
			input: `<p>Visit https://example.com/a?b=1 or www.test.org or mailto:me@x.org now</p>`,
			want:  `<p>Visit or or now</p>`,
		},
		{
			name:  "whitespace collapsed and trimmed",
			input: "  <p>a\n\n\t  b</p>\n ",
			want:  `<p>a b</p>`,
		},
		{
			name:  "comments dropped",
			input: `<p>a<!-- note -->b</p>`,
			want:  `<p>ab</p>`,
		},
		{
			name:  "mathjax delimiters untouched",
			input: `<p>\( \frac{dy}{dx} = x \)</p>`,
			want:  `<p>\( \frac{dy}{dx} = x \)</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeHTML(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeHTML_Idempotent(t *testing.T) {
	input := `<section class="example"><p onmouseover="x">Let <a href="#e">\(y\)</a> be given; see www.a.com.</p></section>`
	once, err := SanitizeHTML(input)
	require.NoError(t, err)
	twice, err := SanitizeHTML(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}
