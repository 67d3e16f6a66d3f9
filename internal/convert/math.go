// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/pdiddy/problemset/pkg/types"
)

var (
	blockMath  = regexp.MustCompile(`(?s)\\\[(.+?)\\\]`)
	inlineMath = regexp.MustCompile(`(?s)\\\((.+?)\\\)`)
	anyMath    = regexp.MustCompile(`(?s)(\\\(|\\\[)(.+?)(\\\)|\\\])`)

	styledMath  = regexp.MustCompile(`(?s)\$(\\(?:textstyle|displaystyle)\s+.+?)\$`)
	displayMath = regexp.MustCompile(`(?s)\$\\displaystyle\s+.+?\$`)
)

// Vault remembers the math spans replaced by Protect.
type Vault struct {
	nonce string
	spans []string
}

func (v *Vault) token(i int) string {
	return fmt.Sprintf("@@%sP%d@@", v.nonce, i)
}

// Len returns the number of protected spans.
func (v *Vault) Len() int {
	return len(v.spans)
}

// Protect replaces every math span of the orientation opposite to the one
// requested with an opaque placeholder: block spans when inline, inline
// spans otherwise. The spans are kept in the returned Vault with HTML
// character references decoded, since they are restored into LaTeX.
func Protect(text string, inline bool) (string, *Vault) {
	pattern := inlineMath
	if inline {
		pattern = blockMath
	}

	v := &Vault{nonce: strings.ReplaceAll(uuid.NewString(), "-", "")}
	out := pattern.ReplaceAllStringFunc(text, func(span string) string {
		v.spans = append(v.spans, html.UnescapeString(span))
		return v.token(len(v.spans) - 1)
	})
	return out, v
}

// Restore puts every protected span back in place of its placeholder.
func (v *Vault) Restore(text string) string {
	for i, span := range v.spans {
		text = strings.ReplaceAll(text, v.token(i), span)
	}
	return text
}

// NormalizeMath rewraps every \(..\) and \[..\] span as $\style body$. In
// block orientation styled spans are then set in \[..\]; with noBreak,
// inline display-styled spans are boxed.
func NormalizeMath(text string, style types.MathStyle, inline, noBreak bool) string {
	text = replaceSubmatch(anyMath, text, func(m []string) string {
		return `$\` + string(style) + " " + strings.TrimSpace(m[2]) + "$"
	})

	switch {
	case !inline:
		text = replaceSubmatch(styledMath, text, func(m []string) string {
			return `\[` + m[1] + `\]`
		})
	case noBreak:
		text = displayMath.ReplaceAllStringFunc(text, func(span string) string {
			return `\mbox{` + span + `}`
		})
	}
	return text
}

// replaceSubmatch is ReplaceAllStringFunc with access to submatches, so
// replacement text is never subject to $ expansion.
func replaceSubmatch(re *regexp.Regexp, text string, fn func([]string) string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, loc := range matches {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
