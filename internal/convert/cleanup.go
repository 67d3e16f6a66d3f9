// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"regexp"
	"strings"
)

type rewrite struct {
	pattern *regexp.Regexp
	repl    string
	literal bool
}

// latexRewrites run in order over the converter's output.
var latexRewrites = []rewrite{
	// {$x$} -> $x$
	{pattern: regexp.MustCompile(`(?s)\{\$(.*?)\$\}`), repl: "$$${1}$$"},

	{pattern: regexp.MustCompile(`(?s)\\begin\{figure\}.*?\\end\{figure\}`), repl: "", literal: true},
	{pattern: regexp.MustCompile(`(?s)\\caption\{.*?\}`), repl: "", literal: true},
	{pattern: regexp.MustCompile(`(?s)\\label\{.*?\}`), repl: "", literal: true},

	// \hyperlink{target}{{label}{text}} -> " label text"
	{pattern: regexp.MustCompile(`\\hyperlink\{[^}]*\}\{\{([^}]*)\}\s*\{([^}]*)\}\}`), repl: " ${1} ${2}"},

	// Every semicolon is typeset with thin spaces around it, math included.
	{pattern: regexp.MustCompile(`;[ \t]*`), repl: `\;;\;\; `, literal: true},

	// Paragraph breaks belong to the assembled document.
	{pattern: regexp.MustCompile(`\n\s*\n+`), repl: " ", literal: true},
}

// CleanLaTeX removes converter output with no meaning in the assembled
// document and applies the house typographic rules.
func CleanLaTeX(text string) string {
	for _, r := range latexRewrites {
		if r.literal {
			text = r.pattern.ReplaceAllLiteralString(text, r.repl)
			continue
		}
		text = r.pattern.ReplaceAllString(text, r.repl)
	}
	return text
}

var partLabel = regexp.MustCompile(`(?i)\s*\\textbf\{\(([a-z])\)\}`)

// FormatParts starts a new indented paragraph at every bold single-letter
// part label such as \textbf{(a)}. Labels already following the indent are
// left alone, so the rewrite is idempotent.
func FormatParts(text, indent string) string {
	if indent == "" {
		indent = DefaultIndent
	}
	hspace := `\hspace*{` + indent + `}`

	matches := partLabel.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, loc := range matches {
		b.WriteString(text[last:loc[0]])
		if strings.HasSuffix(text[:loc[0]], hspace) {
			b.WriteString(text[loc[0]:loc[1]])
		} else {
			letter := text[loc[2]:loc[3]]
			b.WriteString("\n\n" + `\vspace{0.5em}` + hspace + `\textbf{(` + letter + `)}`)
		}
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
