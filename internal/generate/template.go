// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"text/template"
)

// documentTmpl wraps the rendered blocks in the fixed preamble and
// postamble. Delimiters are changed so TeX braces never clash with actions.
var documentTmpl = template.Must(template.New("document").Delims("<<", ">>").Parse(`\documentclass{article}
\usepackage[legalpaper, margin=0.5in]{geometry}

\usepackage{textcomp}
\usepackage{fontspec}
\usepackage{unicode-math}
\usepackage{cprotect}
\setmainfont{Latin Modern Roman}
\setmathfont{Latin Modern Math}

\usepackage{hyperref}

\usepackage{amsmath}

\setlength{\parindent}{0pt}

\begin{document}

\newlength{\partheight}
\setlength{\partheight}{<<.PartHeight>>\textheight}

\begin{minipage}[t][0.05\textheight]{\textwidth}
\centering
{\Large \textbf{<<.Title>>}}
\end{minipage}

<<range .Blocks>>
\begin{minipage}[t][\partheight]{\textwidth}
<<if .Reference>><<.Reference>>
<<end>>\textbf{<<.Label>>}\;<<.Body>>
\end{minipage}
\par
<<end>>
<<- if .Answers>>
\newpage
\section*{Answers}
<<range .Answers>>
\textbf{<<.Label>>}\;<<.Body>>
\par
<<end>>
<<- end>>
\end{document}
`))

type document struct {
	Title      string
	PartHeight string
	Blocks     []block
	Answers    []block
}

type block struct {
	Label     string
	Reference string
	Body      string
}

func renderDocument(doc document) (string, error) {
	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
