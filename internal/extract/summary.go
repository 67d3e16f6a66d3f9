// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "github.com/pdiddy/problemset/pkg/types"

// Summary holds the totals of one extraction run.
type Summary struct {
	Sections   int
	Problems   int
	Examples   int
	References int
	Answers    int
}

// Summarize counts the content of model.
func Summarize(model types.Model) Summary {
	s := Summary{Sections: len(model)}
	for _, sec := range model {
		s.Problems += sec.Len(types.KindProblem)
		s.Examples += sec.Len(types.KindExample)
		s.References += sec.Len(types.KindReference)
		s.Answers += answerCount(sec)
	}
	return s
}

// answerCount is the number of overlay entries across every folder kind.
func answerCount(sec *types.Section) int {
	n := 0
	for _, entries := range sec.Answers {
		n += len(entries)
	}
	return n
}
