// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FolderKind names one of the four typed collections held by a Section.
type FolderKind string

const (
	KindProblem   FolderKind = "problem"
	KindExample   FolderKind = "example"
	KindReference FolderKind = "reference"
	KindAnswer    FolderKind = "answer"
)

// FolderKinds lists every kind in the order sections are reported.
var FolderKinds = []FolderKind{KindProblem, KindExample, KindReference, KindAnswer}

// ParseFolderKind accepts the singular kind name and the plural JSON member
// name ("problems", "examples", ...).
func ParseFolderKind(s string) (FolderKind, error) {
	switch s {
	case "problem", "problems":
		return KindProblem, nil
	case "example", "examples":
		return KindExample, nil
	case "reference", "references":
		return KindReference, nil
	case "answer", "answers":
		return KindAnswer, nil
	}
	return "", fmt.Errorf("unknown folder kind %q: use problem, example, reference, or answer", s)
}

// Item is one extracted homework artifact: raw HTML markup plus an optional
// link to a shared reference in the same section.
type Item struct {
	// Markup is the item's HTML, exactly as extracted.
	Markup string `json:"markup" yaml:"markup"`

	// ReferenceID points into the section's reference folder. Nil when the
	// item has no shared instructions.
	ReferenceID *int `json:"reference_id" yaml:"reference_id"`
}

// NewItem builds an Item, taking a copy of ref when non-nil.
func NewItem(markup string, ref *int) Item {
	it := Item{Markup: markup}
	if ref != nil {
		id := *ref
		it.ReferenceID = &id
	}
	return it
}

// HasReference reports whether the item links to a reference.
func (it Item) HasReference() bool {
	return it.ReferenceID != nil
}

// ClearReference drops the reference link. This is the only mutation an
// Item allows after creation.
func (it *Item) ClearReference() {
	it.ReferenceID = nil
}

// UnmarshalJSON accepts both the current field names and the older
// html/refr names.
func (it *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		Markup      *string `json:"markup"`
		ReferenceID *int    `json:"reference_id"`
		HTML        *string `json:"html"`
		Refr        *int    `json:"refr"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*it = Item{}
	switch {
	case raw.Markup != nil:
		it.Markup = *raw.Markup
	case raw.HTML != nil:
		it.Markup = *raw.HTML
	}
	if raw.ReferenceID != nil {
		it.ReferenceID = raw.ReferenceID
	} else if raw.Refr != nil {
		it.ReferenceID = raw.Refr
	}
	return nil
}

// Folder maps a local number to an Item. Numbers are unique within a folder
// but need not be contiguous; consumers index by number, never by order.
type Folder map[int]Item

// Overlay holds solution markup keyed by folder kind, then local number.
type Overlay map[FolderKind]map[int]string

// Section holds all content extracted for one textbook subsection.
type Section struct {
	Examples   Folder  `json:"examples"`
	Problems   Folder  `json:"problems"`
	References Folder  `json:"references"`
	Answers    Overlay `json:"answers"`
}

// NewSection returns a Section with every folder initialized.
func NewSection() *Section {
	return &Section{
		Examples:   Folder{},
		Problems:   Folder{},
		References: Folder{},
		Answers:    Overlay{},
	}
}

func (s *Section) folder(kind FolderKind) Folder {
	switch kind {
	case KindProblem:
		if s.Problems == nil {
			s.Problems = Folder{}
		}
		return s.Problems
	case KindExample:
		if s.Examples == nil {
			s.Examples = Folder{}
		}
		return s.Examples
	case KindReference:
		if s.References == nil {
			s.References = Folder{}
		}
		return s.References
	}
	return nil
}

// Append inserts item into the folder for kind and returns the number used.
// A number of -1 assigns the folder's current size. The answer kind stores
// the markup in the problem answer overlay.
func (s *Section) Append(kind FolderKind, item Item, number int) int {
	if kind == KindAnswer {
		if number == -1 {
			number = len(s.Answers[KindProblem])
		}
		s.SetAnswer(KindProblem, number, item.Markup)
		return number
	}

	f := s.folder(kind)
	if f == nil {
		return number
	}
	if number == -1 {
		number = len(f)
	}
	f[number] = item
	return number
}

// Search returns the item stored at number in the folder for kind.
func (s *Section) Search(kind FolderKind, number int) (Item, bool) {
	if kind == KindAnswer {
		markup, ok := s.Answer(KindProblem, number)
		return Item{Markup: markup}, ok
	}

	var f Folder
	switch kind {
	case KindProblem:
		f = s.Problems
	case KindExample:
		f = s.Examples
	case KindReference:
		f = s.References
	}
	it, ok := f[number]
	return it, ok
}

// SetAnswer records solution markup for the entry (kind, number).
func (s *Section) SetAnswer(kind FolderKind, number int, markup string) {
	if s.Answers == nil {
		s.Answers = Overlay{}
	}
	if s.Answers[kind] == nil {
		s.Answers[kind] = map[int]string{}
	}
	s.Answers[kind][number] = markup
}

// Answer returns the solution markup for (kind, number), if any.
func (s *Section) Answer(kind FolderKind, number int) (string, bool) {
	markup, ok := s.Answers[kind][number]
	return markup, ok
}

// Len returns the number of entries held for kind.
func (s *Section) Len(kind FolderKind) int {
	if kind == KindAnswer {
		return len(s.Answers[KindProblem])
	}
	return len(s.folder(kind))
}

// UnmarshalJSON decodes a section, migrating the older answers shape (a map
// of number to full item) into the problem overlay.
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw struct {
		Examples   Folder          `json:"examples"`
		Problems   Folder          `json:"problems"`
		References Folder          `json:"references"`
		Answers    json.RawMessage `json:"answers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = *NewSection()
	if raw.Examples != nil {
		s.Examples = raw.Examples
	}
	if raw.Problems != nil {
		s.Problems = raw.Problems
	}
	if raw.References != nil {
		s.References = raw.References
	}
	if len(raw.Answers) == 0 || string(raw.Answers) == "null" {
		return nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw.Answers, &keyed); err != nil {
		return fmt.Errorf("decoding answers: %w", err)
	}

	if isLegacyAnswers(keyed) {
		for key, value := range keyed {
			n, _ := strconv.Atoi(key)
			var it Item
			if err := json.Unmarshal(value, &it); err != nil {
				return fmt.Errorf("decoding legacy answer %s: %w", key, err)
			}
			s.SetAnswer(KindProblem, n, it.Markup)
		}
		return nil
	}

	var overlay Overlay
	if err := json.Unmarshal(raw.Answers, &overlay); err != nil {
		return fmt.Errorf("decoding answers: %w", err)
	}
	for kind, entries := range overlay {
		for n, markup := range entries {
			s.SetAnswer(kind, n, markup)
		}
		if len(entries) == 0 {
			s.Answers[kind] = map[int]string{}
		}
	}
	return nil
}

// isLegacyAnswers reports whether every key of the answers member is a
// number, which only the older item-valued shape produces.
func isLegacyAnswers(keyed map[string]json.RawMessage) bool {
	if len(keyed) == 0 {
		return false
	}
	for key := range keyed {
		if _, err := strconv.Atoi(key); err != nil {
			return false
		}
	}
	return true
}

// Model maps section label to Section. It is the unit of persistence.
type Model map[string]*Section

// Section returns the section for label, creating it on first use.
func (m Model) Section(label string) *Section {
	sec, ok := m[label]
	if !ok {
		sec = NewSection()
		m[label] = sec
	}
	return sec
}

// Lookup returns the section for label without creating it.
func (m Model) Lookup(label string) (*Section, bool) {
	sec, ok := m[label]
	return sec, ok
}

// MergeAnswers copies every overlay entry of other into the sections of m
// that already exist. Sections only present in other are ignored.
func (m Model) MergeAnswers(other Model) int {
	merged := 0
	for label, src := range other {
		dst, ok := m[label]
		if !ok {
			continue
		}
		for kind, entries := range src.Answers {
			for n, markup := range entries {
				dst.SetAnswer(kind, n, markup)
				merged++
			}
		}
	}
	return merged
}
