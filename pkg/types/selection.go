// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Selection names the items to include in a generated document, in the
// order they are emitted. It decodes from a YAML mapping of section label
// to folder kind to a list of numbers:
//
//	"1.5":
//	  problem: [3, 5, 7]
//	  example: [1, 2]
//
// Document order is kept because reference deduplication runs in emission
// order.
type Selection []SectionSelection

// SectionSelection lists the chosen folders of one section.
type SectionSelection struct {
	Section string            `json:"section" yaml:"section"`
	Folders []FolderSelection `json:"folders" yaml:"folders"`
}

// FolderSelection lists the chosen numbers of one folder.
type FolderSelection struct {
	Kind    FolderKind `json:"kind" yaml:"kind"`
	Numbers []int      `json:"numbers" yaml:"numbers"`
}

// Triple identifies one selected item.
type Triple struct {
	Section string
	Kind    FolderKind
	Number  int
}

// Triples flattens the selection into ordered (section, kind, number) triples.
func (s Selection) Triples() []Triple {
	var out []Triple
	for _, sec := range s {
		for _, f := range sec.Folders {
			for _, n := range f.Numbers {
				out = append(out, Triple{Section: sec.Section, Kind: f.Kind, Number: n})
			}
		}
	}
	return out
}

// Sections returns the selected section labels in order.
func (s Selection) Sections() []string {
	labels := make([]string, 0, len(s))
	for _, sec := range s {
		labels = append(labels, sec.Section)
	}
	return labels
}

// Add appends number to the (section, kind) entry, creating it as needed.
func (s *Selection) Add(section string, kind FolderKind, number int) {
	for i := range *s {
		sec := &(*s)[i]
		if sec.Section != section {
			continue
		}
		for j := range sec.Folders {
			if sec.Folders[j].Kind == kind {
				sec.Folders[j].Numbers = append(sec.Folders[j].Numbers, number)
				return
			}
		}
		sec.Folders = append(sec.Folders, FolderSelection{Kind: kind, Numbers: []int{number}})
		return
	}
	*s = append(*s, SectionSelection{
		Section: section,
		Folders: []FolderSelection{{Kind: kind, Numbers: []int{number}}},
	})
}

// UnmarshalYAML decodes the section -> kind -> numbers mapping, keeping
// the order of keys as written.
func (s *Selection) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: selection must be a mapping of section to folders", node.Line)
	}

	var out Selection
	for i := 0; i+1 < len(node.Content); i += 2 {
		label, body := node.Content[i].Value, node.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: section %q must map folder kinds to numbers", body.Line, label)
		}

		sec := SectionSelection{Section: label}
		for j := 0; j+1 < len(body.Content); j += 2 {
			kind, err := ParseFolderKind(body.Content[j].Value)
			if err != nil {
				return fmt.Errorf("line %d: %w", body.Content[j].Line, err)
			}
			var numbers []int
			if err := body.Content[j+1].Decode(&numbers); err != nil {
				return fmt.Errorf("line %d: numbers for %s/%s: %w", body.Content[j+1].Line, label, kind, err)
			}
			sec.Folders = append(sec.Folders, FolderSelection{Kind: kind, Numbers: numbers})
		}
		out = append(out, sec)
	}

	*s = out
	return nil
}

// MarshalYAML writes the selection back as an ordered mapping.
func (s Selection) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, sec := range s {
		body := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range sec.Folders {
			numbers := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
			for _, n := range f.Numbers {
				numbers.Content = append(numbers.Content, &yaml.Node{
					Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(n),
				})
			}
			body.Content = append(body.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: string(f.Kind)},
				numbers,
			)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: sec.Section},
			body,
		)
	}
	return root, nil
}
