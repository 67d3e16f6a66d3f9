// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"

	"github.com/pdiddy/problemset/internal/persist"
	"github.com/pdiddy/problemset/pkg/types"
)

// SelectionFrom builds a selection naming every result, in result order.
// References are shared instructions, not items, and are left out.
func SelectionFrom(results []Result) types.Selection {
	var sel types.Selection
	seen := map[types.Triple]bool{}
	for _, r := range results {
		if r.Kind == types.KindReference {
			continue
		}
		t := types.Triple{Section: r.Section, Kind: r.Kind, Number: r.Number}
		if seen[t] {
			continue
		}
		seen[t] = true
		sel.Add(r.Section, r.Kind, r.Number)
	}
	return sel
}

// ExportSelection runs a search and writes its hits to path as a YAML
// selection file ready for generation.
func (s *Store) ExportSelection(ctx context.Context, opts QueryOptions, path string) (types.Selection, error) {
	results, err := s.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	sel := SelectionFrom(results)
	if err := persist.SaveSelection(path, sel); err != nil {
		return nil, err
	}
	return sel, nil
}
