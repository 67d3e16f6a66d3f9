// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/problemset/pkg/types"
)

// QueryOptions holds parameters for catalog searches.
type QueryOptions struct {
	// Query is the full-text search string.
	Query string

	// Section restricts results to one section label.
	Section string

	// Kind restricts results to one folder kind.
	Kind types.FolderKind

	// AnsweredOnly keeps items that have an answer overlay entry.
	AnsweredOnly bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Result is one catalog hit.
type Result struct {
	Section     string           `json:"section" yaml:"section"`
	Kind        types.FolderKind `json:"kind" yaml:"kind"`
	Number      int              `json:"number" yaml:"number"`
	ReferenceID *int             `json:"reference_id,omitempty" yaml:"reference_id,omitempty"`
	HasAnswer   bool             `json:"has_answer" yaml:"has_answer"`
	Text        string           `json:"text" yaml:"text"`
}

// Label returns the printed label, section.number.
func (r Result) Label() string {
	return fmt.Sprintf("%s.%d", r.Section, r.Number)
}

// Search queries the catalog with optional full-text search and filters.
// Full-text results are ranked by relevance; filter-only results are
// ordered by section, kind and number.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != "" && s.fts
	)

	switch {
	case useFTS:
		qb.WriteString(
			`SELECT i.section, i.kind, i.number, i.reference_id, i.has_answer, i.content
			FROM items_fts
			JOIN items i ON i.rowid = items_fts.rowid
			WHERE items_fts MATCH ?`)
		args = append(args, opts.Query)
	case opts.Query != "":
		qb.WriteString(
			`SELECT i.section, i.kind, i.number, i.reference_id, i.has_answer, i.content
			FROM items i
			WHERE i.content LIKE ?`)
		args = append(args, "%"+opts.Query+"%")
	default:
		qb.WriteString(
			`SELECT i.section, i.kind, i.number, i.reference_id, i.has_answer, i.content
			FROM items i
			WHERE 1=1`)
	}

	if opts.Section != "" {
		qb.WriteString(` AND i.section = ?`)
		args = append(args, opts.Section)
	}
	if opts.Kind != "" {
		qb.WriteString(` AND i.kind = ?`)
		args = append(args, string(opts.Kind))
	}
	if opts.AnsweredOnly {
		qb.WriteString(` AND i.has_answer = 1`)
	}

	if useFTS {
		qb.WriteString(` ORDER BY items_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY i.section, i.kind, i.number`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r    Result
			kind string
			ref  sql.NullInt64
		)
		if err := rows.Scan(&r.Section, &kind, &r.Number, &ref, &r.HasAnswer, &r.Text); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Kind = types.FolderKind(kind)
		if ref.Valid {
			id := int(ref.Int64)
			r.ReferenceID = &id
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
