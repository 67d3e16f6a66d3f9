// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog indexes a content model in SQLite so items can be found
// by text and turned into a selection.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/problemset/internal/convert"
	"github.com/pdiddy/problemset/pkg/types"
)

const defaultMaxResults = 20

// indexedKinds are the folders stored in the catalog. Answers are recorded
// as a flag on the item they belong to.
var indexedKinds = []types.FolderKind{types.KindProblem, types.KindExample, types.KindReference}

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int

	// fts is false when the SQLite build lacks FTS5; search then falls back
	// to substring matching.
	fts bool
}

// NewStore opens or creates the catalog database at cfg.DBPath and creates
// the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// FullText reports whether searches use the FTS5 index.
func (s *Store) FullText() bool {
	return s.fts
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sections (
			label TEXT PRIMARY KEY,
			indexed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			section TEXT NOT NULL REFERENCES sections(label),
			kind TEXT NOT NULL,
			number INTEGER NOT NULL,
			reference_id INTEGER,
			has_answer INTEGER NOT NULL DEFAULT 0,
			content TEXT NOT NULL,
			UNIQUE(section, kind, number)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_section ON items(section)`,
		`CREATE INDEX IF NOT EXISTS idx_items_kind ON items(kind)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='items_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	if _, err := s.db.Exec(
		`CREATE VIRTUAL TABLE items_fts USING fts5(content, content=items, content_rowid=rowid)`,
	); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}

	triggers := []string{
		`CREATE TRIGGER items_ai AFTER INSERT ON items BEGIN
			INSERT INTO items_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TRIGGER items_ad AFTER DELETE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, content) VALUES('delete', old.rowid, old.content);
		END`,
		`CREATE TRIGGER items_au AFTER UPDATE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			INSERT INTO items_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// IndexSummary holds counts from one indexing run.
type IndexSummary struct {
	Sections int
	Items    int
	Failed   int
}

// Index replaces the catalog rows of every section in model. Each section
// is written in its own transaction; a section that fails is reported to w
// and counted, and the run continues.
func (s *Store) Index(ctx context.Context, model types.Model, w io.Writer) (IndexSummary, error) {
	var summary IndexSummary

	for _, label := range slices.Sorted(maps.Keys(model)) {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		n, err := s.indexSection(ctx, label, model[label])
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", label, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "indexed %s (%d items)\n", label, n)
		summary.Sections++
		summary.Items += n
	}

	fmt.Fprintf(w, "\nsections: %d, items: %d, failed: %d\n", summary.Sections, summary.Items, summary.Failed)
	return summary, nil
}

func (s *Store) indexSection(ctx context.Context, label string, sec *types.Section) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE section = ?`, label); err != nil {
		return 0, fmt.Errorf("deleting old items: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sections (label, indexed_at) VALUES (?, ?)
		 ON CONFLICT(label) DO UPDATE SET indexed_at=excluded.indexed_at`,
		label, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return 0, fmt.Errorf("upserting section: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (section, kind, number, reference_id, has_answer, content)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, kind := range indexedKinds {
		folder := folderOf(sec, kind)
		for _, number := range slices.Sorted(maps.Keys(folder)) {
			item := folder[number]
			text, err := convert.PlainText(item.Markup)
			if err != nil {
				return 0, fmt.Errorf("reading %s %d: %w", kind, number, err)
			}

			var ref sql.NullInt64
			if item.HasReference() {
				ref = sql.NullInt64{Int64: int64(*item.ReferenceID), Valid: true}
			}
			_, hasAnswer := sec.Answer(kind, number)

			if _, err := stmt.ExecContext(ctx, label, string(kind), number, ref, hasAnswer, text); err != nil {
				return 0, fmt.Errorf("inserting %s %d: %w", kind, number, err)
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing section: %w", err)
	}
	return count, nil
}

func folderOf(sec *types.Section, kind types.FolderKind) types.Folder {
	switch kind {
	case types.KindProblem:
		return sec.Problems
	case types.KindExample:
		return sec.Examples
	case types.KindReference:
		return sec.References
	}
	return nil
}
