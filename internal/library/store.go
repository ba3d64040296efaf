// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library keeps imported prompts in a SQLite database so they can
// be searched by tag or text and exported again.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/prompt-importer/internal/promptmd"
	"github.com/pdiddy/prompt-importer/pkg/types"
)

const (
	dbFile            = "prompts.db"
	defaultMaxResults = 20
)

// Store manages the prompt library database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	// fts is false when the SQLite build lacks FTS5; text queries then use LIKE.
	fts bool
}

// NewStore opens or creates cfg.Dir/prompts.db and its schema.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
	}

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

// Path returns the database file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, dbFile)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS prompts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL,
			tags TEXT NOT NULL,
			source TEXT,
			imported_at TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='prompts_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE prompts_fts USING fts5(title, content, content=prompts, content_rowid=rowid)`,
		`CREATE TRIGGER prompts_ai AFTER INSERT ON prompts BEGIN
			INSERT INTO prompts_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
		END`,
		`CREATE TRIGGER prompts_ad AFTER DELETE ON prompts BEGIN
			INSERT INTO prompts_fts(prompts_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
		END`,
		`CREATE TRIGGER prompts_au AFTER UPDATE ON prompts BEGIN
			INSERT INTO prompts_fts(prompts_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
			INSERT INTO prompts_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
		END`,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning FTS setup: %w", err)
	}
	for _, stmt := range ftsStatements {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			if strings.Contains(err.Error(), "no such module") {
				return nil
			}
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("creating FTS infrastructure: %w", err)
	}
	s.fts = true
	return nil
}

// IngestSummary holds counts from one ingest run.
type IngestSummary struct {
	Added     int
	Updated   int
	Unchanged int
}

// Total returns the number of records processed.
func (s IngestSummary) Total() int {
	return s.Added + s.Updated + s.Unchanged
}

// Ingest upserts prompts by title in a single transaction. A prompt whose
// content and tags match the stored row is left alone and counted as
// unchanged.
func (s *Store) Ingest(ctx context.Context, prompts []types.Prompt, source string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	for _, p := range prompts {
		tagsJSON, err := json.Marshal(p.Tags)
		if err != nil {
			return summary, fmt.Errorf("encoding tags for %q: %w", p.Title, err)
		}

		var storedContent, storedTags string
		err = tx.QueryRowContext(ctx,
			`SELECT content, tags FROM prompts WHERE title = ?`, p.Title,
		).Scan(&storedContent, &storedTags)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO prompts (title, content, tags, source, imported_at) VALUES (?, ?, ?, ?, ?)`,
				p.Title, p.Content, string(tagsJSON), source, now,
			); err != nil {
				return summary, fmt.Errorf("inserting %q: %w", p.Title, err)
			}
			fmt.Fprintf(w, "added     %s\n", p.Title)
			summary.Added++
		case err != nil:
			return summary, fmt.Errorf("looking up %q: %w", p.Title, err)
		case storedContent == p.Content && sameTags(storedTags, p.Tags):
			fmt.Fprintf(w, "unchanged %s\n", p.Title)
			summary.Unchanged++
		default:
			if _, err := tx.ExecContext(ctx,
				`UPDATE prompts SET content = ?, tags = ?, source = ?, imported_at = ? WHERE title = ?`,
				p.Content, string(tagsJSON), source, now, p.Title,
			); err != nil {
				return summary, fmt.Errorf("updating %q: %w", p.Title, err)
			}
			fmt.Fprintf(w, "updated   %s\n", p.Title)
			summary.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}

	fmt.Fprintf(w, "\nadded: %d, updated: %d, unchanged: %d\n",
		summary.Added, summary.Updated, summary.Unchanged)
	return summary, nil
}

// IngestFile reads a records file written by the extractor and ingests it.
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
func (s *Store) IngestFile(ctx context.Context, path string, w io.Writer) (IngestSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading %s: %w", path, err)
	}

	prompts, err := promptmd.Unmarshal(data, formatFor(path))
	if err != nil {
		return IngestSummary{}, fmt.Errorf("%s: %w", path, err)
	}
	return s.Ingest(ctx, prompts, filepath.Base(path), w)
}

func formatFor(path string) types.OutputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return types.FormatYAML
	default:
		return types.FormatJSON
	}
}

func sameTags(storedJSON string, tags []string) bool {
	var stored []string
	if err := json.Unmarshal([]byte(storedJSON), &stored); err != nil {
		return false
	}
	return slices.Equal(stored, tags)
}
