// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/prompt-importer/pkg/types"
)

// QueryOptions holds parameters for library queries.
type QueryOptions struct {
	// Query is a full-text search string matched against title and content.
	Query string

	// Tags filters by one or more tags with AND semantics.
	Tags []string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Entry is a stored prompt with its import provenance.
type Entry struct {
	types.Prompt `yaml:",inline"`
	Source       string `json:"source" yaml:"source"`
	ImportedAt   string `json:"imported_at" yaml:"imported_at"`
}

// Retrieve queries the library. Full-text queries are ranked by relevance;
// filter-only queries are sorted by title. When SQLite lacks FTS5 a text
// query matches prompts containing every word as a substring, sorted by
// title.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Entry, error) {
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
			`SELECT p.title, p.content, p.tags, p.source, p.imported_at
			FROM prompts_fts
			JOIN prompts p ON p.rowid = prompts_fts.rowid
			WHERE prompts_fts MATCH ?`)
		args = append(args, opts.Query)
	case opts.Query != "":
		// Without FTS5 every query word must appear in title or content,
		// which mirrors the implicit AND of an FTS5 query.
		qb.WriteString(
			`SELECT p.title, p.content, p.tags, p.source, p.imported_at
			FROM prompts p
			WHERE 1=1`)
		for _, word := range strings.Fields(opts.Query) {
			like := "%" + word + "%"
			qb.WriteString(` AND (p.title LIKE ? OR p.content LIKE ?)`)
			args = append(args, like, like)
		}
	default:
		qb.WriteString(
			`SELECT p.title, p.content, p.tags, p.source, p.imported_at
			FROM prompts p
			WHERE 1=1`)
	}

	for _, tag := range opts.Tags {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(p.tags) WHERE value = ?)`)
		args = append(args, tag)
	}

	if useFTS {
		qb.WriteString(` ORDER BY prompts_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.title`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			tagsJSON string
			source   *string
			imported *string
		)
		if err := rows.Scan(&e.Title, &e.Content, &tagsJSON, &source, &imported); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags for %q: %w", e.Title, err)
		}
		if source != nil {
			e.Source = *source
		}
		if imported != nil {
			e.ImportedAt = *imported
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return entries, nil
}

// Count returns the number of prompts in the library.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM prompts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting prompts: %w", err)
	}
	return n, nil
}
