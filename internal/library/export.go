// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/prompt-importer/internal/promptmd"
	"github.com/pdiddy/prompt-importer/pkg/types"
)

const exportLimit = 100000

// Export writes the prompts matching opts to path in the extractor's
// record format, so an export can be ingested again.
func (s *Store) Export(ctx context.Context, opts QueryOptions, path string, format types.OutputFormat) (int, error) {
	opts.MaxResults = exportLimit
	entries, err := s.Retrieve(ctx, opts)
	if err != nil {
		return 0, fmt.Errorf("querying for export: %w", err)
	}

	prompts := make([]types.Prompt, len(entries))
	for i, e := range entries {
		prompts[i] = e.Prompt
	}

	data, err := promptmd.Marshal(prompts, format)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(prompts), nil
}

// ExportJSON writes the matching prompts as a JSON array.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions, path string) (int, error) {
	return s.Export(ctx, opts, path, types.FormatJSON)
}

// ExportYAML writes the matching prompts as YAML.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions, path string) (int, error) {
	return s.Export(ctx, opts, path, types.FormatYAML)
}
