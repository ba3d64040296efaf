// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prompt-importer/internal/library"
	"github.com/pdiddy/prompt-importer/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Load converted prompts into a SQLite library and query it",
	Long: `Library keeps converted prompts in a SQLite database (prompts.db under
--library-dir). Ingest upserts records by title, query filters by tag and
full text, and export writes the selected records back out as JSON or YAML.`,
}

var libraryIngestCmd = &cobra.Command{
	Use:   "ingest <records.json>...",
	Short: "Add or update prompts from converted record files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		w := cmd.OutOrStdout()
		for _, path := range args {
			if _, err := store.IngestFile(cmd.Context(), path, w); err != nil {
				return err
			}
		}

		n, err := store.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Library %s holds %d prompts\n", store.Path(), n)
		return nil
	},
}

var libraryQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List prompts matching a text query and tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		opts, err := queryOptions(cmd)
		if err != nil {
			return err
		}
		entries, err := store.Retrieve(cmd.Context(), opts)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			if entries == nil {
				entries = []library.Entry{}
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "    ")
			enc.SetEscapeHTML(false)
			return enc.Encode(entries)
		}

		for _, e := range entries {
			fmt.Fprintf(w, "%s [%s]\n", e.Title, strings.Join(e.Tags, ", "))
		}
		fmt.Fprintf(w, "\n%d prompts\n", len(entries))
		return nil
	},
}

// defaultExportPath is where "library export" writes when no path is given.
var defaultExportPath = filepath.Join("exports", "prompts.json")

var libraryExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write matching prompts to a JSON or YAML file",
	Long: `Export writes the prompts matching --query and --tag to path, or to
exports/prompts.json when no path is given. A .yaml or .yml extension
selects YAML; anything else is written as JSON in the same layout convert
produces.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		opts, err := queryOptions(cmd)
		if err != nil {
			return err
		}

		path := defaultExportPath
		if len(args) > 0 {
			path = args[0]
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}

		export := store.ExportJSON
		if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
			export = store.ExportYAML
		}

		n, err := export(cmd.Context(), opts, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d prompts to %s\n", n, path)
		return nil
	},
}

func init() {
	libraryCmd.PersistentFlags().String("library-dir", "library", "directory holding prompts.db")
	libraryCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")
	viper.BindPFlag("library.dir", libraryCmd.PersistentFlags().Lookup("library-dir"))
	viper.BindPFlag("library.max_results", libraryCmd.PersistentFlags().Lookup("max-results"))

	for _, cmd := range []*cobra.Command{libraryQueryCmd, libraryExportCmd} {
		cmd.Flags().String("query", "", "full-text search query")
		cmd.Flags().StringArray("tag", nil, "filter by tag (repeatable, all must match)")
	}
	libraryQueryCmd.Flags().Bool("json", false, "output results as JSON")

	libraryCmd.AddCommand(libraryIngestCmd, libraryQueryCmd, libraryExportCmd)
	rootCmd.AddCommand(libraryCmd)
}

func openStore() (*library.Store, error) {
	return library.NewStore(types.LibraryConfig{
		Dir:        viper.GetString("library.dir"),
		MaxResults: viper.GetInt("library.max_results"),
	})
}

func queryOptions(cmd *cobra.Command) (library.QueryOptions, error) {
	query, err := cmd.Flags().GetString("query")
	if err != nil {
		return library.QueryOptions{}, err
	}
	tags, err := cmd.Flags().GetStringArray("tag")
	if err != nil {
		return library.QueryOptions{}, err
	}
	return library.QueryOptions{Query: query, Tags: tags}, nil
}
