// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prompt-importer/internal/promptmd"
	"github.com/pdiddy/prompt-importer/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input] [output]",
	Short: "Convert a markdown prompt document to JSON",
	Long: `Convert extracts every <details> block from the input document. The
fenced md region of a block becomes its content; blocks without one keep
their body minus "## " headings and "Contributed by" lines. Every record is
tagged "imported", plus any tag whose keyword appears in the title.

A missing or non-UTF-8 input writes no output and exits with status 1.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConvert,
}

func init() {
	addConvertFlags(convertCmd)
	rootCmd.AddCommand(convertCmd)
}

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "json", "output format: json or yaml")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlag("format", cmd.Flags().Lookup("format")); err != nil {
		return err
	}

	cfg, err := importConfig(args)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if cfg.InputPath == promptmd.DefaultInput {
		if _, err := promptmd.EnsureSample(cfg.InputPath, w); err != nil {
			return err
		}
	}

	_, err = promptmd.Convert(cfg, w)
	return err
}

// importConfig merges configuration with the positional input and output paths.
func importConfig(args []string) (types.ImportConfig, error) {
	cfg := types.ImportConfig{
		InputPath:  viper.GetString("input"),
		OutputPath: viper.GetString("output"),
		Format:     types.OutputFormat(viper.GetString("format")),
	}
	if len(args) > 0 {
		cfg.InputPath = args[0]
	}
	if len(args) > 1 {
		cfg.OutputPath = args[1]
	}

	switch cfg.Format {
	case types.FormatJSON, types.FormatYAML:
	default:
		return cfg, fmt.Errorf("unknown format %q (want json or yaml)", cfg.Format)
	}

	if err := viper.UnmarshalKey("tag_rules", &cfg.TagRules); err != nil {
		return cfg, fmt.Errorf("reading tag_rules: %w", err)
	}
	return cfg, nil
}
