// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the prompt-importer CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prompt-importer/internal/promptmd"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts by default, so a bare invocation behaves like
// "prompt-importer convert".
var rootCmd = &cobra.Command{
	Use:   "prompt-importer [input] [output]",
	Short: "Extract prompt records from a markdown document",
	Long: `prompt-importer reads a markdown document made of collapsible <details>
blocks and writes one record per block (title, content, tags) as a JSON array.

With no arguments it reads prompts_to_import.md, creating a sample document
if it does not exist yet, and writes prompts_import.json. The library
subcommands load the records into a local SQLite prompt library.

If the input file does not exist, no output is written and the command
exits with status 1 after printing the error.`,
	Args:          cobra.MaximumNArgs(2),
	RunE:          runConvert,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./prompt-importer.yaml or ~/.config/prompt-importer/config.yaml)")
	addConvertFlags(rootCmd)

	viper.SetDefault("input", promptmd.DefaultInput)
	viper.SetDefault("output", promptmd.DefaultOutput)
	viper.SetDefault("format", "json")
	viper.SetDefault("library.dir", "library")
	viper.SetDefault("library.max_results", 20)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("prompt-importer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "prompt-importer"))
		}
	}

	viper.SetEnvPrefix("PROMPT_IMPORTER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Convert has already reported a missing input.
		if !errors.Is(err, promptmd.ErrInputNotFound) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
