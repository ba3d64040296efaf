package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts prompts_to_import.md into
// prompts_import.json, creating the sample document on first run.
func Convert() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "convert")
}

// Import converts the default document and loads the records into the
// prompt library under library/.
func Import() error {
	mg.SerialDeps(Init, Convert)
	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "library", "ingest", "prompts_import.json"); err != nil {
		return fmt.Errorf("ingesting prompts: %w", err)
	}
	return nil
}
