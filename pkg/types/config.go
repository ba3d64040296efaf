// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutputFormat selects the serialization of the extracted records.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// ImportConfig holds settings for one extraction run.
type ImportConfig struct {
	// InputPath is the markdown document to read.
	InputPath string `json:"input" yaml:"input" mapstructure:"input"`

	// OutputPath is the file to create or overwrite.
	OutputPath string `json:"output" yaml:"output" mapstructure:"output"`

	// Format selects json (default) or yaml output.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// TagRules overrides DefaultTagRules when non-empty.
	TagRules []TagRule `json:"tag_rules,omitempty" yaml:"tag_rules,omitempty" mapstructure:"tag_rules"`
}

// Rules returns the configured tag rules, falling back to the defaults.
func (c ImportConfig) Rules() []TagRule {
	if len(c.TagRules) > 0 {
		return c.TagRules
	}
	return DefaultTagRules()
}

// LibraryConfig holds settings for the SQLite prompt library.
type LibraryConfig struct {
	// Dir is the directory that holds prompts.db.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}
