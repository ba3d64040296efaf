// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records and configuration shared by the
// extractor, the prompt library, and the CLI.
package types

// ImportedTag is the label every extracted prompt carries first.
const ImportedTag = "imported"

// Prompt is one record extracted from a <details> block. Field order is the
// key order of the JSON and YAML output and must not change.
type Prompt struct {
	// Title is the emphasized summary text, trimmed.
	Title string `json:"title" yaml:"title"`

	// Content is the fenced md region of the block, or the cleaned body
	// when the block has no such region.
	Content string `json:"content" yaml:"content"`

	// Tags starts with ImportedTag followed by the labels whose keyword
	// appears in Title.
	Tags []string `json:"tags" yaml:"tags"`
}

// TagRule appends Tag to a prompt whose title contains Keyword.
// Matching is a case-sensitive substring test.
type TagRule struct {
	Keyword string `json:"keyword" yaml:"keyword" mapstructure:"keyword"`
	Tag     string `json:"tag" yaml:"tag" mapstructure:"tag"`
}

// DefaultTagRules returns the built-in rules in evaluation order.
func DefaultTagRules() []TagRule {
	return []TagRule{
		{Keyword: "Developer", Tag: "coding"},
		{Keyword: "Linux", Tag: "technical"},
	}
}
