// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package promptmd extracts prompt records from markdown documents made of
// collapsible <details> blocks and writes them as JSON or YAML.
//
// A block looks like:
//
//	<details>
//	<summary><strong>Title</strong></summary>
//
//	## Title
//
//	Contributed by [@someone](https://github.com/someone)
//
//	```md
//	Prompt text.
//	```
//
//	</details>
//
// The fenced md region becomes the record content. Blocks without one fall
// back to the body with heading and attribution lines stripped.
package promptmd

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/prompt-importer/pkg/types"
)

// ws is the whitespace class used around the markers: ASCII whitespace
// including \v, the \x1c-\x1f separators, NEL, and every Unicode space.
const ws = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	// blockPattern captures (title, body) for each <details> block. The scan
	// spans lines and takes the shortest body, so adjacent blocks never merge.
	blockPattern = regexp.MustCompile(`(?s)<details>` + ws + `*<summary>` + ws + `*<strong>(.*?)</strong>` +
		ws + `*</summary>` + ws + `*(.*?)` + ws + `*</details>`)

	// fencePattern captures the inside of the first ```md fence in a body.
	fencePattern = regexp.MustCompile("(?s)```md" + ws + "*(.*?)" + ws + "*```")

	// headingPattern matches a "## heading" up to and including its newline.
	// Only the ## marker is recognized.
	headingPattern = regexp.MustCompile(`##` + ws + `+.*?\n`)

	// attributionPattern matches "Contributed by [name](url)".
	attributionPattern = regexp.MustCompile(`Contributed by` + ws + `+\[.*?\]\(.*?\)`)
)

// Block is one matched <details> region in document order.
type Block struct {
	Title string
	Body  string
}

// ParseBlocks returns every <details> block in doc, in order. Titles and
// bodies are returned as captured, without trimming.
func ParseBlocks(doc string) []Block {
	matches := blockPattern.FindAllStringSubmatch(doc, -1)
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{Title: m[1], Body: m[2]})
	}
	return blocks
}

// ExtractContent returns the prompt text of a block body. If the body holds
// a ```md fence, the trimmed fence contents are returned and nothing else.
// Otherwise the whole body is returned with ## headings and attribution
// links removed.
func ExtractContent(body string) string {
	if m := fencePattern.FindStringSubmatch(body); m != nil {
		return trimSpace(m[1])
	}
	clean := trimSpace(headingPattern.ReplaceAllLiteralString(body, ""))
	return trimSpace(attributionPattern.ReplaceAllLiteralString(clean, ""))
}

// InferTags returns ImportedTag followed by the tag of every rule whose
// keyword occurs in title, in rule order. A tag is appended at most once.
func InferTags(title string, rules []types.TagRule) []string {
	tags := []string{types.ImportedTag}
	for _, r := range rules {
		if r.Keyword == "" || !strings.Contains(title, r.Keyword) {
			continue
		}
		if contains(tags, r.Tag) {
			continue
		}
		tags = append(tags, r.Tag)
	}
	return tags
}

// Extract parses doc and returns one Prompt per block, in document order.
// The result is never nil.
func Extract(doc string, rules []types.TagRule) []types.Prompt {
	blocks := ParseBlocks(doc)
	prompts := make([]types.Prompt, 0, len(blocks))
	for _, b := range blocks {
		title := trimSpace(b.Title)
		prompts = append(prompts, types.Prompt{
			Title:   title,
			Content: ExtractContent(b.Body),
			Tags:    InferTags(title, rules),
		})
	}
	return prompts
}

// trimSpace strips the same characters as the ws class.
func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
