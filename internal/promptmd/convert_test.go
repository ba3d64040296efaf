// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package promptmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prompt-importer/pkg/types"
)

const ethereumParagraph = "Imagine you are an experienced Ethereum developer tasked with creating a smart contract for a blockchain messenger. " +
	"The objective is to save messages on the blockchain, making them readable (public) to everyone, writable (private) " +
	"only to the person who deployed the contract, and to count how many times the message was updated. " +
	"Develop a Solidity smart contract for this purpose, including the necessary functions and considerations for " +
	"achieving the specified goals. Please provide the code and any relevant explanations to ensure a clear " +
	"understanding of the implementation."

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "prompts.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertFile_Sample(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, SampleDocument)
	out := filepath.Join(dir, "prompts.json")

	var log bytes.Buffer
	result, err := ConvertFile(in, out, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count())
	assert.Equal(t, "Successfully converted 1 prompts to "+out+"\n", log.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var got []types.Prompt
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []types.Prompt{{
		Title:   "Ethereum Developer",
		Content: ethereumParagraph,
		Tags:    []string{"imported", "coding"},
	}}, got)
}

func TestConvertFile_JSONLayout(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, block("Linux <Shell> & more", "```md\nls -la\n```"))
	out := filepath.Join(dir, "prompts.json")

	_, err := ConvertFile(in, out, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	want := `[
    {
        "title": "Linux <Shell> & more",
        "content": "ls -la",
        "tags": [
            "imported",
            "technical"
        ]
    }
]`
	assert.Equal(t, want, string(data))
}

func TestConvertFile_EmptyDocument(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "# nothing to import\n")
	out := filepath.Join(dir, "prompts.json")

	var log bytes.Buffer
	result, err := ConvertFile(in, out, &log)
	require.NoError(t, err)
	assert.Zero(t, result.Count())
	assert.Contains(t, log.String(), "Successfully converted 0 prompts")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestConvertFile_OverwritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, block("A", "a")+block("B", "b"))
	out := filepath.Join(dir, "prompts.json")
	require.NoError(t, os.WriteFile(out, []byte("stale content that is longer than the new output will be, surely, yes indeed"), 0o644))

	_, err := ConvertFile(in, out, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got []types.Prompt
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "B", got[1].Title)
}

func TestConvertFile_MissingInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "missing.md")
	out := filepath.Join(dir, "prompts.json")

	var log bytes.Buffer
	_, err := ConvertFile(in, out, &log)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputNotFound))
	assert.Equal(t, "Error: Input file '"+in+"' not found.\n", log.String())

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output file should be written")
}

func TestConvertFile_UnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, block("A", "a"))
	out := filepath.Join(dir, "no-such-dir", "prompts.json")

	_, err := ConvertFile(in, out, &bytes.Buffer{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInputNotFound))
	assert.Contains(t, err.Error(), "writing")
}

func TestConvertFile_LineEndings(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "CRLF",
			doc:  "<details>\r\n<summary><strong>Linux Terminal</strong></summary>\r\n\r\n```md\r\nline one\r\nline two\r\n```\r\n\r\n</details>\r\n",
		},
		{
			name: "lone CR",
			doc:  "<details>\r<summary><strong>Linux Terminal</strong></summary>\r\r```md\rline one\rline two\r```\r\r</details>\r",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := writeInput(t, dir, tt.doc)
			out := filepath.Join(dir, "prompts.json")

			result, err := ConvertFile(in, out, &bytes.Buffer{})
			require.NoError(t, err)
			require.Len(t, result.Prompts, 1)
			assert.Equal(t, "line one\nline two", result.Prompts[0].Content)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.NotContains(t, string(data), `\r`)
		})
	}
}

func TestConvertFile_FallbackCRLF(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "<details>\r\n<summary><strong>Poet</strong></summary>\r\n## Poet\r\nContributed by [a](b)\r\nWrite verse.\r\n</details>")
	out := filepath.Join(dir, "prompts.json")

	result, err := ConvertFile(in, out, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, result.Prompts, 1)
	assert.Equal(t, "Write verse.", result.Prompts[0].Content)
}

func TestConvertFile_InvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "<details><summary><strong>Bad \xff</strong></summary>x</details>")
	out := filepath.Join(dir, "prompts.json")

	var log bytes.Buffer
	_, err := ConvertFile(in, out, &log)
	require.ErrorIs(t, err, ErrInvalidEncoding)
	assert.Contains(t, err.Error(), in)
	assert.NotContains(t, log.String(), "Successfully")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output file should be written")
}

func TestConvertFile_NonASCIIWrittenAsUTF8(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, block("Café Développeur", "```md\nÉcris un poème 🚀\n```"))
	out := filepath.Join(dir, "prompts.json")

	_, err := ConvertFile(in, out, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Café Développeur"`)
	assert.Contains(t, string(data), `"content": "Écris un poème 🚀"`)
	assert.NotContains(t, string(data), `\u`)
}

func TestConvert_YAML(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, block("Ethereum Developer", "```md\nx\n```")+block("Poet", "y"))
	out := filepath.Join(dir, "prompts.yaml")

	_, err := Convert(types.ImportConfig{InputPath: in, OutputPath: out, Format: types.FormatYAML}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got []types.Prompt
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Ethereum Developer", got[0].Title)
	assert.Equal(t, []string{"imported", "coding"}, got[0].Tags)
	assert.Equal(t, "Poet", got[1].Title)
}

func TestConvert_CustomRules(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, block("SQL Tutor", "z"))
	out := filepath.Join(dir, "prompts.json")

	result, err := Convert(types.ImportConfig{
		InputPath:  in,
		OutputPath: out,
		TagRules:   []types.TagRule{{Keyword: "SQL", Tag: "data"}},
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, result.Prompts, 1)
	assert.Equal(t, []string{"imported", "data"}, result.Prompts[0].Tags)
}

func TestMarshal_UnknownFormat(t *testing.T) {
	_, err := Marshal(nil, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestUnmarshal(t *testing.T) {
	prompts := []types.Prompt{{Title: "T", Content: "C", Tags: []string{"imported"}}}
	for _, f := range []types.OutputFormat{types.FormatJSON, types.FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Marshal(prompts, f)
			require.NoError(t, err)
			got, err := Unmarshal(data, f)
			require.NoError(t, err)
			assert.Equal(t, prompts, got)
		})
	}
}

func TestEnsureSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultInput)

	var log bytes.Buffer
	created, err := EnsureSample(path, &log)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Created sample input file: "+path+"\n", log.String())

	require.NoError(t, os.WriteFile(path, []byte("user content"), 0o644))
	created, err = EnsureSample(path, &log)
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "user content", string(data), "existing input must not be replaced")
}
