// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package promptmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prompt-importer/pkg/types"
)

// ErrInvalidEncoding is returned by Convert when the input is not valid
// UTF-8. No output file is written in that case.
var ErrInvalidEncoding = errors.New("input is not valid UTF-8")

// ErrInputNotFound is returned by Convert when the input document does not
// exist. No output file is written in that case.
var ErrInputNotFound = errors.New("input file not found")

// Result summarizes a conversion run.
type Result struct {
	InputPath  string
	OutputPath string
	Prompts    []types.Prompt
}

// Count returns the number of converted prompts.
func (r Result) Count() int {
	return len(r.Prompts)
}

// Convert reads cfg.InputPath, extracts every prompt block, and writes the
// records to cfg.OutputPath, replacing any existing file. Status lines go
// to w. A missing input is reported to w and returned as ErrInputNotFound.
func Convert(cfg types.ImportConfig, w io.Writer) (Result, error) {
	result := Result{InputPath: cfg.InputPath, OutputPath: cfg.OutputPath}

	if _, err := os.Stat(cfg.InputPath); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "Error: Input file '%s' not found.\n", cfg.InputPath)
		return result, fmt.Errorf("%w: %s", ErrInputNotFound, cfg.InputPath)
	}

	data, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return result, fmt.Errorf("reading %s: %w", cfg.InputPath, err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return result, fmt.Errorf("reading %s: %w", cfg.InputPath, err)
	}

	result.Prompts = Extract(doc, cfg.Rules())

	out, err := Marshal(result.Prompts, cfg.Format)
	if err != nil {
		return result, err
	}
	if err := os.WriteFile(cfg.OutputPath, out, 0o644); err != nil {
		return result, fmt.Errorf("writing %s: %w", cfg.OutputPath, err)
	}

	fmt.Fprintf(w, "Successfully converted %d prompts to %s\n", result.Count(), cfg.OutputPath)
	return result, nil
}

// decodeDocument checks that data is UTF-8 and turns CRLF and lone CR line
// endings into LF.
func decodeDocument(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}
	doc := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.ReplaceAll(doc, "\r", "\n"), nil
}

// ConvertFile runs Convert with JSON output and the default tag rules.
func ConvertFile(inputPath, outputPath string, w io.Writer) (Result, error) {
	return Convert(types.ImportConfig{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Format:     types.FormatJSON,
	}, w)
}

// Marshal serializes prompts in the given format. An empty format means
// JSON. JSON output is a 4-space indented array with no trailing newline
// and HTML characters left unescaped.
func Marshal(prompts []types.Prompt, format types.OutputFormat) ([]byte, error) {
	if prompts == nil {
		prompts = []types.Prompt{}
	}
	switch format {
	case "", types.FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(prompts); err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
	case types.FormatYAML:
		data, err := yaml.Marshal(prompts)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

// Unmarshal decodes records written by Marshal.
func Unmarshal(data []byte, format types.OutputFormat) ([]types.Prompt, error) {
	var prompts []types.Prompt
	switch format {
	case "", types.FormatJSON:
		if err := json.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	case types.FormatYAML:
		if err := yaml.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown input format %q (want json or yaml)", format)
	}
	return prompts, nil
}
