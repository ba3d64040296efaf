// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package promptmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

const (
	// DefaultInput is the document read when no input path is given.
	DefaultInput = "prompts_to_import.md"
	// DefaultOutput is the file written when no output path is given.
	DefaultOutput = "prompts_import.json"
)

// SampleDocument is written to DefaultInput when it is missing.
const SampleDocument = "\n<details>\n<summary><strong>Ethereum Developer</strong></summary>\n\n" +
	"## Ethereum Developer\n\n" +
	"Contributed by [@ameya-2003](https://github.com/ameya-2003)\n\n" +
	"```md\n" +
	"Imagine you are an experienced Ethereum developer tasked with creating a smart contract for a blockchain messenger. " +
	"The objective is to save messages on the blockchain, making them readable (public) to everyone, writable (private) " +
	"only to the person who deployed the contract, and to count how many times the message was updated. " +
	"Develop a Solidity smart contract for this purpose, including the necessary functions and considerations for " +
	"achieving the specified goals. Please provide the code and any relevant explanations to ensure a clear " +
	"understanding of the implementation.\n" +
	"```\n\n</details>\n"

// EnsureSample writes SampleDocument to path if nothing exists there and
// reports whether it did. Callers only use it for DefaultInput.
func EnsureSample(path string, w io.Writer) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(SampleDocument), 0o644); err != nil {
		return false, fmt.Errorf("writing sample %s: %w", path, err)
	}
	fmt.Fprintf(w, "Created sample input file: %s\n", path)
	return true, nil
}
