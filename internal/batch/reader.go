// Package batch reads phrase lists for bulk processing.
package batch

import (
	"fmt"
	"os"
	"strings"
)

// PhraseEntry represents a phrase with optional inline translation
type PhraseEntry struct {
	Phrase      string
	Translation string
}

// ReadBatchFile reads phrases from a file and returns PhraseEntry slice.
// Supported formats, one entry per line:
//   - Phrase only: "こんにちは" (will be translated via the LLM)
//   - With translation: "こんにちは = Hello" (no LLM call needed)
//
// Blank lines and lines starting with '#' are skipped.
func ReadBatchFile(filename string) ([]PhraseEntry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []PhraseEntry

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			phrase := strings.TrimSpace(parts[0])
			translation := strings.TrimSpace(parts[1])

			// A line without a phrase has nothing to make a card from
			if phrase == "" {
				continue
			}

			entries = append(entries, PhraseEntry{
				Phrase:      phrase,
				Translation: translation,
			})
		} else {
			entries = append(entries, PhraseEntry{Phrase: line})
		}
	}

	return entries, nil
}
