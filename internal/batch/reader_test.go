package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func writeBatchFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "phrases.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write batch file: %v", err)
	}
	return path
}

func TestReadBatchFile(t *testing.T) {
	path := writeBatchFile(t, "こんにちは\nありがとう = Thank you\n\n# a comment\nお元気ですか\n")

	entries, err := ReadBatchFile(path)
	if err != nil {
		t.Fatalf("ReadBatchFile failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	if entries[0].Phrase != "こんにちは" || entries[0].Translation != "" {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}

	if entries[1].Phrase != "ありがとう" || entries[1].Translation != "Thank you" {
		t.Errorf("Unexpected second entry: %+v", entries[1])
	}

	if entries[2].Phrase != "お元気ですか" {
		t.Errorf("Unexpected third entry: %+v", entries[2])
	}
}

func TestReadBatchFile_CRLF(t *testing.T) {
	path := writeBatchFile(t, "こんにちは\r\nありがとう = Thank you\r\n")

	entries, err := ReadBatchFile(path)
	if err != nil {
		t.Fatalf("ReadBatchFile failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Phrase != "こんにちは" {
		t.Errorf("CR not trimmed: %q", entries[0].Phrase)
	}
}

func TestReadBatchFile_EmptyPhrase(t *testing.T) {
	path := writeBatchFile(t, "= only translation\nこんにちは = Hello\n")

	entries, err := ReadBatchFile(path)
	if err != nil {
		t.Fatalf("ReadBatchFile failed: %v", err)
	}

	// The phraseless line is skipped
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
}

func TestReadBatchFile_Missing(t *testing.T) {
	if _, err := ReadBatchFile("/nonexistent/phrases.txt"); err == nil {
		t.Error("Expected error for missing file")
	}
}
