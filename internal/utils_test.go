package internal

import "testing"

func TestAudioFileName(t *testing.T) {
	tests := []struct {
		phrase   string
		expected string
	}{
		{"こんにちは", "こんにちは.mp3"},
		{"  お元気ですか  ", "お元気ですか.mp3"},
		{"今日は暑いですね", "今日は暑いですね.mp3"},
		{"a/b", "a_b.mp3"},
	}

	for _, tt := range tests {
		if got := AudioFileName(tt.phrase); got != tt.expected {
			t.Errorf("AudioFileName(%q) = %q, want %q", tt.phrase, got, tt.expected)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := SanitizeFilename(`a:b*c?"d"`); got != "a_b_c___d_" {
		t.Errorf("Expected 'a_b_c___d_', got '%s'", got)
	}

	// Japanese text must pass through unchanged
	if got := SanitizeFilename("犬も歩けば棒に当たる"); got != "犬も歩けば棒に当たる" {
		t.Errorf("Japanese text was altered: %s", got)
	}
}
