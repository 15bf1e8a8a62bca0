package internal

import "strings"

// AudioFileName returns the audio file name for a phrase. Files are named
// after the phrase itself so they can be matched back to their card later.
func AudioFileName(phrase string) string {
	return SanitizeFilename(strings.TrimSpace(phrase)) + ".mp3"
}

// SanitizeFilename replaces characters that cannot appear in file names.
// Japanese script is left untouched, only path separators and other
// filesystem-hostile characters are rewritten.
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isHostileRune(r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isHostileRune(r rune) bool {
	switch r {
	case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
		return true
	}
	return r < 0x20
}
