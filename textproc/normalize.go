package textproc

import (
	"strings"
	"unicode"
)

// Normalize cleans a free-text answer for storage and embedding: runes
// outside letters, digits, underscore, whitespace, and common punctuation
// are removed, then whitespace runs are collapsed to single spaces and the
// result is trimmed. Removal happens before collapsing so a deleted rune
// never leaves a double space behind.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isAllowedRune(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func isAllowedRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
		return true
	}
	return strings.ContainsRune(".,!?;:-()«»“”", r)
}
