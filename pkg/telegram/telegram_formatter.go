package telegram

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength keeps messages under Telegram's 4096 character limit.
const MaxMessageLength = 4090

// SplitMessage splits text into parts of at most maxLen runes, breaking on
// line boundaries where possible.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			parts = append(parts, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		lineLen := utf8.RuneCountInString(line)
		if currentLen+lineLen > maxLen {
			flush()
		}
		// A single line longer than the limit is hard-wrapped.
		for lineLen > maxLen {
			runes := []rune(line)
			parts = append(parts, string(runes[:maxLen]))
			line = string(runes[maxLen:])
			lineLen -= maxLen
		}
		current.WriteString(line)
		currentLen += lineLen
	}
	flush()
	return parts
}
