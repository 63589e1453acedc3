// internal/util/util.go
package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes shortens text to at most maxRunes runes, replacing the tail
// with an ellipsis when something was cut.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes-1]) + "…"
}

// Snippet returns the text a span covers, on a single line and truncated to
// maxRunes. Offsets are byte offsets; out-of-range offsets are clamped and
// offsets that split a multi-byte rune are widened to the rune boundary.
func Snippet(text string, start, end, maxRunes int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return ""
	}
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	covered := strings.Join(strings.Fields(text[start:end]), " ")
	return TruncateRunes(covered, maxRunes)
}
