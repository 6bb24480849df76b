// Package text provides utilities for text processing and analysis.
// This package includes reusable functions for character counting and truncation
// shared by the inference client and the word-cloud tokenizer.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters (CJK, accented letters, emoji) count as one.
//
// Examples:
//
//	CountRunes("hello")      // returns 5
//	CountRunes("こんにちは")   // returns 5
//	CountRunes("hello世界")   // returns 7
//	CountRunes("")           // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// TruncateRunes cuts text to at most n runes and reports whether it was cut.
func TruncateRunes(text string, n int) (string, bool) {
	r := []rune(text)
	if n < 0 || len(r) <= n {
		return text, false
	}
	return string(r[:n]), true
}
