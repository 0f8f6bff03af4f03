package utils

import "strings"

// NormalizeAnswer prepares user input for answer comparison:
// surrounding whitespace trimmed, lowercased. Matching is exact
// after normalization, no fuzzy matching.
func NormalizeAnswer(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// NormalizeDigits strips the invisible characters mobile keyboards
// sneak into numeric prompts (non-breaking space, zero-width
// non-joiner and joiner).
func NormalizeDigits(input string) string {
	replacer := strings.NewReplacer(
		"\u00a0", "",
		"\u200c", "",
		"\u200d", "",
	)
	return strings.TrimSpace(replacer.Replace(input))
}
