package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString removes potentially dangerous characters
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if len(input) > 1000 {
		input = input[:1000]
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeDisplayName prepares a user-supplied name for embedding in
// HTML-mode messages sent to other chats.
func SanitizeDisplayName(input string) string {
	name := SanitizeHTML(SanitizeString(input))
	if len(name) > 100 {
		name = name[:100]
	}
	return strings.TrimSpace(name)
}
