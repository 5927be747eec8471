// Package sanitize strips markup from user-provided free text before it is stored.
package sanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML element (script and style bodies included) and returns
// the remaining plain text, trimmed. Entities escaped by the policy are decoded
// again so length limits count what the user actually typed.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Len counts runes, not bytes.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}
