package sanitizer

import (
	"strings"
	"unicode"
)

// htmlReplacer escapes the five characters that are special in HTML text and
// quoted attribute contexts. Single quotes use the numeric form so the output
// is valid in both HTML4 and HTML5 documents.
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#039;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML replaces &, ", ', < and > with HTML entities.
//
// Escaping is applied once per call and is not idempotent: existing entities
// are escaped again, so "&amp;" becomes "&amp;amp;". Invalid UTF-8 is
// replaced with U+FFFD first.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(strings.ToValidUTF8(s, "\uFFFD"))
}

// RemoveNullBytes removes NUL characters that truncate strings in C-backed
// consumers.
func RemoveNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

// RemoveControlChars drops control characters except newline, carriage
// return and tab.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}
