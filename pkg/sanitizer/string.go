package sanitizer

import "strings"

// Trim removes leading and trailing whitespace from a string.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// MaxLength truncates s to at most maxLen runes.
func MaxLength(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	return string(runes[:maxLen])
}

// LimitLength returns a transform that truncates to maxLen runes, for use
// with Compose and WithStringTransforms.
func LimitLength(maxLen int) func(string) string {
	return func(s string) string {
		return MaxLength(s, maxLen)
	}
}
