// Package sanitizer escapes and revalidates request data before it reaches
// application code.
//
// The central entry point is Deep, which walks a value.Value and applies a
// rule per kind:
//
//   - bool – returned unchanged.
//   - string – HTML-escaped with EscapeHTML (&, ", ', < and >).
//   - int, float – revalidated with ValidateInt and ValidateFloat. A value
//     that fails becomes value.Invalid, a falsy marker distinct from zero.
//   - list, map – copied with every element sanitized, keys and order kept.
//   - anything else – replaced by value.Null.
//
// A Sanitizer built with New can add string transforms that run before
// escaping and numeric ranges:
//
//	s := sanitizer.New(
//	    sanitizer.WithStringTransforms(sanitizer.RemoveNullBytes, sanitizer.Trim),
//	    sanitizer.WithIntRange(0, 1000),
//	)
//	clean := s.Deep(raw)
//
// Apply and Compose build string pipelines from the small helpers in this
// package (Trim, MaxLength, RemoveNullBytes, RemoveControlChars).
//
// # Error handling
//
// Nothing in this package returns an error or panics. Every failure degrades
// to a safe value: Invalid for numbers, Null for unknown kinds.
//
// Escaping is deliberately not idempotent. Escape once, at the point where
// data leaves the request sources.
package sanitizer
