// Package textnorm canonicalizes text extracted from PDF documents before any
// field matching takes place.
package textnorm

import "strings"

// dashReplacer maps lookalike dashes to an ASCII hyphen-minus.
var dashReplacer = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
)

// Normalize collapses every run of whitespace (newlines and non-breaking
// spaces included) into a single space, trims both ends and replaces
// lookalike dashes with '-'. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(CanonicalDashes(s)), " ")
}

// CanonicalDashes replaces lookalike dashes with '-' and leaves everything
// else, line breaks included, untouched.
func CanonicalDashes(s string) string {
	return dashReplacer.Replace(s)
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
