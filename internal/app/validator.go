package app

import "strings"

// IsCorrect grades a submitted answer against the canonical one. Answers
// are authored as "<short form>. <elaboration>"; only the short form
// before the first dot is graded, with a caseless-fold exact comparison.
// No trimming, no fuzzy matching.
func IsCorrect(submitted, canonical string) bool {
	short, _, _ := strings.Cut(canonical, ".")
	return strings.EqualFold(submitted, short)
}
