package game

import "strings"

// AnswersMatch compares a submitted answer against the authoritative
// one. Comparison is deterministic: trimmed, case-insensitive equality.
func AnswersMatch(submitted, authoritative string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(authoritative))
}

// Score computes the points earned for a submission. A correct answer
// earns basePoints plus a time bonus of half the remaining seconds,
// floored at zero; a wrong answer earns nothing. The value does not
// depend on mode; in team mode the caller additionally credits the
// submitter's team with the same amount.
func Score(submitted, authoritative string, timeRemaining, basePoints int, mode Mode) int {
	if !AnswersMatch(submitted, authoritative) {
		return 0
	}
	bonus := timeRemaining / 2
	if bonus < 0 {
		bonus = 0
	}
	return basePoints + bonus
}
