// Package token approximates the size cost of text for budgeting decisions.
package token

// charsPerToken is the rough characters-per-token ratio used for budgeting.
// The estimate is never exact; callers reserve headroom instead of targeting
// the limit.
const charsPerToken = 4

// Estimate approximates the token cost of text. Deterministic and monotonic
// in the length of the input.
func Estimate(text string) int {
	return len(text) / charsPerToken
}
