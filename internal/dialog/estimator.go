package dialog

import "strings"

// TokenEstimator approximates the token cost of a piece of text.
// Exact tokenization is provider-specific; the optimizer only needs a
// consistent ordering, not accuracy.
type TokenEstimator interface {
	Estimate(text string) int
}

// WordEstimator counts whitespace-separated words. Cheap and good enough
// for budget decisions on chat-sized inputs.
type WordEstimator struct{}

// Estimate implements TokenEstimator.
func (WordEstimator) Estimate(text string) int {
	return len(strings.Fields(text))
}

// estimateTurns sums the estimate over the content of all turns.
func estimateTurns(e TokenEstimator, turns []Turn) int {
	total := 0
	for _, t := range turns {
		total += e.Estimate(t.Content)
	}
	return total
}

// Interface guard.
var _ TokenEstimator = WordEstimator{}
