package vault

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// sortWords returns a sorted ascending copy of words; sorting is the
// canonicalization that makes the whole scheme order-independent (§3,
// "Words").
func sortWords(words []int) []int {
	out := make([]int, len(words))
	copy(out, words)
	slices.Sort(out)
	return out
}

// validateWords checks that words has exactly n entries, all distinct, each
// in [0, corpusSize).
func validateWords(words []int, n, corpusSize int) error {
	if len(words) != n {
		return fmt.Errorf("expected %d words, got %d", n, len(words))
	}
	seen := make(map[int]bool, len(words))
	for _, w := range words {
		if w < 0 || w >= corpusSize {
			return fmt.Errorf("word %d out of range [0,%d)", w, corpusSize)
		}
		if seen[w] {
			return fmt.Errorf("word %d is not distinct", w)
		}
		seen[w] = true
	}
	return nil
}
