// Command randomtest is the self-test harness for the fuzzy vault: it
// repeatedly generates a random secret, mutates it by a randomly weighted
// number of positions (favoring small mutation counts, the way a guess
// with partial knowledge of the original would), and checks that the
// actual recovery outcome matches what the correctThreshold predicts.
//
// Usage:
//
//	randomtest <setSize> <correctThreshold> <corpusSize> <testCount>
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/decentralized-identity/fuzzy-encryption/internal/vault"
)

type prediction int

const (
	predictionSuccess prediction = iota
	predictionFailure
	predictionNoSolution
)

func (p prediction) String() string {
	switch p {
	case predictionSuccess:
		return "success"
	case predictionFailure:
		return "failure"
	default:
		return "no_solution"
	}
}

// getPrediction predicts the vault's outcome for a mutant: repeated words
// are a hard failure; otherwise recovery succeeds for an exact match, or
// when the error budget t = setSize - correctThreshold is even and
// errorCount <= t/2. Every other mutant is expected to fail NoSolution.
func getPrediction(setSize, correctThreshold, errorCount int, repeats bool) prediction {
	if repeats {
		return predictionFailure
	}
	t := setSize - correctThreshold
	if errorCount == 0 || (t%2 == 0 && errorCount <= t/2) {
		return predictionSuccess
	}
	return predictionNoSolution
}

// getLengths returns {0, size-1, size-2, ..., 1}, the relative weight given
// to each possible mutation count; larger mutation counts get smaller
// weights so the random stream favors small, close-to-original guesses.
func getLengths(size int) []int {
	lengths := []int{0}
	for i := 0; i < size-1; i++ {
		lengths = append(lengths, size-i-1)
	}
	return lengths
}

func getSums(lengths []int) []int {
	sums := make([]int, len(lengths))
	sum := 0
	for i, x := range lengths {
		sum += x
		sums[i] = sum
	}
	return sums
}

func getBin(sums []int, sum int) int {
	left := 0
	for i, right := range sums {
		if left < sum && sum <= right {
			return i
		}
		left = right
	}
	panic("randomtest: sum out of range of bins")
}

func randomMutationCount(rng *rand.Rand, sums []int) int {
	last := sums[len(sums)-1]
	n := rng.Intn(last) + 1 // uniform in [1, last]
	return getBin(sums, n)
}

// randomWords draws count distinct integers from [0, corpusSize) by
// shuffling a deck and taking a prefix, the same idiom §4.5.4 uses inside
// the vault package itself.
func randomWords(rng *rand.Rand, count, corpusSize int) []int {
	deck := make([]int, corpusSize)
	for i := range deck {
		deck[i] = i
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	out := make([]int, count)
	copy(out, deck[:count])
	return out
}

func hasRepeats(words []int) bool {
	seen := make(map[int]bool, len(words))
	for _, w := range words {
		if seen[w] {
			return true
		}
		seen[w] = true
	}
	return false
}

func intersectionCount(a, b []int) int {
	set := make(map[int]bool, len(a))
	for _, x := range a {
		set[x] = true
	}
	count := 0
	for _, y := range b {
		if set[y] {
			count++
		}
	}
	return count
}

// fillOutMutated pads mutated up to len(originals) by appending leading
// entries of originals, so the mutant is a partial replacement of the
// original set rather than an unrelated random set of the same size.
func fillOutMutated(mutated, originals []int) []int {
	need := len(originals) - len(mutated)
	out := append([]int{}, mutated...)
	for i := 0; i < need; i++ {
		out = append(out, originals[i])
	}
	return out
}

func wordsJSON(words []int) []byte {
	data, err := json.Marshal(words)
	if err != nil {
		panic(err)
	}
	return data
}

type harness struct {
	setSize          int
	correctThreshold int
	corpusSize       int
	rng              *rand.Rand
	sums             []int

	mutationCounts []float64
	errorCounts    []float64
	mismatches     int
}

func newHarness(setSize, correctThreshold, corpusSize int, rng *rand.Rand) *harness {
	return &harness{
		setSize:          setSize,
		correctThreshold: correctThreshold,
		corpusSize:       corpusSize,
		rng:              rng,
		sums:             getSums(getLengths(setSize)),
	}
}

func (h *harness) genSecret(originals []int) ([]byte, error) {
	input, err := json.Marshal(map[string]int{
		"setSize":          h.setSize,
		"correctThreshold": h.correctThreshold,
		"corpusSize":       h.corpusSize,
	})
	if err != nil {
		return nil, err
	}
	params, err := vault.GenParams(input)
	if err != nil {
		return nil, err
	}
	return vault.GenSecret(params, wordsJSON(originals))
}

// exactMatchTest recovers with the originals themselves -- this must
// always succeed.
func (h *harness) exactMatchTest(secret, originalsJSON []byte) error {
	_, err := vault.GenKeys(secret, originalsJSON, 1)
	if err != nil {
		return fmt.Errorf("exact match recovery failed: %w", err)
	}
	return nil
}

// mutateTest mutates a random subset of originals, predicts the outcome
// from correctThreshold, runs the recovery, and reports a mismatch between
// prediction and reality.
func (h *harness) mutateTest(secret []byte, originals []int) error {
	nMutations := randomMutationCount(h.rng, h.sums)
	h.mutationCounts = append(h.mutationCounts, float64(nMutations))

	mutants := randomWords(h.rng, nMutations, h.corpusSize)
	mutants = fillOutMutated(mutants, originals)

	errorCount := h.setSize - intersectionCount(mutants, originals)
	h.errorCounts = append(h.errorCounts, float64(errorCount))
	repeats := hasRepeats(mutants)

	pred := getPrediction(h.setSize, h.correctThreshold, errorCount, repeats)

	_, genErr := vault.GenKeys(secret, wordsJSON(mutants), 1)

	switch pred {
	case predictionSuccess:
		if genErr != nil {
			h.mismatches++
			return fmt.Errorf("predicted success, got error: %v (originals=%v mutants=%v)", genErr, originals, mutants)
		}
	case predictionNoSolution:
		if genErr != nil && !vault.IsNoSolution(genErr) {
			h.mismatches++
			return fmt.Errorf("predicted no_solution, got a different error: %v (originals=%v mutants=%v)", genErr, originals, mutants)
		}
		if genErr == nil {
			h.mismatches++
			return fmt.Errorf("predicted no_solution, recovery succeeded (originals=%v mutants=%v)", originals, mutants)
		}
	case predictionFailure:
		if genErr == nil {
			h.mismatches++
			return fmt.Errorf("predicted failure (repeated words), recovery succeeded (mutants=%v)", mutants)
		}
	}
	return nil
}

func (h *harness) run(testCount int) error {
	for i := 0; i < testCount; i++ {
		originals := randomWords(h.rng, h.setSize, h.corpusSize)
		secret, err := h.genSecret(originals)
		if err != nil {
			return fmt.Errorf("test %d: gen_secret failed: %w", i, err)
		}
		if err := h.exactMatchTest(secret, wordsJSON(originals)); err != nil {
			return fmt.Errorf("test %d: %w", i, err)
		}
		if err := h.mutateTest(secret, originals); err != nil {
			return fmt.Errorf("test %d: %w", i, err)
		}
		if (i+1)%100 == 0 {
			fmt.Fprintf(os.Stderr, "%12d\n", i+1)
		} else {
			fmt.Fprint(os.Stderr, ".")
		}
	}
	return nil
}

func (h *harness) summary() string {
	meanMut, _ := stats.Mean(h.mutationCounts)
	sdMut, _ := stats.StandardDeviation(h.mutationCounts)
	meanErr, _ := stats.Mean(h.errorCounts)
	sdErr, _ := stats.StandardDeviation(h.errorCounts)
	return fmt.Sprintf(
		"mutation count: mean=%.2f stddev=%.2f | error count: mean=%.2f stddev=%.2f | mismatches=%d",
		meanMut, sdMut, meanErr, sdErr, h.mismatches,
	)
}

func parseArgs(args []string) (setSize, correctThreshold, corpusSize, testCount int, err error) {
	if len(args) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("expected 4 arguments, got %d", len(args))
	}
	vals := make([]int, 4)
	for i, a := range args {
		v, convErr := strconv.Atoi(a)
		if convErr != nil {
			return 0, 0, 0, 0, fmt.Errorf("%q is not an integer: %w", a, convErr)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}

func main() {
	log.SetFlags(0)
	setSize, correctThreshold, corpusSize, testCount, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Printf("%v\n\nUsage:\n\n  randomtest <setSize> <correctThreshold> <corpusSize> <testCount>", err)
		os.Exit(8)
	}

	rng := rand.New(rand.NewSource(1))
	h := newHarness(setSize, correctThreshold, corpusSize, rng)
	if err := h.run(testCount); err != nil {
		log.Println(err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, h.summary())
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, h.summary())
}
