package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPrediction(t *testing.T) {
	require.Equal(t, predictionNoSolution, getPrediction(9, 6, 3, false))
	require.Equal(t, predictionNoSolution, getPrediction(9, 6, 4, false))
	require.Equal(t, predictionFailure, getPrediction(9, 6, 0, true))
}

func TestGetLengthsAndSums(t *testing.T) {
	lengths := getLengths(5)
	require.Equal(t, []int{0, 4, 3, 2, 1}, lengths)

	sums := getSums(lengths)
	require.Equal(t, []int{0, 4, 7, 9, 10}, sums)
}

func TestGetBin(t *testing.T) {
	sums := []int{0, 4, 7, 9, 10}
	require.Equal(t, 1, getBin(sums, 1))
	require.Equal(t, 1, getBin(sums, 4))
	require.Equal(t, 2, getBin(sums, 5))
	require.Equal(t, 4, getBin(sums, 10))
}

func TestFillOutMutated(t *testing.T) {
	originals := []int{1, 2, 3, 4, 5}
	mutated := []int{9, 8}
	out := fillOutMutated(mutated, originals)
	require.Equal(t, []int{9, 8, 1, 2, 3}, out)
}

func TestIntersectionCount(t *testing.T) {
	require.Equal(t, 2, intersectionCount([]int{1, 2, 3}, []int{2, 3, 4}))
}

func TestHasRepeats(t *testing.T) {
	require.True(t, hasRepeats([]int{1, 2, 2}))
	require.False(t, hasRepeats([]int{1, 2, 3}))
}

func TestParseArgs(t *testing.T) {
	setSize, threshold, corpus, count, err := parseArgs([]string{"9", "6", "7776", "10"})
	require.NoError(t, err)
	require.Equal(t, 9, setSize)
	require.Equal(t, 6, threshold)
	require.Equal(t, 7776, corpus)
	require.Equal(t, 10, count)

	_, _, _, _, err = parseArgs([]string{"9", "6"})
	require.Error(t, err)

	_, _, _, _, err = parseArgs([]string{"a", "b", "c", "d"})
	require.Error(t, err)
}
