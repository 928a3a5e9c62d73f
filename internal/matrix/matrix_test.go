package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decentralized-identity/fuzzy-encryption/internal/field"
	"github.com/decentralized-identity/fuzzy-encryption/internal/matrix"
)

func newField(t *testing.T, p int) *field.Field {
	t.Helper()
	f, err := field.New(p)
	require.NoError(t, err)
	return f
}

func TestGetSetRoundtrip(t *testing.T) {
	f := newField(t, 7001)
	m, err := matrix.New(f, 2, 3)
	require.NoError(t, err)
	require.NoError(t, m.Set(1, 2, 42))
	v, err := m.Get(1, 2)
	require.NoError(t, err)
	require.Equal(t, field.Elem(42), v)
}

func TestOutOfRangeIsError(t *testing.T) {
	f := newField(t, 7001)
	m, err := matrix.New(f, 2, 2)
	require.NoError(t, err)
	_, err = m.Get(2, 0)
	require.Error(t, err)
	_, err = m.Get(0, 2)
	require.Error(t, err)
}

func TestTranspose(t *testing.T) {
	f := newField(t, 7001)
	m, err := matrix.NewFromInts(f, 2, 3, []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	tr, err := m.Transpose()
	require.NoError(t, err)
	require.Equal(t, 3, tr.Rows())
	require.Equal(t, 2, tr.Cols())
	v, err := tr.Get(2, 1)
	require.NoError(t, err)
	require.Equal(t, field.Elem(6), v)
}

func TestAugment(t *testing.T) {
	f := newField(t, 7001)
	a, err := matrix.NewFromInts(f, 2, 2, []int{1, 2, 3, 4})
	require.NoError(t, err)
	b, err := matrix.NewFromInts(f, 2, 1, []int{5, 6})
	require.NoError(t, err)
	aug, err := a.Augment(b)
	require.NoError(t, err)
	require.Equal(t, 3, aug.Cols())
	v, err := aug.Get(1, 2)
	require.NoError(t, err)
	require.Equal(t, field.Elem(6), v)
}

func TestSolveNonSingular(t *testing.T) {
	// x + y = 3, x - y = 1 => x=2, y=1
	f := newField(t, 7001)
	a, err := matrix.NewFromInts(f, 2, 2, []int{1, 1, 1, f.Prime() - 1})
	require.NoError(t, err)
	b, err := matrix.NewFromInts(f, 2, 1, []int{3, 1})
	require.NoError(t, err)
	x, err := a.Solve(b)
	require.NoError(t, err)
	v0, _ := x.Get(0, 0)
	v1, _ := x.Get(1, 0)
	require.Equal(t, field.Elem(2), v0)
	require.Equal(t, field.Elem(1), v1)

	// Verify the matrix identity M*solve(M,B) = B.
	check, err := matrix.Mul(f, a, x)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		cv, _ := check.Get(i, 0)
		bv, _ := b.Get(i, 0)
		require.Equal(t, bv, cv)
	}
}

func TestSolveSingularConsistent(t *testing.T) {
	// x + y = 1
	// 2x + 2y = 2   (dependent row; infinite solutions, one particular one expected)
	f := newField(t, 7001)
	a, err := matrix.NewFromInts(f, 2, 2, []int{1, 1, 2, 2})
	require.NoError(t, err)
	b, err := matrix.NewFromInts(f, 2, 1, []int{1, 2})
	require.NoError(t, err)
	x, err := a.Solve(b)
	require.NoError(t, err)
	v0, _ := x.Get(0, 0)
	v1, _ := x.Get(1, 0)
	require.Equal(t, field.Elem(1), v0)
	require.Equal(t, field.Elem(0), v1)
}

func TestSolveSingularInconsistent(t *testing.T) {
	// x + y = 1
	// 2x + 2y = 5   (inconsistent: 2*(x+y) can't be both 2 and 5)
	f := newField(t, 7001)
	a, err := matrix.NewFromInts(f, 2, 2, []int{1, 1, 2, 2})
	require.NoError(t, err)
	b, err := matrix.NewFromInts(f, 2, 1, []int{1, 5})
	require.NoError(t, err)
	_, err = a.Solve(b)
	require.ErrorIs(t, err, matrix.ErrNoSolution)
}

func TestIsSingular(t *testing.T) {
	f := newField(t, 7001)
	m, err := matrix.NewFromInts(f, 2, 2, []int{1, 0, 0, 1})
	require.NoError(t, err)
	require.False(t, m.IsSingular())
	m2, err := matrix.NewFromInts(f, 2, 2, []int{1, 0, 0, 0})
	require.NoError(t, err)
	require.True(t, m2.IsSingular())
}
