package poly_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decentralized-identity/fuzzy-encryption/internal/field"
	"github.com/decentralized-identity/fuzzy-encryption/internal/poly"
)

func newField(t *testing.T, p int) *field.Field {
	t.Helper()
	f, err := field.New(p)
	require.NoError(t, err)
	return f
}

func TestDegree(t *testing.T) {
	f := newField(t, 7001)
	zero := poly.Zero(f)
	require.Equal(t, -1, zero.Degree())

	p, err := poly.FromInts(f, []int{1, 0, 3})
	require.NoError(t, err)
	require.Equal(t, 2, p.Degree())
}

func TestCapacityExceeded(t *testing.T) {
	f := newField(t, 7001)
	values := make([]int, poly.MaxCoeffs+1)
	_, err := poly.FromInts(f, values)
	require.ErrorIs(t, err, poly.ErrCapacityExceeded)
}

func TestAddSub(t *testing.T) {
	f := newField(t, 7001)
	a, _ := poly.FromInts(f, []int{1, 2, 3})
	b, _ := poly.FromInts(f, []int{4, 5})
	sum := poly.Add(f, a, b)
	require.Equal(t, field.Elem(5), sum.Coeff(0))
	require.Equal(t, field.Elem(7), sum.Coeff(1))
	require.Equal(t, field.Elem(3), sum.Coeff(2))

	diff := poly.Sub(f, a, b)
	require.Equal(t, f.Sub(1, 4), diff.Coeff(0))
	require.Equal(t, f.Sub(2, 5), diff.Coeff(1))
	require.Equal(t, field.Elem(3), diff.Coeff(2))
}

func TestMulAndEvalFromRoots(t *testing.T) {
	f := newField(t, 7001)
	roots := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	p, err := poly.FromRoots(f, roots)
	require.NoError(t, err)
	require.Equal(t, 9, p.Degree())
	for _, r := range roots {
		require.Equal(t, field.Elem(0), p.Eval(f.Elem(r)))
	}
}

func TestFindRootsMatchesConstruction(t *testing.T) {
	f := newField(t, 7001)
	roots := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	p, err := poly.FromRoots(f, roots)
	require.NoError(t, err)

	found := p.FindRoots()
	require.Len(t, found, len(roots))
	seen := make(map[field.Elem]bool)
	for _, r := range found {
		require.Equal(t, 1, r.Multiplicity)
		seen[r.Value] = true
	}
	for _, r := range roots {
		require.True(t, seen[f.Elem(r)])
	}
}

func TestDivRemIdentity(t *testing.T) {
	f := newField(t, 7001)
	u, err := poly.FromInts(f, []int{7, 12, 27, 27, 18})
	require.NoError(t, err)
	v, err := poly.FromInts(f, []int{1, 2, 3})
	require.NoError(t, err)

	q, r, err := poly.DivRem(f, u, v)
	require.NoError(t, err)
	require.Less(t, r.Degree(), v.Degree())

	qv, err := poly.Mul(f, q, v)
	require.NoError(t, err)
	reconstructed := poly.Add(f, qv, r)
	for i := 0; i < poly.MaxCoeffs; i++ {
		require.Equal(t, u.Coeff(i), reconstructed.Coeff(i))
	}
}

func TestMulCapacityExceeded(t *testing.T) {
	f := newField(t, 7001)
	values := make([]int, 20)
	for i := range values {
		values[i] = 1
	}
	a, err := poly.FromInts(f, values)
	require.NoError(t, err)
	b, err := poly.FromInts(f, values)
	require.NoError(t, err)
	_, err = poly.Mul(f, a, b)
	require.ErrorIs(t, err, poly.ErrCapacityExceeded)
}
