// Package decoder implements the Berlekamp-Welch decoder: it reconstructs
// a degree-(k-1) message polynomial from n noisy evaluations, tolerating
// up to t disagreements between the true polynomial and the observed
// values.
package decoder

import (
	"errors"
	"fmt"

	"github.com/decentralized-identity/fuzzy-encryption/internal/field"
	"github.com/decentralized-identity/fuzzy-encryption/internal/matrix"
	"github.com/decentralized-identity/fuzzy-encryption/internal/poly"
)

// ErrNoSolution is returned when the inputs cannot be decoded: the linear
// system has no solution, or the final division leaves a non-zero
// remainder.
var ErrNoSolution = errors.New("decoder: no solution")

// BerlekampWelch recovers the unique message polynomial of degree < k from
// n evaluation pairs (as[i], bs[i]) with as pairwise distinct, tolerating
// up to t disagreements between bs[i] and the true polynomial's value at
// as[i]. It requires n >= k + 2t; callers that violate this will simply
// receive ErrNoSolution rather than a recovered polynomial.
func BerlekampWelch(f *field.Field, as, bs []field.Elem, k, t int) (*poly.Poly, error) {
	if len(as) != len(bs) || len(as) == 0 {
		return nil, fmt.Errorf("decoder: |as| != |bs| or both empty")
	}
	if k <= 0 || t <= 0 {
		return nil, fmt.Errorf("decoder: k <= 0 || t <= 0")
	}
	n := len(as)
	if n < k+2*t {
		return nil, ErrNoSolution
	}

	m, err := matrix.New(f, n, n)
	if err != nil {
		return nil, err
	}
	y, err := matrix.New(f, n, 1)
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		b := bs[i]
		apowers := f.Powers(as[i], k+t)
		for j := 0; j < k+t; j++ {
			_ = m.Set(i, j, apowers[j])
		}
		for j := 0; j < t; j++ {
			_ = m.Set(i, j+k+t, f.Neg(f.Mul(b, apowers[j])))
		}
		_ = y.Set(i, 0, f.Mul(b, apowers[t]))
	}

	x, err := m.Solve(y)
	if err != nil {
		if errors.Is(err, matrix.ErrNoSolution) {
			return nil, ErrNoSolution
		}
		return nil, err
	}

	qCoeffs := make([]field.Elem, k+t)
	for i := 0; i < k+t; i++ {
		v, err := x.Get(i, 0)
		if err != nil {
			return nil, err
		}
		qCoeffs[i] = v
	}
	Q, err := poly.FromElems(f, qCoeffs)
	if err != nil {
		return nil, err
	}

	e := n - k - t
	eCoeffs := make([]field.Elem, e+1)
	for i := 0; i < e; i++ {
		v, err := x.Get(k+t+i, 0)
		if err != nil {
			return nil, err
		}
		eCoeffs[i] = v
	}
	eCoeffs[e] = f.One()
	E, err := poly.FromElems(f, eCoeffs)
	if err != nil {
		return nil, err
	}

	q, r, err := poly.DivRem(f, Q, E)
	if err != nil {
		return nil, err
	}
	if r.Degree() >= 0 {
		return nil, ErrNoSolution
	}
	return q, nil
}
