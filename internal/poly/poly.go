// Package poly implements fixed-capacity dense polynomials over a
// field.Field: +, -, *, Euclidean division, evaluation, root finding and
// construction from roots.
package poly

import (
	"fmt"

	"github.com/decentralized-identity/fuzzy-encryption/internal/field"
)

// MaxCoeffs is the maximum number of coefficients a Poly can hold, i.e. the
// highest representable degree is MaxCoeffs-1.
const MaxCoeffs = 32

// Poly is a polynomial over a field.Field with coefficient i the
// coefficient of x^i. It is a fixed-size value type; constructing one with
// more than MaxCoeffs coefficients is an error.
type Poly struct {
	f      *field.Field
	coeffs [MaxCoeffs]field.Elem
}

// Zero returns the zero polynomial (degree -1) over f.
func Zero(f *field.Field) *Poly {
	return &Poly{f: f}
}

// FromInts builds a polynomial from integer coefficients, low-degree first.
func FromInts(f *field.Field, values []int) (*Poly, error) {
	if len(values) > MaxCoeffs {
		return nil, ErrCapacityExceeded
	}
	p := Zero(f)
	for i, v := range values {
		p.coeffs[i] = f.Elem(v)
	}
	return p, nil
}

// FromElems builds a polynomial from field elements, low-degree first.
func FromElems(f *field.Field, values []field.Elem) (*Poly, error) {
	if len(values) > MaxCoeffs {
		return nil, ErrCapacityExceeded
	}
	p := Zero(f)
	copy(p.coeffs[:], values)
	return p, nil
}

// Coeff returns the coefficient of x^i, or zero if i is out of range.
func (p *Poly) Coeff(i int) field.Elem {
	if i < 0 || i >= MaxCoeffs {
		return 0
	}
	return p.coeffs[i]
}

// Degree returns the highest index with a non-zero coefficient, or -1 for
// the zero polynomial.
func (p *Poly) Degree() int {
	for i := MaxCoeffs - 1; i >= 0; i-- {
		if p.coeffs[i] != 0 {
			return i
		}
	}
	return -1
}

// Add returns a + b, coefficientwise.
func Add(f *field.Field, a, b *Poly) *Poly {
	c := Zero(f)
	for i := 0; i < MaxCoeffs; i++ {
		c.coeffs[i] = f.Add(a.coeffs[i], b.coeffs[i])
	}
	return c
}

// Sub returns a - b, coefficientwise.
func Sub(f *field.Field, a, b *Poly) *Poly {
	c := Zero(f)
	for i := 0; i < MaxCoeffs; i++ {
		c.coeffs[i] = f.Sub(a.coeffs[i], b.coeffs[i])
	}
	return c
}

// Mul returns a * b by schoolbook convolution. The result's degree must be
// representable (< MaxCoeffs), else ErrCapacityExceeded.
func Mul(f *field.Field, a, b *Poly) (*Poly, error) {
	m := a.Degree()
	n := b.Degree()
	if m < 0 || n < 0 {
		return Zero(f), nil
	}
	if m+n >= MaxCoeffs {
		return nil, ErrCapacityExceeded
	}
	c := Zero(f)
	for k := 0; k <= m+n; k++ {
		sum := f.Zero()
		lo := 0
		if k-n > lo {
			lo = k - n
		}
		hi := k
		if m < hi {
			hi = m
		}
		for i := lo; i <= hi; i++ {
			sum = f.Add(sum, f.Mul(a.coeffs[i], b.coeffs[k-i]))
		}
		c.coeffs[k] = sum
	}
	return c, nil
}

// Eval evaluates the polynomial at x using Horner's method, top coefficient
// down.
func (p *Poly) Eval(x field.Elem) field.Elem {
	n := p.Degree()
	ans := p.f.Zero()
	for i := n; i >= 0; i-- {
		ans = p.f.Add(p.coeffs[i], p.f.Mul(x, ans))
	}
	return ans
}

// DivRem divides u by v, returning quotient q and remainder r such that
// u = q*v + r with deg(r) < deg(v). u's degree must be >= v's, and neither
// may be the zero polynomial.
func DivRem(f *field.Field, u, v *Poly) (q, r *Poly, err error) {
	m := u.Degree()
	n := v.Degree()
	if m == -1 || n == -1 {
		return nil, nil, fmt.Errorf("poly: div_rem -- zero numerator or divisor")
	}
	if m < n {
		return nil, nil, fmt.Errorf("poly: div_rem -- deg(u) < deg(v)")
	}

	work := *u
	quotient := Zero(f)
	for k := m - n; k >= 0; k-- {
		qk, err := f.Div(work.coeffs[n+k], v.coeffs[n])
		if err != nil {
			return nil, nil, err
		}
		quotient.coeffs[k] = qk
		for j := n + k - 1; j >= k; j-- {
			work.coeffs[j] = f.Sub(work.coeffs[j], f.Mul(qk, v.coeffs[j-k]))
		}
	}
	remainder := Zero(f)
	for i := 0; i < n; i++ {
		remainder.coeffs[i] = work.coeffs[i]
	}
	return quotient, remainder, nil
}

// FromRoots returns the monic polynomial whose roots are exactly roots
// (with multiplicity), i.e. the product of (x - r) for each r in roots.
func FromRoots(f *field.Field, roots []int) (*Poly, error) {
	ans := Zero(f)
	ans.coeffs[0] = f.One()
	for _, r := range roots {
		factor, err := FromInts(f, []int{-r, 1})
		if err != nil {
			return nil, err
		}
		next, err := Mul(f, ans, factor)
		if err != nil {
			return nil, err
		}
		ans = next
	}
	return ans, nil
}

// Root is one root of a polynomial along with how many times it was
// encountered by the exhaustive scan in FindRoots.
type Root struct {
	Value        field.Elem
	Multiplicity int
}

// FindRoots exhaustively tests every x in [0, p) for p(x) == 0. Because the
// scan visits each x exactly once, Multiplicity is always 1 in the values
// this returns; the field exists so that a future factor-based root finder
// can report true multiplicities without changing the Root type.
func (p *Poly) FindRoots() []Root {
	var roots []Root
	prime := p.f.Prime()
	for k := 0; k < prime; k++ {
		x := field.Elem(k)
		if p.Eval(x) != 0 {
			continue
		}
		roots = append(roots, Root{Value: x, Multiplicity: 1})
	}
	return roots
}
