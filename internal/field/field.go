// Package field implements arithmetic in GF(p) for a prime p <= 32768.
//
// A Field owns a precomputed table of multiplicative inverses so that
// division collapses to a single indexed load, which matters because the
// matrix solver and the Berlekamp-Welch decoder are inverse-heavy. Unlike
// the scheme this package descends from, the prime and its table are not
// process-global: every Field is an explicit value a caller threads through
// Matrix, Poly and the decoder, so two Fields with different primes can be
// used concurrently without any caller-side serialization.
package field

import "fmt"

// MaxPrime is the largest modulus a Field will accept.
const MaxPrime = 32768

// Elem is a value in [0, p) for whatever Field produced it. Elem carries no
// reference back to its Field; callers must not mix Elems from different
// Fields.
type Elem int

// Field is GF(p) for a fixed prime p, plus its inverse table.
type Field struct {
	p        int
	inverses []int // inverses[0] is an unused sentinel; inverses[i] * i === 1 (mod p)
}

// New builds the field GF(p). p must be a prime no greater than MaxPrime;
// p = 2 is accepted. Building the table costs O(p log p): each inverse is found with
// the extended Euclidean algorithm rather than the O(p^2) nested scan of
// the scheme this package is modeled on, a substitution that changes
// nothing observable.
func New(p int) (*Field, error) {
	if p <= 0 {
		return nil, fmt.Errorf("field: modulus %d must be positive", p)
	}
	if p > MaxPrime {
		return nil, fmt.Errorf("field: modulus %d exceeds max %d", p, MaxPrime)
	}
	if !isPrime(p) {
		return nil, fmt.Errorf("field: modulus %d is not prime", p)
	}
	if p != 2 && p%2 == 0 {
		return nil, fmt.Errorf("field: modulus %d is not odd", p)
	}

	inverses := make([]int, p)
	for i := 1; i < p; i++ {
		inverses[i] = extendedEuclidInverse(i, p)
	}
	return &Field{p: p, inverses: inverses}, nil
}

// Prime returns the field's modulus.
func (f *Field) Prime() int { return f.p }

// Elem reduces an arbitrary signed integer into [0, p).
func (f *Field) Elem(n int) Elem {
	m := n % f.p
	if m < 0 {
		m += f.p
	}
	return Elem(m)
}

// Zero is the additive identity.
func (f *Field) Zero() Elem { return 0 }

// One is the multiplicative identity.
func (f *Field) One() Elem { return 1 }

// Add returns a + b (mod p).
func (f *Field) Add(a, b Elem) Elem {
	return f.Elem(int(a) + int(b))
}

// Sub returns a - b (mod p).
func (f *Field) Sub(a, b Elem) Elem {
	return f.Elem(int(a) - int(b))
}

// Mul returns a * b (mod p).
func (f *Field) Mul(a, b Elem) Elem {
	return f.Elem(int(a) * int(b))
}

// Neg returns -a (mod p).
func (f *Field) Neg(a Elem) Elem {
	return f.Elem(-int(a))
}

// Equal reports whether a and b are the same element.
func (f *Field) Equal(a, b Elem) bool {
	return a == b
}

// Inv returns the multiplicative inverse of a. It is an error to invert
// zero.
func (f *Field) Inv(a Elem) (Elem, error) {
	if a == 0 {
		return 0, ErrDivideByZero
	}
	return Elem(f.inverses[int(a)]), nil
}

// Div returns a / b (mod p). It is an error to divide by zero.
func (f *Field) Div(a, b Elem) (Elem, error) {
	inv, err := f.Inv(b)
	if err != nil {
		return 0, err
	}
	return f.Mul(a, inv), nil
}

// Powers fills the first m entries of the returned slice with
// [1, a, a^2, ..., a^(m-1)].
func (f *Field) Powers(a Elem, m int) []Elem {
	out := make([]Elem, m)
	y := f.One()
	for i := 0; i < m; i++ {
		out[i] = y
		y = f.Mul(y, a)
	}
	return out
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 || n%3 == 0 {
		return n == 2 || n == 3
	}
	for i := 5; i*i <= n; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}

// extendedEuclidInverse returns x such that a*x === 1 (mod m), for 1 <= a < m
// and m prime.
func extendedEuclidInverse(a, m int) int {
	old_r, r := a, m
	old_s, s := 1, 0
	for r != 0 {
		q := old_r / r
		old_r, r = r, old_r-q*r
		old_s, s = s, old_s-q*s
	}
	x := old_s % m
	if x < 0 {
		x += m
	}
	return x
}
