package vault

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/decentralized-identity/fuzzy-encryption/internal/decoder"
	"github.com/decentralized-identity/fuzzy-encryption/internal/field"
	"github.com/decentralized-identity/fuzzy-encryption/internal/poly"
)

var (
	errOddT              = errors.New("vault: error budget t must be even")
	errRootCountMismatch = errors.New("vault: decoded polynomial does not factor into exactly n distinct roots")
	errRootMultiplicity  = errors.New("vault: decoded polynomial has a repeated root")
	errHashMismatch      = errors.New("vault: recovered words do not match the committed hash")
)

// recoverWords implements §4.5.7: reconstruct the high-degree polynomial
// carrying the sketch, evaluate it (and the unknown low-degree
// counterpart) at the guess, run Berlekamp-Welch, and take the roots of
// their difference as the recovered word set.
//
// A configuration whose error budget t = setSize - correctThreshold is odd
// can never succeed here (the decoder needs an exact t/2 two-sided bound):
// that is treated as a legitimate NoSolution rather than a distinct error
// kind, since it means fuzzy recovery cannot succeed for this vault no
// matter the guess -- the same place every other recovery failure lands.
func recoverWords(f *field.Field, guess []int, sk []int, t int) ([]int, error) {
	if t%2 != 0 {
		return nil, errOddT
	}
	n := len(guess)

	pHighCoeffs := make([]field.Elem, n+1)
	for i := 0; i < t; i++ {
		pHighCoeffs[n-t+i] = f.Elem(sk[i])
	}
	pHighCoeffs[n] = f.One()
	pHigh, err := poly.FromElems(f, pHighCoeffs)
	if err != nil {
		return nil, err
	}

	as := make([]field.Elem, n)
	bs := make([]field.Elem, n)
	for i, g := range guess {
		as[i] = f.Elem(g)
		bs[i] = pHigh.Eval(as[i])
	}

	pLow, err := decoder.BerlekampWelch(f, as, bs, n-t, t/2)
	if err != nil {
		return nil, err
	}

	d := poly.Sub(f, pHigh, pLow)
	roots := d.FindRoots()
	if len(roots) != n {
		return nil, errRootCountMismatch
	}
	for _, r := range roots {
		if r.Multiplicity != 1 {
			return nil, errRootMultiplicity
		}
	}

	out := make([]int, n)
	for i, r := range roots {
		out[i] = int(r.Value)
	}
	return out, nil
}

// hEk implements §4.5.8: e = product of (W[i] * E[i]) over sorted words W
// and the params' extractor E; ek = scrypt("key:" || e, salt).
func hEk(f *field.Field, salt []byte, sortedWords, extractor []int) ([]byte, error) {
	e := f.One()
	for i, w := range sortedWords {
		term := f.Mul(f.Elem(w), f.Elem(extractor[i]))
		e = f.Mul(e, term)
	}
	return scryptHash(wordsToBytes("key:", []int{int(e)}), salt)
}

// genKeys implements gen_keys: fast-path hash check, else fuzzy recovery
// via Berlekamp-Welch gated by the same hash, then HMAC-SHA3-512 key
// derivation.
func genKeys(secret Secret, guess []int, keyCount int) ([][]byte, error) {
	if err := validateWords(guess, secret.SetSize, secret.CorpusSize); err != nil {
		return nil, newError("GenKeys", KindValidation, err)
	}

	f, err := field.New(secret.Prime)
	if err != nil {
		return nil, newError("GenKeys", KindFieldLimit, err)
	}

	sortedGuess := sortWords(guess)
	hPrime, err := hHash(secret.Salt, sortedGuess)
	if err != nil {
		return nil, newError("GenKeys", KindInputShape, err)
	}

	var recovered []int
	if bytes.Equal(hPrime, secret.Hash) {
		recovered = sortedGuess
	} else {
		t := secret.SetSize - secret.CorrectThreshold
		r, err := recoverWords(f, guess, secret.Sketch, t)
		if err != nil {
			if ve, ok := err.(*Error); ok {
				return nil, ve
			}
			return nil, newError("GenKeys", KindNoSolution, err)
		}
		sortedRecovered := sortWords(r)
		h, err := hHash(secret.Salt, sortedRecovered)
		if err != nil {
			return nil, newError("GenKeys", KindInputShape, err)
		}
		if !bytes.Equal(h, secret.Hash) {
			return nil, newError("GenKeys", KindNoSolution, errHashMismatch)
		}
		recovered = sortedRecovered
	}

	ek, err := hEk(f, secret.Salt, recovered, secret.Extractor)
	if err != nil {
		return nil, newError("GenKeys", KindInputShape, err)
	}

	keys := make([][]byte, keyCount)
	for i := 0; i < keyCount; i++ {
		var idx [4]byte
		binary.LittleEndian.PutUint32(idx[:], uint32(i))
		keys[i] = hmacSHA3_512(idx[:], ek)
	}
	return keys, nil
}
