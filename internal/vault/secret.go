package vault

import (
	"github.com/decentralized-identity/fuzzy-encryption/internal/field"
	"github.com/decentralized-identity/fuzzy-encryption/internal/poly"
)

// sketch implements §4.5.5: sketch(W, t) = tail_t(from_roots(W)). from_roots
// produces the monic degree-n polynomial with W as roots; the sketch is
// its top t coefficients below the implicit leading 1, i.e. coefficients
// [n-t .. n-1].
func sketch(f *field.Field, sortedWords []int, t int) ([]int, error) {
	n := len(sortedWords)
	p, err := poly.FromRoots(f, sortedWords)
	if err != nil {
		return nil, err
	}
	out := make([]int, t)
	for i := 0; i < t; i++ {
		out[i] = int(p.Coeff(n - t + i))
	}
	return out, nil
}

// wordsToBytes little-endian-encodes each word, prefixed by the given
// domain tag, matching the pass buffer layout §4.5.6/§4.5.8 describe.
func wordsToBytes(tag string, words []int) []byte {
	buf := []byte(tag)
	for _, w := range words {
		buf = pushbackInt(buf, w)
	}
	return buf
}

// hHash implements §4.5.6: H_hash(W) = scrypt("original_words:" || words, salt).
func hHash(salt []byte, sortedWords []int) ([]byte, error) {
	return scryptHash(wordsToBytes("original_words:", sortedWords), salt)
}

// genSecret implements gen_secret: initialize the field, validate and sort
// the words, compute the sketch and hash, and return the Secret record.
func genSecret(params Params, words []int) (Secret, error) {
	if err := validateWords(words, params.SetSize, params.CorpusSize); err != nil {
		return Secret{}, newError("GenSecret", KindValidation, err)
	}

	f, err := field.New(params.Prime)
	if err != nil {
		return Secret{}, newError("GenSecret", KindFieldLimit, err)
	}

	sorted := sortWords(words)
	t := params.SetSize - params.CorrectThreshold

	sk, err := sketch(f, sorted, t)
	if err != nil {
		return Secret{}, newError("GenSecret", KindCapacity, err)
	}
	hash, err := hHash(params.Salt, sorted)
	if err != nil {
		return Secret{}, newError("GenSecret", KindInputShape, err)
	}

	return Secret{
		Params: params,
		Sketch: sk,
		Hash:   hash,
	}, nil
}
