package vault

import (
	"fmt"

	"github.com/decentralized-identity/fuzzy-encryption/internal/field"
)

// maxPrimeSearch bounds next_prime's trial-division search per §4.5.1:
// nextPrime tests no candidate above this.
const maxPrimeSearch = 1_000_000

func validateInput(in Input) error {
	if in.SetSize <= 0 {
		return fmt.Errorf("setSize must be > 0")
	}
	if in.SetSize > MaxSetSize {
		return fmt.Errorf("setSize %d exceeds the maximum of %d", in.SetSize, MaxSetSize)
	}
	if in.SetSize >= in.CorpusSize {
		return fmt.Errorf("setSize must be < corpusSize")
	}
	if in.CorrectThreshold > in.SetSize {
		return fmt.Errorf("correctThreshold must be <= setSize")
	}
	if 2*in.CorrectThreshold < in.SetSize {
		return fmt.Errorf("2*correctThreshold must be >= setSize")
	}
	return nil
}

// nextPrime returns the smallest prime strictly greater than x, using
// trial division. x must leave room under maxPrimeSearch.
func nextPrime(x int) (int, error) {
	if x >= maxPrimeSearch {
		return 0, fmt.Errorf("corpusSize %d is too large to search for a prime above it", x)
	}
	for candidate := x + 1; candidate <= maxPrimeSearch; candidate++ {
		if isPrimeCandidate(candidate) {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("no prime found above %d within %d", x, maxPrimeSearch)
}

func isPrimeCandidate(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for i := 3; i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// genParams implements gen_params: validate the request, find the
// smallest prime above corpusSize, draw a salt and an extractor, and
// return the public Params record. src is the random source to draw the
// salt and extractor from; GenParams passes prngReader unless Input
// carries its own randomBytes.
func genParams(in Input, src randSource) (Params, error) {
	if err := validateInput(in); err != nil {
		return Params{}, newError("GenParams", KindValidation, err)
	}

	p, err := nextPrime(in.CorpusSize)
	if err != nil {
		return Params{}, newError("GenParams", KindFieldLimit, err)
	}
	if _, err := field.New(p); err != nil {
		return Params{}, newError("GenParams", KindFieldLimit, err)
	}

	effectiveSrc := src
	if in.hasRandomBytes {
		effectiveSrc = newByteStreamSource(in.RandomBytes)
	}

	salt, err := randomBytes(effectiveSrc, saltSize)
	if err != nil {
		return Params{}, newError("GenParams", KindInputShape, err)
	}

	extractor, err := randSelect(effectiveSrc, p, in.SetSize)
	if err != nil {
		return Params{}, newError("GenParams", KindInputShape, err)
	}

	return Params{
		SetSize:          in.SetSize,
		CorrectThreshold: in.CorrectThreshold,
		CorpusSize:       in.CorpusSize,
		Prime:            p,
		Extractor:        extractor,
		Salt:             salt,
	}, nil
}
