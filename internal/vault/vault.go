// Package vault implements the fuzzy vault key-recovery protocol: a user
// commits to an unordered set of distinct small integers ("words"); later
// supplying a similar-enough set deterministically reproduces the same
// list of cryptographic keys, while a too-distant guess fails closed. The
// package exposes three JSON-in/JSON-out entry points -- GenParams,
// GenSecret, GenKeys -- mirroring the three top-level calls of the
// protocol; everything else here is unexported.
package vault

import (
	"encoding/json"
	"fmt"
)

// GenParams takes an Input envelope and returns the corresponding Params
// envelope: the field modulus, an extractor, and a fresh salt.
func GenParams(inputJSON []byte) ([]byte, error) {
	var in Input
	if err := json.Unmarshal(inputJSON, &in); err != nil {
		return nil, asVaultError("GenParams", KindInputShape, err)
	}

	params, err := genParams(in, prngReader)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(params)
	if err != nil {
		return nil, newError("GenParams", KindInputShape, err)
	}
	return out, nil
}

// GenSecret takes a Params envelope and the original words, and returns
// the Secret envelope: Params plus the sketch and hash that let GenKeys
// recover a fuzzy guess later.
func GenSecret(paramsJSON, wordsJSON []byte) ([]byte, error) {
	var params Params
	if err := json.Unmarshal(paramsJSON, &params); err != nil {
		return nil, asVaultError("GenSecret", KindInputShape, err)
	}
	words, err := decodeWordsJSON(wordsJSON)
	if err != nil {
		return nil, newError("GenSecret", KindInputShape, err)
	}

	secret, err := genSecret(params, words)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(secret)
	if err != nil {
		return nil, newError("GenSecret", KindInputShape, err)
	}
	return out, nil
}

// GenKeys takes a Secret envelope, a guessed word set, and a key count,
// and returns keyCount keys (each a 64-byte HMAC-SHA3-512 digest) as
// uppercase-hex strings, provided the guess is within the error budget;
// otherwise it fails with a KindNoSolution error.
func GenKeys(secretJSON, guessJSON []byte, keyCount int) ([]byte, error) {
	var secret Secret
	if err := json.Unmarshal(secretJSON, &secret); err != nil {
		return nil, asVaultError("GenKeys", KindInputShape, err)
	}
	guess, err := decodeWordsJSON(guessJSON)
	if err != nil {
		return nil, newError("GenKeys", KindInputShape, err)
	}
	if keyCount < 0 {
		return nil, newError("GenKeys", KindValidation, fmt.Errorf("keyCount must be >= 0"))
	}

	keys, err := genKeys(secret, guess, keyCount)
	if err != nil {
		return nil, err
	}

	hexKeys := make([]string, len(keys))
	for i, k := range keys {
		hexKeys[i] = fmt.Sprintf("%X", k)
	}
	out, err := json.Marshal(hexKeys)
	if err != nil {
		return nil, newError("GenKeys", KindInputShape, err)
	}
	return out, nil
}

func decodeWordsJSON(data []byte) ([]int, error) {
	var words []int
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("malformed words array: %w", err)
	}
	return words, nil
}

// asVaultError wraps err as a vault.Error unless it already is one (our
// custom UnmarshalJSON implementations already return *Error).
func asVaultError(op string, kind ErrorKind, err error) error {
	if ve, ok := err.(*Error); ok {
		return ve
	}
	return newError(op, kind, err)
}
