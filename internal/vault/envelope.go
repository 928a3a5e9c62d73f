package vault

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// MaxSetSize is the largest setSize the 32-coefficient polynomial capacity
// supports: from_roots(W) has degree n, so n must leave room for the
// leading coefficient within poly.MaxCoeffs.
const MaxSetSize = 31

// Input is the user-supplied request for GenParams: the shape of the
// secret to commit to, and optionally a deterministic random byte stream
// for reproducible testing.
type Input struct {
	SetSize          int
	CorrectThreshold int
	CorpusSize       int
	RandomBytes      []byte // nil if not supplied
	hasRandomBytes   bool
}

// Params is the public, recoverable-by-itself parameter record produced by
// GenParams.
type Params struct {
	SetSize          int
	CorrectThreshold int
	CorpusSize       int
	Prime            int
	Extractor        []int
	Salt             []byte
}

// Secret is Params plus the sketch and hash that let GenKeys recover a
// fuzzy guess. It is safe to publish: it does not reveal the original
// words.
type Secret struct {
	Params
	Sketch []int
	Hash   []byte
}

// --- Input ---

type inputWire struct {
	SetSize          *int     `json:"setSize"`
	CorrectThreshold *int     `json:"correctThreshold"`
	CorpusSize       *int     `json:"corpusSize"`
	RandomBytes      []string `json:"randomBytes,omitempty"`
}

func (in Input) MarshalJSON() ([]byte, error) {
	w := inputWire{
		SetSize:          &in.SetSize,
		CorrectThreshold: &in.CorrectThreshold,
		CorpusSize:       &in.CorpusSize,
	}
	if in.hasRandomBytes {
		w.RandomBytes = []string{hex.EncodeToString(in.RandomBytes)}
	}
	return json.Marshal(w)
}

func (in *Input) UnmarshalJSON(data []byte) error {
	fields, err := decodeStrictObject(data, map[string]bool{
		"setSize": true, "correctThreshold": true, "corpusSize": true, "randomBytes": false,
	})
	if err != nil {
		return newError("Input.UnmarshalJSON", KindInputShape, err)
	}

	setSize, err := requireInt(fields, "setSize")
	if err != nil {
		return newError("Input.UnmarshalJSON", KindInputShape, err)
	}
	correctThreshold, err := requireInt(fields, "correctThreshold")
	if err != nil {
		return newError("Input.UnmarshalJSON", KindInputShape, err)
	}
	corpusSize, err := requireInt(fields, "corpusSize")
	if err != nil {
		return newError("Input.UnmarshalJSON", KindInputShape, err)
	}

	in.SetSize = setSize
	in.CorrectThreshold = correctThreshold
	in.CorpusSize = corpusSize
	in.RandomBytes = nil
	in.hasRandomBytes = false

	if raw, ok := fields["randomBytes"]; ok {
		var hexes []string
		if err := json.Unmarshal(raw, &hexes); err != nil {
			return newError("Input.UnmarshalJSON", KindInputShape, fmt.Errorf("randomBytes: %w", err))
		}
		var buf []byte
		for _, h := range hexes {
			b, err := decodeHex(h)
			if err != nil {
				return newError("Input.UnmarshalJSON", KindInputShape, fmt.Errorf("randomBytes: %w", err))
			}
			buf = append(buf, b...)
		}
		in.RandomBytes = buf
		in.hasRandomBytes = true
	}
	return nil
}

// --- Params ---

type paramsWire struct {
	SetSize          *int   `json:"setSize"`
	CorrectThreshold *int   `json:"correctThreshold"`
	CorpusSize       *int   `json:"corpusSize"`
	Prime            *int   `json:"prime"`
	Extractor        []int  `json:"extractor"`
	Salt             string `json:"salt"`
}

func (p Params) MarshalJSON() ([]byte, error) {
	w := paramsWire{
		SetSize:          &p.SetSize,
		CorrectThreshold: &p.CorrectThreshold,
		CorpusSize:       &p.CorpusSize,
		Prime:            &p.Prime,
		Extractor:        p.Extractor,
		Salt:             encodeHex(p.Salt),
	}
	return json.Marshal(w)
}

func (p *Params) UnmarshalJSON(data []byte) error {
	fields, err := decodeStrictObject(data, map[string]bool{
		"setSize": true, "correctThreshold": true, "corpusSize": true,
		"prime": true, "extractor": true, "salt": true,
	})
	if err != nil {
		return newError("Params.UnmarshalJSON", KindInputShape, err)
	}
	return p.fillFrom(fields)
}

// fillFrom reads Params' own fields out of an already-validated field map;
// Secret reuses it since Secret's wire shape is Params plus two more
// fields.
func (p *Params) fillFrom(fields map[string]json.RawMessage) error {
	setSize, err := requireInt(fields, "setSize")
	if err != nil {
		return newError("Params.UnmarshalJSON", KindInputShape, err)
	}
	correctThreshold, err := requireInt(fields, "correctThreshold")
	if err != nil {
		return newError("Params.UnmarshalJSON", KindInputShape, err)
	}
	corpusSize, err := requireInt(fields, "corpusSize")
	if err != nil {
		return newError("Params.UnmarshalJSON", KindInputShape, err)
	}
	prime, err := requireInt(fields, "prime")
	if err != nil {
		return newError("Params.UnmarshalJSON", KindInputShape, err)
	}
	var extractor []int
	if err := json.Unmarshal(fields["extractor"], &extractor); err != nil {
		return newError("Params.UnmarshalJSON", KindInputShape, fmt.Errorf("extractor: %w", err))
	}
	var saltHex string
	if err := json.Unmarshal(fields["salt"], &saltHex); err != nil {
		return newError("Params.UnmarshalJSON", KindInputShape, fmt.Errorf("salt: %w", err))
	}
	salt, err := decodeHex(saltHex)
	if err != nil {
		return newError("Params.UnmarshalJSON", KindInputShape, fmt.Errorf("salt: %w", err))
	}

	p.SetSize = setSize
	p.CorrectThreshold = correctThreshold
	p.CorpusSize = corpusSize
	p.Prime = prime
	p.Extractor = extractor
	p.Salt = salt
	return nil
}

// --- Secret ---

type secretWire struct {
	paramsWire
	Sketch []int  `json:"sketch"`
	Hash   string `json:"hash"`
}

func (s Secret) MarshalJSON() ([]byte, error) {
	w := secretWire{
		paramsWire: paramsWire{
			SetSize:          &s.SetSize,
			CorrectThreshold: &s.CorrectThreshold,
			CorpusSize:       &s.CorpusSize,
			Prime:            &s.Prime,
			Extractor:        s.Extractor,
			Salt:             encodeHex(s.Salt),
		},
		Sketch: s.Sketch,
		Hash:   encodeHex(s.Hash),
	}
	return json.Marshal(w)
}

// UnmarshalJSON is stricter than the scheme it descends from: the original
// C++ parser for secret_t silently tolerated unknown and missing fields,
// inconsistent with its own input_t/params_t parsers. This rewrite applies
// the same strict-object rule everywhere.
func (s *Secret) UnmarshalJSON(data []byte) error {
	fields, err := decodeStrictObject(data, map[string]bool{
		"setSize": true, "correctThreshold": true, "corpusSize": true,
		"prime": true, "extractor": true, "salt": true,
		"sketch": true, "hash": true,
	})
	if err != nil {
		return newError("Secret.UnmarshalJSON", KindInputShape, err)
	}
	if err := s.Params.fillFrom(fields); err != nil {
		return err
	}
	var sketch []int
	if err := json.Unmarshal(fields["sketch"], &sketch); err != nil {
		return newError("Secret.UnmarshalJSON", KindInputShape, fmt.Errorf("sketch: %w", err))
	}
	var hashHex string
	if err := json.Unmarshal(fields["hash"], &hashHex); err != nil {
		return newError("Secret.UnmarshalJSON", KindInputShape, fmt.Errorf("hash: %w", err))
	}
	hash, err := decodeHex(hashHex)
	if err != nil {
		return newError("Secret.UnmarshalJSON", KindInputShape, fmt.Errorf("hash: %w", err))
	}
	s.Sketch = sketch
	s.Hash = hash
	return nil
}

// --- shared wire helpers ---

// decodeStrictObject parses data as a JSON object, rejecting duplicate
// keys, any key not named in allowed, and non-object top-level values, then
// verifies every key marked required is present. encoding/json's own
// map-of-RawMessage decoding silently lets a later duplicate key win, so
// duplicates are caught here with a raw token scan first.
func decodeStrictObject(data []byte, allowed map[string]bool) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("malformed JSON object: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}

	fields := make(map[string]json.RawMessage)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("malformed JSON object: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("malformed JSON object: non-string key")
		}
		if _, dup := fields[key]; dup {
			return nil, fmt.Errorf("duplicate field %q", key)
		}
		if _, ok := allowed[key]; !ok {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("malformed JSON object: %w", err)
	}

	for key, required := range allowed {
		if !required {
			continue
		}
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("missing required field %q", key)
		}
	}
	return fields, nil
}

func requireInt(fields map[string]json.RawMessage, key string) (int, error) {
	var v int
	if err := json.Unmarshal(fields[key], &v); err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func encodeHex(b []byte) string {
	return fmt.Sprintf("%X", b)
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex string %q", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed hex string %q: %w", s, err)
	}
	return b, nil
}
