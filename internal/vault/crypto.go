package vault

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
	"golang.org/x/crypto/sha3"
)

// scryptN, scryptR, scryptP are the fixed scrypt cost parameters every
// H_hash / H_ek invocation uses.
const (
	scryptN = 1024
	scryptR = 8
	scryptP = 16

	saltSize = 32
)

// randSource supplies cryptographically random bytes. Tests substitute a
// deterministic stream; production code uses prngReader.
type randSource interface {
	io.Reader
}

// prngReader is the default random source: the OS CSPRNG.
var prngReader randSource = rand.Reader

// newByteStreamSource wraps a caller-supplied byte buffer as a randSource,
// consuming it sequentially. GenParams uses this when Input carries
// explicit randomBytes, so that the same bytes always produce the same
// Params (testable property S5).
func newByteStreamSource(b []byte) randSource {
	return &byteStreamSource{buf: b}
}

type byteStreamSource struct {
	buf []byte
	pos int
}

func (s *byteStreamSource) Read(p []byte) (int, error) {
	n := copy(p, s.buf[s.pos:])
	s.pos += n
	if n < len(p) {
		return n, fmt.Errorf("vault: random byte stream exhausted after %d bytes", s.pos)
	}
	return n, nil
}

func randomBytes(src randSource, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(src, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// pushbackInt appends the little-endian 4-byte encoding of n to buf. The
// original implementation appended the raw machine bytes of a C int, which
// is not a portable choice; this commits to little-endian, 4 bytes, as part
// of the wire protocol -- it feeds directly into scrypt/HMAC passes and
// therefore into the persisted Secret.
func pushbackInt(buf []byte, n int) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(n))
	return append(buf, tmp[:]...)
}

// scryptHash runs the fixed-cost scrypt used throughout the protocol,
// producing a 64-byte digest.
func scryptHash(pass, salt []byte) ([]byte, error) {
	return scrypt.Key(pass, salt, scryptN, scryptR, scryptP, 64)
}

// hmacSHA3_512 computes HMAC-SHA3-512 keyed with key over data. genKeys
// derives key_i = HMAC_SHA3_512(i_bytes, ek): the 4-byte index is the HMAC
// key and the extractor-derived key ek is the message.
func hmacSHA3_512(key, data []byte) []byte {
	mac := hmac.New(sha3.New512, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// randSelect implements the Fisher-Yates prefix variant of §4.5.4: maintain
// X = [0..n), and for i in [0,m) draw k uniformly from [0, n-i), output
// X[k+i], then swap X[k+i] with X[i]. Random integers are drawn 4 bytes at
// a time and masked non-negative, so k = r mod (n-i) carries the documented
// modulo bias -- accepted because p <= 32768 is far smaller than 2^31 and
// the scheme tolerates it. This implements a literal two-element swap as
// the prose in §4.5.4 describes, rather than the single-assignment variant
// the original C++ uses; both produce a uniform sample without replacement
// for this access pattern, and the spec's words describe a swap.
func randSelect(src randSource, n, m int) ([]int, error) {
	x := make([]int, n)
	for i := range x {
		x[i] = i
	}
	out := make([]int, m)
	for i := 0; i < m; i++ {
		raw, err := randomBytes(src, 4)
		if err != nil {
			return nil, err
		}
		r := int(binary.LittleEndian.Uint32(raw) & 0x7fffffff)
		k := r % (n - i)
		out[i] = x[k+i]
		x[k+i], x[i] = x[i], x[k+i]
	}
	return out, nil
}
