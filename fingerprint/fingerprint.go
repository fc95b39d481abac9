// Package fingerprint computes the fixed-size digest of canonical document
// bytes.
//
// The default algorithm is Keccak-256 as used by Ethereum (the original
// Keccak padding, not FIPS-202 SHA3-256), so the 32-byte result can be
// stored as an EVM bytes32 and recomputed onchain with keccak256.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/sha3"

	"github.com/boilerrat/grant-attestoor/application"
	"github.com/boilerrat/grant-attestoor/cidutil"
)

// Size is the digest length in bytes for every supported algorithm.
const Size = 32

// Algorithm names a hash function.
type Algorithm string

const (
	AlgKeccak256 Algorithm = "keccak256"
	AlgSHA3_256  Algorithm = "sha3-256"
	AlgSHA256    Algorithm = "sha256"
)

// Default is the algorithm used when none is configured.
const Default = AlgKeccak256

// Algorithms returns the supported algorithms, default first.
func Algorithms() []Algorithm {
	return []Algorithm{AlgKeccak256, AlgSHA3_256, AlgSHA256}
}

// ParseAlgorithm parses an algorithm name. The empty string selects Default.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return Default, nil
	case AlgKeccak256, AlgSHA3_256, AlgSHA256:
		return a, nil
	case "keccak-256":
		return AlgKeccak256, nil
	}
	return "", fmt.Errorf("unknown hash algorithm %q (want keccak256, sha3-256 or sha256)", s)
}

// multihashCode returns the multicodec table code for alg.
func (a Algorithm) multihashCode() (uint64, bool) {
	switch a {
	case AlgKeccak256:
		return multihash.KECCAK_256, true
	case AlgSHA3_256:
		return multihash.SHA3_256, true
	case AlgSHA256:
		return multihash.SHA2_256, true
	}
	return 0, false
}

// ErrMismatch reports a recomputed fingerprint that differs from the
// expected one.
var ErrMismatch = errors.New("fingerprint mismatch")

// Fingerprint is a digest together with the algorithm that produced it.
// The zero value is not a valid fingerprint.
type Fingerprint struct {
	alg    Algorithm
	digest [Size]byte
}

// Sum hashes canonical with alg.
func Sum(alg Algorithm, canonical []byte) (Fingerprint, error) {
	d, err := digestFor(alg, canonical)
	if err != nil {
		return Fingerprint{}, err
	}
	return Fingerprint{alg: alg, digest: d}, nil
}

// Keccak256 hashes canonical with Keccak-256.
func Keccak256(canonical []byte) Fingerprint {
	var out Fingerprint
	out.alg = AlgKeccak256
	h := sha3.NewLegacyKeccak256()
	h.Write(canonical)
	h.Sum(out.digest[:0])
	return out
}

func digestFor(alg Algorithm, message []byte) ([Size]byte, error) {
	switch alg {
	case AlgKeccak256:
		return Keccak256(message).digest, nil
	case AlgSHA3_256:
		return sha3.Sum256(message), nil
	case AlgSHA256:
		return sha256.Sum256(message), nil
	default:
		return [Size]byte{}, application.NewError(application.KindInternal, "GRANT-HASH-201", fmt.Sprintf("unsupported hash algorithm %q", alg))
	}
}

// FromDigest wraps an existing digest.
func FromDigest(alg Algorithm, digest []byte) (Fingerprint, error) {
	if _, ok := alg.multihashCode(); !ok {
		return Fingerprint{}, fmt.Errorf("unknown hash algorithm %q", alg)
	}
	if len(digest) != Size {
		return Fingerprint{}, fmt.Errorf("%s digest must be %d bytes, got %d", alg, Size, len(digest))
	}
	out := Fingerprint{alg: alg}
	copy(out.digest[:], digest)
	return out, nil
}

// Parse parses the hex form of a digest produced by alg. An optional 0x
// prefix is accepted; hex digits may be of either case.
func Parse(alg Algorithm, text string) (Fingerprint, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s) != 2*Size {
		return Fingerprint{}, fmt.Errorf("fingerprint must be %d hex digits, got %d", 2*Size, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint: %w", err)
	}
	return FromDigest(alg, b)
}

// ParseCID parses a CIDv1 raw identifier produced by Fingerprint.CID.
func ParseCID(s string) (Fingerprint, error) {
	code, digest, err := cidutil.Digest(strings.TrimSpace(s))
	if err != nil {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint CID: %w", err)
	}
	for _, alg := range Algorithms() {
		if c, _ := alg.multihashCode(); c == code {
			return FromDigest(alg, digest)
		}
	}
	return Fingerprint{}, fmt.Errorf("CID %s uses unsupported multihash code %#x", s, code)
}

// Algorithm returns the algorithm that produced f.
func (f Fingerprint) Algorithm() Algorithm { return f.alg }

// IsZero reports whether f is the zero value.
func (f Fingerprint) IsZero() bool { return f.alg == "" }

// Bytes returns a copy of the digest.
func (f Fingerprint) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, f.digest[:])
	return out
}

// Hex returns the digest as lowercase hex without a prefix.
func (f Fingerprint) Hex() string { return hex.EncodeToString(f.digest[:]) }

// String returns the 0x-prefixed hex form used for EVM bytes32 values.
func (f Fingerprint) String() string { return "0x" + f.Hex() }

// Equal reports whether f and o are the same digest from the same algorithm.
func (f Fingerprint) Equal(o Fingerprint) bool {
	return f.alg == o.alg && f.digest == o.digest
}

// CID returns the CIDv1 "raw" identifier whose multihash carries f.
func (f Fingerprint) CID() (string, error) {
	code, ok := f.alg.multihashCode()
	if !ok {
		return "", fmt.Errorf("fingerprint has no algorithm")
	}
	c, err := cidutil.CIDv1Raw(code, f.digest[:])
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// Verify recomputes the fingerprint of canonical with want's algorithm and
// returns an error wrapping ErrMismatch when it differs.
func Verify(canonical []byte, want Fingerprint) error {
	got, err := Sum(want.alg, canonical)
	if err != nil {
		return err
	}
	if !got.Equal(want) {
		return fmt.Errorf("%w: got %s, want %s", ErrMismatch, got, want)
	}
	return nil
}
