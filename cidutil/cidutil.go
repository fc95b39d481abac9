// Package cidutil converts between fingerprint digests and CIDv1 strings.
package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CIDv1Raw returns a CIDv1 using the "raw" multicodec and a multihash that
// wraps digest under code. digest must already be the output of the hash
// function code names; it is not recomputed.
func CIDv1Raw(code uint64, digest []byte) (cid.Cid, error) {
	mh, err := multihash.Encode(digest, code)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// Digest parses a CIDv1 raw string and returns its multihash code and digest.
func Digest(s string) (uint64, []byte, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return 0, nil, err
	}
	if c.Version() != 1 || c.Type() != cid.Raw {
		return 0, nil, fmt.Errorf("cid %s is not a CIDv1 raw identifier", s)
	}
	dm, err := multihash.Decode(c.Hash())
	if err != nil {
		return 0, nil, err
	}
	return dm.Code, dm.Digest, nil
}
