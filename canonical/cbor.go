package canonical

import (
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// cborMode is the RFC 8949 core deterministic encoding mode: shortest-form
// integers and lengths, map keys sorted by their encoded bytes, no
// indefinite-length items.
var cborMode = sync.OnceValues(func() (cbor.EncMode, error) {
	return cbor.CoreDetEncOptions().EncMode()
})
