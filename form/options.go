package form

import (
	"go.uber.org/zap"

	"github.com/boilerrat/grant-attestoor/canonical"
	"github.com/boilerrat/grant-attestoor/compliance"
	"github.com/boilerrat/grant-attestoor/fingerprint"
)

// Options controls how a document is judged and fingerprinted.
//
// The zero value selects Keccak-256 over canonical JSON under Permissive
// compliance, with logging disabled.
type Options struct {
	Algorithm fingerprint.Algorithm
	Encoding  canonical.Encoding
	Mode      compliance.Mode
	Logger    *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Algorithm == "" {
		o.Algorithm = fingerprint.Default
	}
	if o.Encoding == "" {
		o.Encoding = canonical.JSON
	}
	// compliance.Permissive is the zero value.
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
