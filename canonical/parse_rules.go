package canonical

import (
	"bytes"
	"unicode/utf8"

	"github.com/boilerrat/grant-attestoor/application"
)

type parseRule struct {
	id    string
	apply func([]byte) error
}

func applyParseRules(input []byte, rules []parseRule) error {
	for _, r := range rules {
		if r.apply == nil {
			return application.NewError(application.KindInternal, "GRANT-CANON-010", "nil parse rule "+r.id)
		}
		if err := r.apply(input); err != nil {
			return err
		}
	}
	return nil
}

// parseRules are the byte-level checks run before decoding. Canonical JSON
// never carries a raw CR: control characters inside strings are escaped and
// there is no whitespace between tokens.
func parseRules() []parseRule {
	return []parseRule{
		{
			id: "GRANT-CANON-001",
			apply: func(b []byte) error {
				if !utf8.Valid(b) {
					return application.NewError(application.KindCanonical, "GRANT-CANON-001", "canonical bytes must be valid UTF-8")
				}
				return nil
			},
		},
		{
			id: "GRANT-CANON-002",
			apply: func(b []byte) error {
				if bytes.HasPrefix(b, utf8BOM) {
					return application.NewError(application.KindCanonical, "GRANT-CANON-002", "BOM not allowed")
				}
				return nil
			},
		},
		{
			id: "GRANT-CANON-003",
			apply: func(b []byte) error {
				if len(b) > 0 && b[len(b)-1] == '\n' {
					return application.NewError(application.KindCanonical, "GRANT-CANON-003", "trailing newline not allowed")
				}
				return nil
			},
		},
		{
			id: "GRANT-CANON-005",
			apply: func(b []byte) error {
				if bytes.IndexByte(b, '\r') >= 0 {
					return application.NewError(application.KindCanonical, "GRANT-CANON-005", "raw CR not allowed")
				}
				return nil
			},
		},
	}
}
