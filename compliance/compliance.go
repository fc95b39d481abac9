// Package compliance selects how strictly an application is judged before
// it may be submitted.
package compliance

import "fmt"

// Mode is the submission gate strictness.
//
// Permissive gates only on required fields and acceptance flags; advisory
// findings (word ceilings, unknown grant type, malformed amount) are
// reported but never block. Strict promotes advisory findings to errors.
type Mode int

const (
	Permissive Mode = iota
	Strict
)

func (m Mode) String() string {
	switch m {
	case Permissive:
		return "permissive"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Parse maps "permissive" / "strict" to a Mode. The empty string is
// Permissive.
func Parse(s string) (Mode, error) {
	switch s {
	case "", "permissive":
		return Permissive, nil
	case "strict":
		return Strict, nil
	default:
		return Permissive, fmt.Errorf("unknown compliance mode %q (want permissive|strict)", s)
	}
}
