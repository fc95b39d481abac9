package application

import (
	"errors"
	"fmt"
)

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindInvalidField reports a mutation that named an unknown field or
	// supplied a value of the wrong type for it. It indicates a defect in the
	// caller, not bad user input.
	KindInvalidField Kind = "InvalidField"
	// KindIndexOutOfRange reports a group operation on a nonexistent record.
	KindIndexOutOfRange Kind = "IndexOutOfRange"
	// KindInvalidDocument reports an imported document that does not have the
	// application document shape.
	KindInvalidDocument Kind = "InvalidDocument"
	// KindCanonical reports bytes that are not the canonical serialization.
	KindCanonical Kind = "Canonical"
	KindInternal  Kind = "Internal"
)

// Error is the structured error type shared by the document packages.
//
// RuleID is a stable identifier (e.g. GRANT-FIELD-001) naming the violated
// invariant. Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError returns a structured error without a cause.
func NewError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// WrapError returns a structured error wrapping cause.
func WrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// InvalidField reports an unknown field name.
func InvalidField(field string) error {
	return NewError(KindInvalidField, "GRANT-FIELD-001", fmt.Sprintf("unknown field %q", field))
}

// InvalidFieldValue reports a value whose type does not match the field.
func InvalidFieldValue(field string, value any) error {
	return NewError(KindInvalidField, "GRANT-FIELD-002", fmt.Sprintf("field %q does not accept a %T value", field, value))
}

// IndexOutOfRange reports an index outside [0, length).
func IndexOutOfRange(index, length int) error {
	return NewError(KindIndexOutOfRange, "GRANT-INDEX-001", fmt.Sprintf("index %d out of range [0, %d)", index, length))
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
