package model

import (
	"errors"
	"fmt"

	"github.com/boilerrat/grant-attestoor/application"
	"github.com/boilerrat/grant-attestoor/fingerprint"
)

type ErrorCode string

const (
	ErrInvalidField        ErrorCode = "INVALID_FIELD"
	ErrIndexOutOfRange     ErrorCode = "INDEX_OUT_OF_RANGE"
	ErrInvalidDocument     ErrorCode = "INVALID_DOCUMENT"
	ErrNotSubmittable      ErrorCode = "NOT_SUBMITTABLE"
	ErrFingerprintMismatch ErrorCode = "FINGERPRINT_MISMATCH"
	ErrInternal            ErrorCode = "INTERNAL"
)

// CodedError is a stable error with a machine-readable code and a human message.
type CodedError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

// FromError maps err onto the boundary error codes. It returns nil for a nil
// error and passes a *CodedError through unchanged.
func FromError(err error) *CodedError {
	if err == nil {
		return nil
	}
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce
	}
	if errors.Is(err, fingerprint.ErrMismatch) {
		return NewError(ErrFingerprintMismatch, err.Error())
	}
	var ae *application.Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case application.KindInvalidField:
			return NewError(ErrInvalidField, err.Error())
		case application.KindIndexOutOfRange:
			return NewError(ErrIndexOutOfRange, err.Error())
		case application.KindInvalidDocument, application.KindCanonical:
			return NewError(ErrInvalidDocument, err.Error())
		}
	}
	return NewError(ErrInternal, err.Error())
}
