package kanon

import (
	"errors"
	"fmt"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeUnknownKey     = "unknown_key"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeTooShort       = "too_short"
	CodeTooLong        = "too_long"
	CodePattern        = "pattern"
	CodeInvalidFormat  = "invalid_format"
	CodeInvalidEnum    = "invalid_enum"
	CodeInvalidLiteral = "invalid_literal"
	CodeInvalidUnion   = "invalid_union"
	CodeInvalidLength  = "invalid_length"
	CodeNotInteger     = "not_integer"
	CodeNotFinite      = "not_finite"
	CodeNotMultipleOf  = "not_multiple_of"
	CodeCoercion       = "coercion_failed"
	CodeCustom         = "custom"
	CodeParseError     = "parse_error"
	CodeCanceled       = "canceled"
	CodeDuplicateKey   = "duplicate_key"
)

// Issue describes a single validation failure.
type Issue struct {
	Path    string `json:"path"`    // JSON Pointer to the failing value ("/" for the root).
	Code    string `json:"code"`    // One of the codes listed above.
	Message string `json:"message"` // Human readable, prefixed with the key path ("a: 2: ...").
}

// Error is returned by Parse and its variants when validation fails. Its
// message is exactly the failure string SafeParse reports.
type Error struct {
	Issue Issue
}

func (e *Error) Error() string { return e.Issue.Message }

// AsError extracts *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ErrNilSchema is reported by the front-ends when called with a nil schema.
var ErrNilSchema = errors.New("kanon: nil schema")

func decodeError(err error) error { return fmt.Errorf("kanon: decode json: %w", err) }
