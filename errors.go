package minischema

import (
	"errors"
	"fmt"
)

// Sentinel errors for minischema. Use errors.Is to check.
var (
	ErrInvalidSchema  = errors.New("invalid schema")
	ErrTooDeep        = errors.New("schema nesting too deep")
	ErrMismatch       = errors.New("instance does not match schema")
	ErrUnsupported    = errors.New("unsupported schema construct")
	ErrSchemaNotFound = errors.New("schema not found")
)

// SchemaError reports a malformed schema. It signals a mistake by whoever built
// the schema, not a failed validation.
// Path locates the offending node, e.g. "/items_schema/items_schema"; the root is "".
// Err wraps a sentinel (ErrInvalidSchema, ErrTooDeep or ErrUnsupported) for errors.Is.
type SchemaError struct {
	Path   string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid schema: %s", e.Reason)
	}
	return fmt.Sprintf("invalid schema at %s: %s", e.Path, e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains (e.g. errors.Is(err, ErrTooDeep)).
func (e *SchemaError) Unwrap() error { return e.Err }

// MismatchError describes the first place where an instance fails to conform.
// Path is an instance path such as "/2/0"; the root is "".
type MismatchError struct {
	Path   string
	Reason string
}

func (e *MismatchError) Error() string {
	if e.Path == "" {
		return "instance mismatch: " + e.Reason
	}
	return fmt.Sprintf("instance mismatch at %s: %s", e.Path, e.Reason)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// IsSchemaError returns true if err is or wraps a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// IsMismatch returns true if err is or wraps a MismatchError.
func IsMismatch(err error) bool {
	var me *MismatchError
	return errors.As(err, &me)
}

func invalidf(path, format string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...), Err: ErrInvalidSchema}
}

func mismatchf(path, format string, args ...any) *MismatchError {
	return &MismatchError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// wrapJSONParseError returns a MismatchError for JSON unmarshal failures so
// Decoder callers see one error shape for bad input.
func wrapJSONParseError(err error) error {
	return &MismatchError{Reason: "json parse error: " + err.Error()}
}
