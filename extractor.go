package minischema

import (
	"encoding/json"
	"reflect"
)

// Extractor decodes JSON into a Go type T whose schema is inferred from T
// (see Infer). Decoding runs two layers: the instance must conform to the
// inferred schema, then T's own Validate method runs if it has one.
type Extractor[T any] struct {
	decoder *Decoder
}

// NewExtractor infers the schema of T and checks it. Types with no schema
// counterpart (integers, structs, maps) fail with ErrUnsupported.
func NewExtractor[T any](opts ...Option) (*Extractor[T], error) {
	s, err := Infer[T](opts...)
	if err != nil {
		return nil, err
	}
	dec, err := NewDecoder(s, opts...)
	if err != nil {
		return nil, err
	}
	return &Extractor[T]{decoder: dec}, nil
}

// Schema returns the inferred schema.
func (e *Extractor[T]) Schema() Schema { return e.decoder.Schema() }

// ParseAndValidate decodes data into T. Schema mismatches and invalid JSON
// return a *MismatchError; an error from T's Validate is returned as a
// *MismatchError at the root unless it already is one.
func (e *Extractor[T]) ParseAndValidate(data []byte) (T, error) {
	var zero T
	if _, err := e.decoder.Decode(data); err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, wrapJSONParseError(err)
	}
	if err := runCustomValidation(v); err != nil {
		if IsMismatch(err) {
			return zero, err
		}
		return zero, &MismatchError{Reason: err.Error()}
	}
	return v, nil
}

// runCustomValidation calls Validatable.Validate on v, or on &v when only the
// pointer implements it. Validate runs at most once.
func runCustomValidation[T any](v T) error {
	if err := validateCustom(any(v)); err != nil {
		return err
	}
	if _, ok := any(v).(Validatable); ok {
		return nil
	}
	typ := reflect.TypeOf(v)
	if typ == nil || typ.Kind() == reflect.Pointer {
		return nil
	}
	return validateCustom(any(&v))
}
