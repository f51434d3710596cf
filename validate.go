package minischema

import (
	"math"
	"reflect"
	"strconv"
	"unicode/utf8"
)

// Validate reports whether instance conforms to s.
//
// The schema is re-checked first; a malformed schema returns (false, *SchemaError).
// A well-formed schema never produces an error: non-conformance is (false, nil).
// Arrays are checked element by element against Items, not only by length.
func Validate(s Schema, instance any, opts ...Option) (bool, error) {
	err := Explain(s, instance, opts...)
	if err == nil {
		return true, nil
	}
	if IsMismatch(err) {
		return false, nil
	}
	return false, err
}

// ValidateRaw parses raw (see Parse) and validates instance against it.
func ValidateRaw(raw, instance any, opts ...Option) (bool, error) {
	s, err := Parse(raw, opts...)
	if err != nil {
		return false, err
	}
	return Validate(s, instance, opts...)
}

// Explain is Validate with a reason: it returns nil when instance conforms,
// a *MismatchError locating the first non-conforming value otherwise, or a
// *SchemaError when s is malformed.
func Explain(s Schema, instance any, opts ...Option) error {
	if err := Check(s, opts...); err != nil {
		return err
	}
	return conform(s, instance, "")
}

// conform walks a checked schema. Recursion depth equals array nesting, which
// Check has already bounded.
func conform(s Schema, v any, path string) error {
	switch s := normalize(s).(type) {
	case Null:
		if v != nil {
			return mismatchf(path, "expected null, got %T", v)
		}
	case Bool:
		if _, ok := v.(bool); !ok {
			return mismatchf(path, "expected bool, got %T", v)
		}
	case Number:
		return conformNumber(s, v, path)
	case String:
		str, ok := v.(string)
		if !ok {
			return mismatchf(path, "expected string, got %T", v)
		}
		return conformLength(path, "string", utf8.RuneCountInString(str), s.MinLength, s.MaxLength)
	case Array:
		return conformArray(s, v, path)
	}
	return nil
}

func conformNumber(s Number, v any, path string) error {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	default:
		return mismatchf(path, "expected number, got %T", v)
	}
	if math.IsNaN(f) {
		return mismatchf(path, "NaN is not comparable to bounds")
	}
	if s.Minimum != nil && f < *s.Minimum {
		return mismatchf(path, "value %v is less than minimum %v", f, *s.Minimum)
	}
	if s.Maximum != nil && f > *s.Maximum {
		return mismatchf(path, "value %v is greater than maximum %v", f, *s.Maximum)
	}
	return nil
}

func conformArray(s Array, v any, path string) error {
	if items, ok := v.([]any); ok {
		if err := conformLength(path, "array", len(items), s.MinLength, s.MaxLength); err != nil {
			return err
		}
		for i, item := range items {
			if err := conform(s.Items, item, path+"/"+strconv.Itoa(i)); err != nil {
				return err
			}
		}
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return mismatchf(path, "expected array, got %T", v)
	}
	if err := conformLength(path, "array", rv.Len(), s.MinLength, s.MaxLength); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := conform(s.Items, rv.Index(i).Interface(), path+"/"+strconv.Itoa(i)); err != nil {
			return err
		}
	}
	return nil
}

func conformLength(path, what string, n int, minLength, maxLength *int) error {
	if minLength != nil && n < *minLength {
		return mismatchf(path, "%s length %d is less than minimum %d", what, n, *minLength)
	}
	if maxLength != nil && n > *maxLength {
		return mismatchf(path, "%s length %d is greater than maximum %d", what, n, *maxLength)
	}
	return nil
}
