package minischema

import "encoding/json"

// Kind is a schema type tag.
type Kind string

// The five recognised type tags. No others are permitted.
const (
	KindNull   Kind = "null"
	KindBool   Kind = "bool"
	KindNumber Kind = "number"
	KindString Kind = "string"
	KindArray  Kind = "array"
)

// Kinds lists every recognised tag in declaration order.
var Kinds = []Kind{KindNull, KindBool, KindNumber, KindString, KindArray}

// Valid reports whether k is one of the recognised tags.
func (k Kind) Valid() bool {
	switch k {
	case KindNull, KindBool, KindNumber, KindString, KindArray:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Raw form keys.
const (
	keyType      = "type"
	keyMinimum   = "minimum"
	keyMaximum   = "maximum"
	keyMinLength = "minLength"
	keyMaxLength = "maxLength"
	keyItems     = "items_schema"
)

// Schema is a tagged union over Null, Bool, Number, String and Array.
// Each variant carries only the fields legal for its tag. Values are immutable
// once built; Check (run by Validate and FromSchema on every call) enforces the
// ordering and nesting invariants.
type Schema interface {
	Kind() Kind
	isSchema()
}

// Null matches only the null instance.
type Null struct{}

// Bool matches true and false.
type Bool struct{}

// Number matches float64/float32 values in [Minimum, Maximum]. A nil bound is open.
type Number struct {
	Minimum *float64
	Maximum *float64
}

// String matches strings whose length in Unicode code points is within
// [MinLength, MaxLength]. A nil bound is open.
type String struct {
	MinLength *int
	MaxLength *int
}

// Array matches sequences whose length is within [MinLength, MaxLength] and
// whose every element matches Items. Items is required.
type Array struct {
	MinLength *int
	MaxLength *int
	Items     Schema
}

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }

func (Null) isSchema()   {}
func (Bool) isSchema()   {}
func (Number) isSchema() {}
func (String) isSchema() {}
func (Array) isSchema()  {}

// MarshalJSON encodes the schema in its raw form ({"type": ..., ...}).
func (s Null) MarshalJSON() ([]byte, error)   { return marshalSchema(s) }
func (s Bool) MarshalJSON() ([]byte, error)   { return marshalSchema(s) }
func (s Number) MarshalJSON() ([]byte, error) { return marshalSchema(s) }
func (s String) MarshalJSON() ([]byte, error) { return marshalSchema(s) }
func (s Array) MarshalJSON() ([]byte, error)  { return marshalSchema(s) }

func marshalSchema(s Schema) ([]byte, error) {
	m, err := ToMap(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// Ptr returns a pointer to v. Handy for optional bounds:
//
//	minischema.Number{Minimum: minischema.Ptr(0.0)}
func Ptr[T any](v T) *T { return &v }

// NumberBetween returns a Number bounded on both sides.
func NumberBetween(minimum, maximum float64) Number {
	return Number{Minimum: &minimum, Maximum: &maximum}
}

// ArrayOf returns an Array of items with open length bounds.
func ArrayOf(items Schema) Array {
	return Array{Items: items}
}

// normalize turns pointer variants into values so callers can switch on value
// types only. A nil pointer becomes a nil Schema.
func normalize(s Schema) Schema {
	switch v := s.(type) {
	case *Null:
		if v != nil {
			return *v
		}
		return nil
	case *Bool:
		if v != nil {
			return *v
		}
		return nil
	case *Number:
		if v != nil {
			return *v
		}
		return nil
	case *String:
		if v != nil {
			return *v
		}
		return nil
	case *Array:
		if v != nil {
			return *v
		}
		return nil
	}
	return s
}

var (
	_ Schema         = Null{}
	_ Schema         = Bool{}
	_ Schema         = Number{}
	_ Schema         = String{}
	_ Schema         = Array{}
	_ json.Marshaler = Array{}
)
