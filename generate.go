package minischema

import (
	"fmt"
	"math"

	"pgregory.net/rapid"
)

// FromSchema returns a rapid generator of instances that conform to s.
//
// The schema is checked first. All randomness comes from the *rapid.T that
// draws from the generator, so failing cases shrink and replay from rapid's
// seed. Every value drawn satisfies Validate(s, value).
//
// Instances use the same Go shapes the validator accepts: nil, bool, float64,
// string and []any.
func FromSchema(s Schema, opts ...Option) (*rapid.Generator[any], error) {
	if err := Check(s, opts...); err != nil {
		return nil, err
	}
	return build(s), nil
}

// MustFromSchema is like FromSchema but panics on a malformed schema.
// Intended for test fixtures.
func MustFromSchema(s Schema, opts ...Option) *rapid.Generator[any] {
	g, err := FromSchema(s, opts...)
	if err != nil {
		panic(fmt.Sprintf("minischema: MustFromSchema: %v", err))
	}
	return g
}

// build assembles the generator tree for a checked schema, one level per
// array, so recursion is bounded by the checked depth.
func build(s Schema) *rapid.Generator[any] {
	switch s := normalize(s).(type) {
	case Null:
		return rapid.Just[any](nil)
	case Bool:
		return box(rapid.Bool())
	case Number:
		return box(numbers(s))
	case String:
		minRunes, maxRunes := lengthRange(s.MinLength, s.MaxLength)
		return box(rapid.StringN(minRunes, maxRunes, -1))
	case Array:
		minItems, maxItems := lengthRange(s.MinLength, s.MaxLength)
		return box(rapid.SliceOfN(build(s.Items), minItems, maxItems))
	}
	panic(fmt.Sprintf("minischema: build on unchecked schema %T", s))
}

// numbers never yields NaN. A one-sided bound keeps its open side infinite, so
// Minimum +Inf and Maximum -Inf each collapse to that single infinity.
func numbers(s Number) *rapid.Generator[float64] {
	switch {
	case s.Minimum != nil && s.Maximum != nil:
		return rapid.Float64Range(*s.Minimum, *s.Maximum)
	case s.Minimum != nil:
		return rapid.Float64Range(*s.Minimum, math.Inf(1))
	case s.Maximum != nil:
		return rapid.Float64Range(math.Inf(-1), *s.Maximum)
	}
	return rapid.Float64()
}

// lengthRange maps optional bounds to rapid's (min, max) where max -1 is unbounded.
func lengthRange(minLength, maxLength *int) (int, int) {
	lo, hi := 0, -1
	if minLength != nil {
		lo = *minLength
	}
	if maxLength != nil {
		hi = *maxLength
	}
	return lo, hi
}

func box[V any](g *rapid.Generator[V]) *rapid.Generator[any] {
	return rapid.Map(g, func(v V) any { return v })
}
