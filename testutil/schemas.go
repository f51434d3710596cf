// Package testutil provides test helpers for minischema: a rapid generator of
// well-formed schemas and a registry builder.
package testutil

import (
	"math"

	"pgregory.net/rapid"

	"github.com/skosovsky/minischema"
)

// MaxDrawnLength caps the length bounds Schemas draws so generated instances
// stay small enough for fast property tests.
const MaxDrawnLength = 16

// kindWeights repeats the scalar tags so arrays, which multiply instance size,
// are drawn less often (3:3:3:3:1).
var kindWeights = []minischema.Kind{
	minischema.KindNull, minischema.KindNull, minischema.KindNull,
	minischema.KindBool, minischema.KindBool, minischema.KindBool,
	minischema.KindNumber, minischema.KindNumber, minischema.KindNumber,
	minischema.KindString, minischema.KindString, minischema.KindString,
	minischema.KindArray,
}

// Schemas returns a generator of well-formed schemas nesting at most maxDepth
// array levels. Every optional bound sits behind its own rapid.Bool draw, so a
// failing schema shrinks towards fewer constraints. About one numeric bound in
// ten is infinite, including the degenerate Minimum +Inf and Maximum -Inf.
func Schemas(maxDepth int) *rapid.Generator[minischema.Schema] {
	return rapid.Custom(func(t *rapid.T) minischema.Schema {
		return drawSchema(t, maxDepth, true)
	})
}

// FiniteSchemas is Schemas without infinite bounds, for properties that go
// through JSON, which cannot spell an infinity.
func FiniteSchemas(maxDepth int) *rapid.Generator[minischema.Schema] {
	return rapid.Custom(func(t *rapid.T) minischema.Schema {
		return drawSchema(t, maxDepth, false)
	})
}

func drawSchema(t *rapid.T, depthLeft int, infinite bool) minischema.Schema {
	kinds := kindWeights
	if depthLeft <= 0 {
		kinds = kindWeights[:len(kindWeights)-1]
	}
	switch rapid.SampledFrom(kinds).Draw(t, "type") {
	case minischema.KindNull:
		return minischema.Null{}
	case minischema.KindBool:
		return minischema.Bool{}
	case minischema.KindNumber:
		return drawNumber(t, infinite)
	case minischema.KindString:
		minLength, maxLength := drawLengths(t)
		return minischema.String{MinLength: minLength, MaxLength: maxLength}
	default:
		minLength, maxLength := drawLengths(t)
		return minischema.Array{
			MinLength: minLength,
			MaxLength: maxLength,
			Items:     drawSchema(t, depthLeft-1, infinite),
		}
	}
}

func drawNumber(t *rapid.T, infinite bool) minischema.Number {
	var s minischema.Number
	lo := math.Inf(-1)
	if rapid.Bool().Draw(t, "has minimum") {
		if infinite && rareInfinity(t, "infinite minimum") {
			lo = math.Inf(-1)
			if rapid.Bool().Draw(t, "minimum sign") {
				lo = math.Inf(1)
			}
		} else {
			lo = rapid.Float64Range(-math.MaxFloat64, math.MaxFloat64).Draw(t, "minimum")
		}
		s.Minimum = &lo
	}
	if rapid.Bool().Draw(t, "has maximum") {
		var hi float64
		switch {
		case math.IsInf(lo, 1):
			hi = lo
		case infinite && rareInfinity(t, "infinite maximum"):
			hi = math.Inf(1)
			if math.IsInf(lo, -1) && rapid.Bool().Draw(t, "maximum sign") {
				hi = math.Inf(-1)
			}
		default:
			hi = rapid.Float64Range(max(lo, -math.MaxFloat64), math.MaxFloat64).Draw(t, "maximum")
		}
		s.Maximum = &hi
	}
	return s
}

func rareInfinity(t *rapid.T, label string) bool {
	return rapid.IntRange(0, 9).Draw(t, label) == 0
}

func drawLengths(t *rapid.T) (minLength, maxLength *int) {
	lo := 0
	if rapid.Bool().Draw(t, "has minLength") {
		lo = rapid.IntRange(0, MaxDrawnLength).Draw(t, "minLength")
		minLength = &lo
	}
	if rapid.Bool().Draw(t, "has maxLength") {
		hi := rapid.IntRange(lo, MaxDrawnLength).Draw(t, "maxLength")
		maxLength = &hi
	}
	return minLength, maxLength
}
