package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"pgregory.net/rapid"

	"github.com/skosovsky/minischema"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSchemas_WellFormed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Schemas(3).Draw(t, "schema")
		require.NoError(t, minischema.Check(s))
	})
}

// numbers lists every Number node of s.
func numbers(s minischema.Schema) []minischema.Number {
	for {
		switch v := s.(type) {
		case minischema.Number:
			return []minischema.Number{v}
		case minischema.Array:
			s = v.Items
		default:
			return nil
		}
	}
}

func TestSchemas_DrawsInfiniteBounds(t *testing.T) {
	gen := Schemas(3)
	var plusInfMinimum, minusInfMaximum bool
	for seed := range 5000 {
		for _, n := range numbers(gen.Example(seed)) {
			if n.Minimum != nil && math.IsInf(*n.Minimum, 1) {
				plusInfMinimum = true
			}
			if n.Maximum != nil && math.IsInf(*n.Maximum, -1) {
				minusInfMaximum = true
			}
		}
	}
	assert.True(t, plusInfMinimum, "no schema with minimum +Inf")
	assert.True(t, minusInfMaximum, "no schema with maximum -Inf")
}

func TestFiniteSchemas(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := FiniteSchemas(3).Draw(t, "schema")
		require.NoError(t, minischema.Check(s))
		for _, n := range numbers(s) {
			for _, b := range []*float64{n.Minimum, n.Maximum} {
				if b != nil {
					assert.False(t, math.IsInf(*b, 0))
				}
			}
		}
	})
}

func TestSchemas_RespectsDepth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxDepth := rapid.IntRange(0, 4).Draw(t, "maxDepth")
		s := Schemas(maxDepth).Draw(t, "schema")
		depth := 0
		for {
			a, ok := s.(minischema.Array)
			if !ok {
				break
			}
			depth++
			s = a.Items
		}
		assert.LessOrEqual(t, depth, maxDepth)
	})
}

func TestSchemas_LengthsCapped(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Schemas(2).Draw(t, "schema")
		m, err := minischema.ToMap(s)
		require.NoError(t, err)
		for cur := m; cur != nil; {
			for _, key := range []string{"minLength", "maxLength"} {
				if v, ok := cur[key]; ok {
					assert.LessOrEqual(t, v.(int), MaxDrawnLength)
				}
			}
			next, _ := cur["items_schema"].(map[string]any)
			cur = next
		}
	})
}

func TestNewTestRegistry(t *testing.T) {
	reg := NewTestRegistry(t, map[string]minischema.Schema{
		"flag":   minischema.Bool{},
		"matrix": minischema.ArrayOf(minischema.ArrayOf(minischema.Number{})),
	})
	require.NotNil(t, reg)
	assert.Equal(t, []string{"flag", "matrix"}, reg.Names())
	ok, err := reg.Validate("matrix", []any{[]any{1.5}, []any{}})
	require.NoError(t, err)
	assert.True(t, ok)
}
