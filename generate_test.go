package minischema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFromSchema_ValuesValidate(t *testing.T) {
	t.Parallel()
	schemas := map[string]Schema{
		"null":           Null{},
		"bool":           Bool{},
		"open number":    Number{},
		"closed number":  NumberBetween(-1, 1),
		"point number":   NumberBetween(3, 3),
		"lower bound":    Number{Minimum: Ptr(100.0)},
		"upper bound":    Number{Maximum: Ptr(-100.0)},
		"string":         String{MinLength: Ptr(1), MaxLength: Ptr(3)},
		"fixed string":   String{MinLength: Ptr(2), MaxLength: Ptr(2)},
		"minimum +Inf":   Number{Minimum: Ptr(math.Inf(1))},
		"maximum -Inf":   Number{Maximum: Ptr(math.Inf(-1))},
		"minimum -Inf":   Number{Minimum: Ptr(math.Inf(-1))},
		"maximum +Inf":   Number{Maximum: Ptr(math.Inf(1))},
		"both infinite":  Number{Minimum: Ptr(math.Inf(-1)), Maximum: Ptr(math.Inf(1))},
		"at +Inf":        NumberBetween(math.Inf(1), math.Inf(1)),
		"array":          Array{MinLength: Ptr(1), MaxLength: Ptr(4), Items: Bool{}},
		"nested arrays":  Array{MinLength: Ptr(1), Items: ArrayOf(Number{})},
		"array of empty": ArrayOf(Array{MaxLength: Ptr(0), Items: Null{}}),
	}
	for name, s := range schemas {
		t.Run(name, func(t *testing.T) {
			gen, err := FromSchema(s)
			require.NoError(t, err)
			rapid.Check(t, func(rt *rapid.T) {
				v := gen.Draw(rt, "instance")
				require.NoError(rt, Explain(s, v))
			})
		})
	}
}

func TestFromSchema_Shapes(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(rt *rapid.T) {
		assert.Nil(rt, MustFromSchema(Null{}).Draw(rt, "null"))
		assert.IsType(rt, true, MustFromSchema(Bool{}).Draw(rt, "bool"))
		assert.IsType(rt, 0.0, MustFromSchema(Number{}).Draw(rt, "number"))
		assert.IsType(rt, "", MustFromSchema(String{}).Draw(rt, "string"))
		assert.IsType(rt, []any{}, MustFromSchema(ArrayOf(Null{})).Draw(rt, "array"))
	})
}

func TestFromSchema_NestedArrays(t *testing.T) {
	t.Parallel()
	s := Array{MinLength: Ptr(1), Items: ArrayOf(Number{})}
	gen := MustFromSchema(s)
	rapid.Check(t, func(rt *rapid.T) {
		outer, ok := gen.Draw(rt, "v").([]any)
		require.True(rt, ok)
		require.NotEmpty(rt, outer)
		for _, inner := range outer {
			items, ok := inner.([]any)
			require.True(rt, ok)
			for _, item := range items {
				assert.IsType(rt, 0.0, item)
			}
		}
	})
}

func TestFromSchema_NeverNaN(t *testing.T) {
	t.Parallel()
	gen := MustFromSchema(Number{})
	rapid.Check(t, func(rt *rapid.T) {
		f := gen.Draw(rt, "f").(float64)
		assert.False(rt, math.IsNaN(f))
	})
}

func TestFromSchema_BoundedNeverInfinite(t *testing.T) {
	t.Parallel()
	gen := MustFromSchema(NumberBetween(-math.MaxFloat64, math.MaxFloat64))
	rapid.Check(t, func(rt *rapid.T) {
		f := gen.Draw(rt, "f").(float64)
		assert.False(rt, math.IsInf(f, 0))
	})
}

func TestFromSchema_InfiniteBoundCollapses(t *testing.T) {
	t.Parallel()
	for _, s := range []Number{
		{Minimum: Ptr(math.Inf(1))},
		{Maximum: Ptr(math.Inf(-1))},
	} {
		gen := MustFromSchema(s)
		want := *s.Minimum
		if s.Minimum == nil {
			want = *s.Maximum
		}
		for seed := range 20 {
			assert.Equal(t, want, gen.Example(seed))
		}
	}
}

func TestFromSchema_Deterministic(t *testing.T) {
	t.Parallel()
	gen := MustFromSchema(Array{MaxLength: Ptr(5), Items: String{MaxLength: Ptr(4)}})
	for seed := range 10 {
		assert.Equal(t, gen.Example(seed), gen.Example(seed))
	}
}

func TestFromSchema_Malformed(t *testing.T) {
	t.Parallel()
	_, err := FromSchema(String{MinLength: Ptr(3), MaxLength: Ptr(1)})
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = FromSchema(nestArrays(3, Null{}), WithMaxDepth(2))
	assert.ErrorIs(t, err, ErrTooDeep)

	assert.Panics(t, func() { MustFromSchema(Array{}) })
}

func TestLengthRange(t *testing.T) {
	t.Parallel()
	lo, hi := lengthRange(nil, nil)
	assert.Equal(t, 0, lo)
	assert.Equal(t, -1, hi)
	lo, hi = lengthRange(Ptr(2), Ptr(5))
	assert.Equal(t, 2, lo)
	assert.Equal(t, 5, hi)
}
