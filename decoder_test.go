package minischema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder(t *testing.T) {
	t.Parallel()
	s := Array{MaxLength: Ptr(3), Items: NumberBetween(0, 10)}
	dec, err := NewDecoder(s)
	require.NoError(t, err)
	assert.Equal(t, s, dec.Schema())

	v, err := dec.Decode([]byte(`[1, 2.5, 10]`))
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.5, 10.0}, v)

	_, err = dec.Decode([]byte(`[1, 11]`))
	var me *MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "/1", me.Path)

	_, err = dec.Decode([]byte(`[1, 2, 3, 4]`))
	assert.ErrorIs(t, err, ErrMismatch)

	_, err = dec.Decode([]byte(`[1,`))
	assert.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, err.Error(), "json parse error")
}

func TestDecoder_Scalars(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		schema Schema
		input  string
		want   any
		ok     bool
	}{
		{"null", Null{}, `null`, nil, true},
		{"bool", Bool{}, `false`, false, true},
		{"bool rejects string", Bool{}, `"false"`, nil, false},
		{"string", String{MaxLength: Ptr(3)}, `"héé"`, "héé", true},
		{"string too long", String{MaxLength: Ptr(2)}, `"héé"`, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := NewDecoder(tt.schema)
			require.NoError(t, err)
			got, err := dec.Decode([]byte(tt.input))
			if !tt.ok {
				assert.True(t, IsMismatch(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDecoder_Malformed(t *testing.T) {
	t.Parallel()
	_, err := NewDecoder(NumberBetween(5, 1))
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = NewDecoder(nestArrays(2, Bool{}), WithMaxDepth(1))
	assert.ErrorIs(t, err, ErrTooDeep)
}
