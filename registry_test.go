package minischema

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newQuietRegistry(opts ...RegistryOption) *Registry {
	return NewRegistry(append([]RegistryOption{WithRegistryLogger(slog.New(slog.DiscardHandler))}, opts...)...)
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()
	r := newQuietRegistry()
	require.NoError(t, r.Register("ratio", NumberBetween(0, 1)))
	require.NoError(t, r.Register("tags", ArrayOf(String{})))

	s, ok := r.Get("ratio")
	require.True(t, ok)
	assert.Equal(t, NumberBetween(0, 1), s)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"ratio", "tags"}, r.Names())

	// Re-registering replaces.
	require.NoError(t, r.Register("ratio", Null{}))
	s, _ = r.Get("ratio")
	assert.Equal(t, Null{}, s)
	assert.Len(t, r.Names(), 2)
}

func TestRegistry_RegisterRejects(t *testing.T) {
	t.Parallel()
	r := newQuietRegistry(WithRegistryMaxDepth(1))
	assert.Error(t, r.Register("", Null{}))

	err := r.Register("bad", Array{})
	assert.ErrorIs(t, err, ErrInvalidSchema)
	assert.Contains(t, err.Error(), `register "bad"`)

	assert.ErrorIs(t, r.Register("deep", nestArrays(2, Null{})), ErrTooDeep)
	assert.Empty(t, r.Names())
}

func TestRegistry_ValidateAndExplain(t *testing.T) {
	t.Parallel()
	r := newQuietRegistry()
	require.NoError(t, r.Register("pair", Array{MinLength: Ptr(2), MaxLength: Ptr(2), Items: Bool{}}))

	ok, err := r.Validate("pair", []any{true, false})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Validate("pair", []any{true})
	require.NoError(t, err)
	assert.False(t, ok)

	err = r.Explain("pair", []any{true, "no"})
	var me *MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "/1", me.Path)

	_, err = r.Validate("missing", nil)
	assert.ErrorIs(t, err, ErrSchemaNotFound)
	assert.ErrorIs(t, r.Explain("missing", nil), ErrSchemaNotFound)
}

func TestRegistry_Generator(t *testing.T) {
	t.Parallel()
	r := newQuietRegistry()
	require.NoError(t, r.Register("short", String{MaxLength: Ptr(3)}))

	gen, err := r.Generator("short")
	require.NoError(t, err)
	rapid.Check(t, func(rt *rapid.T) {
		ok, err := r.Validate("short", gen.Draw(rt, "s"))
		require.NoError(rt, err)
		assert.True(rt, ok)
	})

	_, err = r.Generator("missing")
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Parallel()
	r := newQuietRegistry()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("s%02d", i)
			assert.NoError(t, r.Register(name, Array{MaxLength: Ptr(i), Items: Null{}}))
			ok, err := r.Validate(name, []any{})
			assert.NoError(t, err)
			assert.True(t, ok)
			r.Names()
		}()
	}
	wg.Wait()
	assert.Len(t, r.Names(), 16)
}
