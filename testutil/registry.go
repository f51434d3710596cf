package testutil

import (
	"log/slog"
	"testing"

	"github.com/skosovsky/minischema"
)

// NewTestRegistry returns a Registry holding schemas, with logging discarded.
// It fails the test if any schema is rejected.
func NewTestRegistry(tb testing.TB, schemas map[string]minischema.Schema) *minischema.Registry {
	tb.Helper()
	reg := minischema.NewRegistry(
		minischema.WithRegistryLogger(slog.New(slog.DiscardHandler)),
	)
	for name, s := range schemas {
		if err := reg.Register(name, s); err != nil {
			tb.Fatalf("register %q: %v", name, err)
		}
	}
	return reg
}
