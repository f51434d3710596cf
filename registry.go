package minischema

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"pgregory.net/rapid"
)

// Registry holds named schemas. Every schema is checked when registered and
// again on each use. Safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	schemas map[string]Schema
	opts    registryOptions
}

// NewRegistry creates an empty Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	o := registryOptions{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Registry{
		schemas: make(map[string]Schema),
		opts:    o,
	}
}

// Register adds s under name. If a schema with the same name already exists,
// it is replaced. Malformed schemas are rejected with a *SchemaError.
func (r *Registry) Register(name string, s Schema) error {
	if name == "" {
		return errors.New("schema name must not be empty")
	}
	if err := Check(s, r.checkOptions()...); err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, replaced := r.schemas[name]
	r.schemas[name] = s
	r.opts.logger.Debug("schema registered", "name", name, "kind", s.Kind(), "replaced", replaced)
	return nil
}

// Get returns the schema registered under name, or (nil, false) if not found.
func (r *Registry) Get(name string) (Schema, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns all registered names, sorted for deterministic order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate validates instance against the schema registered under name.
// A missing name returns an error wrapping ErrSchemaNotFound.
func (r *Registry) Validate(name string, instance any) (bool, error) {
	s, err := r.lookup(name)
	if err != nil {
		return false, err
	}
	return Validate(s, instance, r.checkOptions()...)
}

// Explain is Validate with a reason; see the package-level Explain.
func (r *Registry) Explain(name string, instance any) error {
	s, err := r.lookup(name)
	if err != nil {
		return err
	}
	return Explain(s, instance, r.checkOptions()...)
}

// Generator returns an instance generator for the schema registered under name.
func (r *Registry) Generator(name string) (*rapid.Generator[any], error) {
	s, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return FromSchema(s, r.checkOptions()...)
}

func (r *Registry) lookup(name string) (Schema, error) {
	s, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, name)
	}
	return s, nil
}

func (r *Registry) checkOptions() []Option {
	return []Option{WithMaxDepth(r.opts.maxDepth)}
}
