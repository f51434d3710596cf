package minischema

import "log/slog"

// DefaultMaxDepth bounds how many array levels a schema may nest.
// Validation and generation recurse once per level.
const DefaultMaxDepth = 64

// options hold settings shared by Check, Parse, Validate and FromSchema.
type options struct {
	maxDepth int
}

// Option configures a check, validation or generator build (e.g. WithMaxDepth).
type Option func(*options)

// WithMaxDepth sets the maximum number of nested array levels a schema may have.
// Pass 0 or negative to keep DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	maxDepth int
	logger   *slog.Logger
}

// WithRegistryMaxDepth sets the max depth used for every schema in the registry.
// Pass 0 or negative to keep DefaultMaxDepth.
func WithRegistryMaxDepth(n int) RegistryOption {
	return func(o *registryOptions) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithRegistryLogger sets the logger for registry events. Nil means slog.Default().
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(o *registryOptions) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
