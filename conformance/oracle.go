// Package conformance cross-checks minischema against independent JSON Schema
// validators. Each schema is exported to standard JSON Schema and compiled by
// another implementation (an Oracle); generated and probe instances are then
// fed to both sides and any disagreement is reported.
package conformance

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/skosovsky/minischema"
)

// Oracle is an independent validator for one schema.
type Oracle interface {
	Name() string
	// Validate returns nil when instance conforms.
	Validate(instance any) error
}

type googleOracle struct {
	resolved *jsonschema.Resolved
}

// NewGoogleOracle compiles s with github.com/google/jsonschema-go.
func NewGoogleOracle(s minischema.Schema, opts ...minischema.Option) (Oracle, error) {
	resolved, err := minischema.Resolve(s, opts...)
	if err != nil {
		return nil, fmt.Errorf("google oracle: %w", err)
	}
	return &googleOracle{resolved: resolved}, nil
}

func (o *googleOracle) Name() string { return "jsonschema-go" }

func (o *googleOracle) Validate(instance any) error { return o.resolved.Validate(instance) }

type draft2020Oracle struct {
	schema *santhosh.Schema
}

const resourceURL = "minischema.json"

// NewDraft2020Oracle compiles the exported draft 2020-12 document of s with
// github.com/santhosh-tekuri/jsonschema/v6. Compilation also validates the
// document against the draft 2020-12 metaschema.
func NewDraft2020Oracle(s minischema.Schema, opts ...minischema.Option) (Oracle, error) {
	data, err := minischema.ExportDocument(s, opts...)
	if err != nil {
		return nil, fmt.Errorf("draft2020 oracle: %w", err)
	}
	doc, err := santhosh.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("draft2020 oracle: %w", err)
	}
	c := santhosh.NewCompiler()
	c.DefaultDraft(santhosh.Draft2020)
	if err := c.AddResource(resourceURL, doc); err != nil {
		return nil, fmt.Errorf("draft2020 oracle: %w", err)
	}
	compiled, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("draft2020 oracle: %w", err)
	}
	return &draft2020Oracle{schema: compiled}, nil
}

func (o *draft2020Oracle) Name() string { return "santhosh-tekuri/v6" }

// Validate checks the JSON encoding of instance. The exported bounds reach the
// compiler as decimal text and are compared as exact rationals, so the instance
// must take the same path for boundary values such as 0.1 to compare equal.
func (o *draft2020Oracle) Validate(instance any) error {
	data, err := json.Marshal(instance)
	if err != nil {
		return err
	}
	doc, err := santhosh.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return o.schema.Validate(doc)
}

// DefaultOracles builds every oracle this package knows for s.
func DefaultOracles(s minischema.Schema, opts ...minischema.Option) ([]Oracle, error) {
	google, err := NewGoogleOracle(s, opts...)
	if err != nil {
		return nil, err
	}
	draft, err := NewDraft2020Oracle(s, opts...)
	if err != nil {
		return nil, err
	}
	return []Oracle{google, draft}, nil
}

var (
	_ Oracle = (*googleOracle)(nil)
	_ Oracle = (*draft2020Oracle)(nil)
)
