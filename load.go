package minischema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a schema file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath picks a Format from the file extension (.json, .yaml, .yml).
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unknown schema file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// Load reads one schema in its raw form from r.
func Load(r io.Reader, f Format, opts ...Option) (Schema, error) {
	raw, err := decodeRaw(r, f)
	if err != nil {
		return nil, err
	}
	return Parse(raw, opts...)
}

// LoadFile reads one schema from path; the format follows the extension.
func LoadFile(path string, opts ...Option) (Schema, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	s, err := Load(file, f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadCatalog reads a document of the form
//
//	schemas:
//	  name: {type: ...}
//
// and registers every entry in a new Registry.
func LoadCatalog(r io.Reader, f Format, opts ...RegistryOption) (*Registry, error) {
	raw, err := decodeRaw(r, f)
	if err != nil {
		return nil, err
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("catalog must be a mapping, got %T", raw)
	}
	entries, ok := doc["schemas"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("catalog needs a %q mapping", "schemas")
	}
	reg := NewRegistry(opts...)
	for name, entry := range entries {
		s, err := Parse(entry, reg.checkOptions()...)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", name, err)
		}
		if err := reg.Register(name, s); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// LoadCatalogFile is LoadCatalog for a file; the format follows the extension.
func LoadCatalogFile(path string, opts ...RegistryOption) (*Registry, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	reg, err := LoadCatalog(file, f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

func decodeRaw(r io.Reader, f Format) (any, error) {
	var raw any
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, &SchemaError{Reason: "json parse error: " + err.Error(), Err: ErrInvalidSchema}
		}
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, &SchemaError{Reason: "yaml parse error: " + err.Error(), Err: ErrInvalidSchema}
		}
		v, err := yamlValue(&doc)
		if err != nil {
			return nil, &SchemaError{Reason: "yaml parse error: " + err.Error(), Err: ErrInvalidSchema}
		}
		raw = v
	default:
		return nil, fmt.Errorf("unknown format %s", f)
	}
	return raw, nil
}

// yamlValue converts a YAML node tree into the shapes JSON decoding with
// UseNumber produces. Numeric scalars keep their text as json.Number, so a
// file reads the same whether it is written in JSON or YAML.
func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", key.Line)
			}
			v, err := yamlValue(val)
			if err != nil {
				return nil, err
			}
			m[key.Value] = v
		}
		return m, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float":
			return json.Number(n.Value), nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}
