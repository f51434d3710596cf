package minischema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
	invopop "github.com/invopop/jsonschema"
)

// Draft2020 is the $schema URI written by ExportDocument.
const Draft2020 = "https://json-schema.org/draft/2020-12/schema"

// Standard JSON Schema keywords that map onto a minischema node.
var standardKeys = []string{"type", "minimum", "maximum", "minLength", "maxLength", "minItems", "maxItems", "items"}

// Annotation keywords that carry no validation meaning and are ignored on import.
var annotationKeys = []string{"$schema", "$id", "id", "$comment", "title", "description"}

// ToJSONSchema converts s into a standard JSON Schema.
// The type tag "bool" becomes "boolean"; array length bounds become
// minItems/maxItems. An infinite bound on its open side (minimum -Inf,
// maximum +Inf) is dropped; the other infinities cannot be written as JSON and
// yield ErrUnsupported.
func ToJSONSchema(s Schema, opts ...Option) (*jsonschema.Schema, error) {
	if err := Check(s, opts...); err != nil {
		return nil, err
	}
	return toJSONSchema(s, "")
}

func toJSONSchema(s Schema, path string) (*jsonschema.Schema, error) {
	switch v := normalize(s).(type) {
	case Null:
		return &jsonschema.Schema{Type: "null"}, nil
	case Bool:
		return &jsonschema.Schema{Type: "boolean"}, nil
	case Number:
		js := &jsonschema.Schema{Type: "number"}
		if v.Minimum != nil && !math.IsInf(*v.Minimum, -1) {
			if math.IsInf(*v.Minimum, 1) {
				return nil, unsupportedf(path, "minimum +Inf has no JSON form")
			}
			js.Minimum = Ptr(*v.Minimum)
		}
		if v.Maximum != nil && !math.IsInf(*v.Maximum, 1) {
			if math.IsInf(*v.Maximum, -1) {
				return nil, unsupportedf(path, "maximum -Inf has no JSON form")
			}
			js.Maximum = Ptr(*v.Maximum)
		}
		return js, nil
	case String:
		return &jsonschema.Schema{Type: "string", MinLength: clonePtr(v.MinLength), MaxLength: clonePtr(v.MaxLength)}, nil
	case Array:
		items, err := toJSONSchema(v.Items, path+"/"+keyItems)
		if err != nil {
			return nil, err
		}
		return &jsonschema.Schema{
			Type:     "array",
			MinItems: clonePtr(v.MinLength),
			MaxItems: clonePtr(v.MaxLength),
			Items:    items,
		}, nil
	}
	return nil, invalidf(path, "unknown schema variant %T", s)
}

// ExportDocument returns s as a standalone draft 2020-12 JSON Schema document.
func ExportDocument(s Schema, opts ...Option) ([]byte, error) {
	js, err := ToJSONSchema(s, opts...)
	if err != nil {
		return nil, err
	}
	schemaMap, err := toSchemaMap(js)
	if err != nil {
		return nil, err
	}
	schemaMap["$schema"] = Draft2020
	return json.MarshalIndent(schemaMap, "", "  ")
}

// Resolve compiles s into a jsonschema-go validator. It is an independent
// implementation of the same semantics and is used for cross-checking.
func Resolve(s Schema, opts ...Option) (*jsonschema.Resolved, error) {
	js, err := ToJSONSchema(s, opts...)
	if err != nil {
		return nil, err
	}
	return js.Resolve(nil)
}

// FromJSONSchema converts a standard JSON Schema back into a Schema. Only the
// keywords ToJSONSchema emits are understood (plus ignorable annotations such
// as title and description); anything else yields ErrUnsupported.
func FromJSONSchema(js *jsonschema.Schema, opts ...Option) (Schema, error) {
	if js == nil {
		return nil, invalidf("", "schema is nil")
	}
	schemaMap, err := toSchemaMap(js)
	if err != nil {
		return nil, err
	}
	raw, err := fromStandardMap(schemaMap)
	if err != nil {
		return nil, err
	}
	return Parse(raw, opts...)
}

// Infer derives a Schema from the Go type T by reflection (invopop/jsonschema).
// float32/float64 map to number, string to string, bool to bool, and slices
// or arrays to array. Integers, structs, maps and interfaces have no
// counterpart and yield ErrUnsupported.
func Infer[T any](opts ...Option) (Schema, error) {
	r := &invopop.Reflector{DoNotReference: true, Anonymous: true}
	reflected := r.ReflectFromType(reflect.TypeFor[T]())
	data, err := json.Marshal(reflected)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	schemaMap, ok := doc.(map[string]any)
	if !ok {
		return nil, unsupportedf("", "type %s reflects to %s", reflect.TypeFor[T](), data)
	}
	stripSchemaIDs(schemaMap)
	raw, err := fromStandardMap(schemaMap)
	if err != nil {
		return nil, err
	}
	return Parse(raw, opts...)
}

// fromStandardMap rewrites a standard JSON Schema map into the raw minischema
// form. Parse does the remaining type and ordering checks.
func fromStandardMap(schemaMap map[string]any) (map[string]any, error) {
	root := make(map[string]any)
	cur := root
	node := schemaMap
	path := ""
	for {
		if empty, ok := node["$defs"].(map[string]any); ok && len(empty) == 0 {
			delete(node, "$defs")
		}
		for k := range node {
			if !slices.Contains(standardKeys, k) && !slices.Contains(annotationKeys, k) {
				return nil, unsupportedf(path, "keyword %q", k)
			}
		}
		typ, ok := node["type"].(string)
		if !ok {
			return nil, unsupportedf(path, "type must be a single string, got %v", node["type"])
		}
		switch typ {
		case "null", "boolean", "number", "string":
			if k, ok := firstKey(node, "minItems", "maxItems", "items"); ok {
				return nil, unsupportedf(path, "keyword %q on a %s schema", k, typ)
			}
			cur[keyType] = typ
			if typ == "boolean" {
				cur[keyType] = string(KindBool)
			}
			// Parse rejects bounds that do not belong to the type.
			copyKeys(cur, node, keyMinimum, keyMaximum, keyMinLength, keyMaxLength)
			return root, nil
		case "array":
			if k, ok := firstKey(node, "minimum", "maximum", "minLength", "maxLength"); ok {
				return nil, unsupportedf(path, "keyword %q on an array schema", k)
			}
			cur[keyType] = string(KindArray)
			if v, ok := node["minItems"]; ok {
				cur[keyMinLength] = v
			}
			if v, ok := node["maxItems"]; ok {
				cur[keyMaxLength] = v
			}
			items, ok := node["items"].(map[string]any)
			if !ok {
				return nil, unsupportedf(path, "array without an items schema")
			}
			next := make(map[string]any)
			cur[keyItems] = next
			cur = next
			node = items
			path += "/items"
		default:
			return nil, unsupportedf(path, "type %q", typ)
		}
	}
}

func firstKey(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return k, true
		}
	}
	return "", false
}

func copyKeys(dst, src map[string]any, keys ...string) {
	for _, k := range keys {
		if v, ok := src[k]; ok {
			dst[k] = v
		}
	}
}

// toSchemaMap round-trips js through JSON to get a plain map.
func toSchemaMap(js *jsonschema.Schema) (map[string]any, error) {
	data, err := json.Marshal(js)
	if err != nil {
		return nil, err
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return nil, err
	}
	return schemaMap, nil
}

// walkSchema recursively visits every map node in the schema tree (including $defs and definitions).
func walkSchema(schemaMap map[string]any, visit func(map[string]any)) {
	if schemaMap == nil {
		return
	}
	visit(schemaMap)
	for _, val := range schemaMap {
		switch v := val.(type) {
		case map[string]any:
			walkSchema(v, visit)
		case []any:
			for _, item := range v {
				if m2, ok := item.(map[string]any); ok {
					walkSchema(m2, visit)
				}
			}
		}
	}
}

// stripSchemaIDs removes id, $id and $schema so reflected documents import cleanly.
func stripSchemaIDs(schemaMap map[string]any) {
	walkSchema(schemaMap, func(n map[string]any) {
		delete(n, "id")
		delete(n, "$id")
		delete(n, "$schema")
	})
}

func unsupportedf(path, format string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...), Err: ErrUnsupported}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return Ptr(*p)
}
