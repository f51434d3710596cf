package minischema

import "encoding/json"

// Decoder turns JSON documents into instances of one schema. Use it at a JSON
// boundary where a conforming instance, or a reason why not, is needed.
type Decoder struct {
	schema Schema
	opts   []Option
}

// NewDecoder creates a Decoder for s. The schema is checked up front so
// construction fails fast; Decode still re-checks on every call.
func NewDecoder(s Schema, opts ...Option) (*Decoder, error) {
	if err := Check(s, opts...); err != nil {
		return nil, err
	}
	return &Decoder{schema: s, opts: opts}, nil
}

// Schema returns the schema the decoder validates against.
func (d *Decoder) Schema() Schema { return d.schema }

// Decode parses data as JSON and returns it if it conforms. Numbers decode to
// float64 and arrays to []any, the shapes Validate and FromSchema use.
// Invalid JSON and non-conforming documents both return a *MismatchError.
func (d *Decoder) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, wrapJSONParseError(err)
	}
	if err := Explain(d.schema, v, d.opts...); err != nil {
		return nil, err
	}
	return v, nil
}
