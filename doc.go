// Package minischema validates and generates instances of a small JSON-like
// schema language, for property-based testing.
//
// # Overview
//
// A Schema is one of five variants: Null, Bool, Number (optional Minimum and
// Maximum), String and Array (optional MinLength and MaxLength; Array also
// requires an Items schema). Three operations share one well-formedness check:
//
//   - Check / Parse: is this a legal schema? (typed form / JSON-like map form)
//   - Validate: does an instance conform to the schema?
//   - FromSchema: a pgregory.net/rapid generator whose every value validates.
//
// The check runs at the start of Validate and FromSchema on every call, which
// is what keeps the two halves consistent.
//
// # Instances
//
// Instances are plain Go values: nil, bool, float64 (or float32), string, and
// []any (or any slice). String length counts Unicode code points. Arrays are
// validated element by element.
//
// # Errors
//
// A malformed schema is a programming error and surfaces as a *SchemaError
// wrapping ErrInvalidSchema or ErrTooDeep. A non-conforming instance is a normal
// false from Validate; Explain and Decoder report it as a *MismatchError.
//
// # Example
//
//	s := minischema.Array{
//	    MinLength: minischema.Ptr(1),
//	    Items:     minischema.ArrayOf(minischema.Number{}),
//	}
//	rapid.Check(t, func(t *rapid.T) {
//	    v := minischema.MustFromSchema(s).Draw(t, "v")
//	    ok, err := minischema.Validate(s, v)
//	    if err != nil || !ok {
//	        t.Fatalf("generated %v does not validate", v)
//	    }
//	})
//
// Standard JSON Schema interop (ToJSONSchema, FromJSONSchema, Infer), schema
// files (LoadFile, LoadCatalogFile), a named Registry, and Decoder/Extractor
// for JSON boundaries build on the same core.
package minischema
