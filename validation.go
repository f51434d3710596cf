package minischema

// Validatable is implemented by types decoded with an Extractor that need
// checks a schema cannot express. It runs after the schema layer passes.
type Validatable interface {
	Validate() error
}

func validateCustom(v any) error {
	if c, ok := v.(Validatable); ok {
		return c.Validate()
	}
	return nil
}
