package minischema_test

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/skosovsky/minischema"
)

func ExampleValidate() {
	s := minischema.ArrayOf(minischema.NumberBetween(0, 1))

	ok, _ := minischema.Validate(s, []any{0.25, 0.5})
	fmt.Println(ok)
	ok, _ = minischema.Validate(s, []any{"x"})
	fmt.Println(ok)
	// Output:
	// true
	// false
}

func ExampleExplain() {
	s := minischema.ArrayOf(minischema.String{MaxLength: minischema.Ptr(3)})
	err := minischema.Explain(s, []any{"abc", "abcd"})
	fmt.Println(err)
	fmt.Println(errors.Is(err, minischema.ErrMismatch))
	// Output:
	// instance mismatch at /1: string length 4 is greater than maximum 3
	// true
}

func ExampleParse() {
	var raw any
	_ = json.Unmarshal([]byte(`{"type": "number", "minimum": 2, "maximum": 1}`), &raw)
	_, err := minischema.Parse(raw)
	fmt.Println(err)
	// Output:
	// invalid schema: minimum 2 is greater than maximum 1
}

func ExampleExportDocument() {
	data, _ := minischema.ExportDocument(minischema.Array{
		MaxLength: minischema.Ptr(2),
		Items:     minischema.Bool{},
	})
	fmt.Println(string(data))
	// Output:
	// {
	//   "$schema": "https://json-schema.org/draft/2020-12/schema",
	//   "items": {
	//     "type": "boolean"
	//   },
	//   "maxItems": 2,
	//   "type": "array"
	// }
}
