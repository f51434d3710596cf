package minischema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
)

// Check reports whether s is a well-formed schema. It returns nil or a
// *SchemaError wrapping ErrInvalidSchema (or ErrTooDeep when arrays nest
// deeper than the configured max depth).
//
// Arrays nest linearly (one items schema per level), so the walk is a loop and
// cannot exhaust the stack however deep the input is.
func Check(s Schema, opts ...Option) error {
	o := buildOptions(opts)
	return check(s, o.maxDepth)
}

func check(s Schema, maxDepth int) error {
	path := ""
	for depth := 0; ; depth++ {
		if depth > maxDepth {
			return tooDeep(path, maxDepth)
		}
		switch v := normalize(s).(type) {
		case nil:
			return invalidf(path, "schema is nil")
		case Null, Bool:
			return nil
		case Number:
			return checkNumberBounds(path, v.Minimum, v.Maximum)
		case String:
			return checkLengthBounds(path, v.MinLength, v.MaxLength)
		case Array:
			if err := checkLengthBounds(path, v.MinLength, v.MaxLength); err != nil {
				return err
			}
			if normalize(v.Items) == nil {
				return invalidf(path, "array schema requires %s", keyItems)
			}
			s = v.Items
			path += "/" + keyItems
		default:
			return invalidf(path, "unknown schema variant %T", s)
		}
	}
}

func tooDeep(path string, maxDepth int) *SchemaError {
	return &SchemaError{
		Path:   path,
		Reason: fmt.Sprintf("more than %d nested array levels", maxDepth),
		Err:    ErrTooDeep,
	}
}

func checkNumberBounds(path string, minimum, maximum *float64) error {
	if minimum != nil && math.IsNaN(*minimum) {
		return invalidf(path, "%s must not be NaN", keyMinimum)
	}
	if maximum != nil && math.IsNaN(*maximum) {
		return invalidf(path, "%s must not be NaN", keyMaximum)
	}
	if minimum != nil && maximum != nil && *minimum > *maximum {
		return invalidf(path, "%s %v is greater than %s %v", keyMinimum, *minimum, keyMaximum, *maximum)
	}
	return nil
}

func checkLengthBounds(path string, minLength, maxLength *int) error {
	if minLength != nil && *minLength < 0 {
		return invalidf(path, "%s must be non-negative, got %d", keyMinLength, *minLength)
	}
	if maxLength != nil && *maxLength < 0 {
		return invalidf(path, "%s must be non-negative, got %d", keyMaxLength, *maxLength)
	}
	if minLength != nil && maxLength != nil && *minLength > *maxLength {
		return invalidf(path, "%s %d is greater than %s %d", keyMinLength, *minLength, keyMaxLength, *maxLength)
	}
	return nil
}

// Parse checks that raw is a legal schema in its JSON-like form and returns the
// typed Schema. raw is usually the result of decoding JSON or YAML into any:
// a map[string]any with a "type" key and the bound keys legal for that type.
func Parse(raw any, opts ...Option) (Schema, error) {
	o := buildOptions(opts)
	var (
		arrays []Array
		leaf   Schema
		path   string
		node   = raw
	)
	for depth := 0; leaf == nil; depth++ {
		if depth > o.maxDepth {
			return nil, tooDeep(path, o.maxDepth)
		}
		m, ok := node.(map[string]any)
		if !ok {
			return nil, invalidf(path, "schema must be a mapping, got %T", node)
		}
		kind, err := parseKind(path, m)
		if err != nil {
			return nil, err
		}
		switch kind {
		case KindNull, KindBool:
			if err := allowKeys(path, kind, m, keyType); err != nil {
				return nil, err
			}
			if kind == KindNull {
				leaf = Null{}
			} else {
				leaf = Bool{}
			}
		case KindNumber:
			if err := allowKeys(path, kind, m, keyType, keyMinimum, keyMaximum); err != nil {
				return nil, err
			}
			n, err := parseNumber(path, m)
			if err != nil {
				return nil, err
			}
			leaf = n
		case KindString:
			if err := allowKeys(path, kind, m, keyType, keyMinLength, keyMaxLength); err != nil {
				return nil, err
			}
			minLength, maxLength, err := parseLengths(path, m)
			if err != nil {
				return nil, err
			}
			leaf = String{MinLength: minLength, MaxLength: maxLength}
		case KindArray:
			if err := allowKeys(path, kind, m, keyType, keyMinLength, keyMaxLength, keyItems); err != nil {
				return nil, err
			}
			minLength, maxLength, err := parseLengths(path, m)
			if err != nil {
				return nil, err
			}
			items, ok := m[keyItems]
			if !ok {
				return nil, invalidf(path, "array schema requires %s", keyItems)
			}
			arrays = append(arrays, Array{MinLength: minLength, MaxLength: maxLength})
			node = items
			path += "/" + keyItems
		}
	}
	s := leaf
	for i := len(arrays) - 1; i >= 0; i-- {
		a := arrays[i]
		a.Items = s
		s = a
	}
	return s, nil
}

// Unmarshal decodes a JSON schema document and parses it. Numbers are decoded
// as json.Number so "minLength": 2.5 is rejected rather than truncated.
func Unmarshal(data []byte, opts ...Option) (Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &SchemaError{Reason: "json parse error: " + err.Error(), Err: ErrInvalidSchema}
	}
	return Parse(raw, opts...)
}

// ToMap returns the raw form of s. The schema is checked first.
func ToMap(s Schema, opts ...Option) (map[string]any, error) {
	if err := Check(s, opts...); err != nil {
		return nil, err
	}
	root := make(map[string]any)
	cur := root
	for {
		switch v := normalize(s).(type) {
		case Null:
			cur[keyType] = string(KindNull)
			return root, nil
		case Bool:
			cur[keyType] = string(KindBool)
			return root, nil
		case Number:
			cur[keyType] = string(KindNumber)
			if v.Minimum != nil {
				cur[keyMinimum] = *v.Minimum
			}
			if v.Maximum != nil {
				cur[keyMaximum] = *v.Maximum
			}
			return root, nil
		case String:
			cur[keyType] = string(KindString)
			putLengths(cur, v.MinLength, v.MaxLength)
			return root, nil
		case Array:
			cur[keyType] = string(KindArray)
			putLengths(cur, v.MinLength, v.MaxLength)
			next := make(map[string]any)
			cur[keyItems] = next
			cur = next
			s = v.Items
		default:
			return nil, invalidf("", "unknown schema variant %T", s)
		}
	}
}

func putLengths(m map[string]any, minLength, maxLength *int) {
	if minLength != nil {
		m[keyMinLength] = *minLength
	}
	if maxLength != nil {
		m[keyMaxLength] = *maxLength
	}
}

func parseKind(path string, m map[string]any) (Kind, error) {
	rawType, ok := m[keyType]
	if !ok {
		return "", invalidf(path, "missing %q", keyType)
	}
	name, ok := rawType.(string)
	if !ok {
		return "", invalidf(path, "%q must be a string, got %T", keyType, rawType)
	}
	kind := Kind(name)
	if !kind.Valid() {
		return "", invalidf(path, "unknown type %q", name)
	}
	return kind, nil
}

// allowKeys rejects any key of m outside allowed. The first extra key in sorted
// order is reported so errors are deterministic.
func allowKeys(path string, kind Kind, m map[string]any, allowed ...string) error {
	var extra []string
	for k := range m {
		if !slices.Contains(allowed, k) {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	slices.Sort(extra)
	return invalidf(path, "key %q is not allowed in a %s schema", extra[0], kind)
}

func parseNumber(path string, m map[string]any) (Number, error) {
	var n Number
	for _, key := range []string{keyMinimum, keyMaximum} {
		v, ok := m[key]
		if !ok {
			continue
		}
		f, ok := floatValue(v)
		if !ok {
			return Number{}, invalidf(path, "%s must be a number, got %T", key, v)
		}
		if key == keyMinimum {
			n.Minimum = &f
		} else {
			n.Maximum = &f
		}
	}
	if err := checkNumberBounds(path, n.Minimum, n.Maximum); err != nil {
		return Number{}, err
	}
	return n, nil
}

func parseLengths(path string, m map[string]any) (minLength, maxLength *int, err error) {
	for _, key := range []string{keyMinLength, keyMaxLength} {
		v, ok := m[key]
		if !ok {
			continue
		}
		n, ok := intValue(v)
		if !ok {
			return nil, nil, invalidf(path, "%s must be an integer, got %v (%T)", key, v, v)
		}
		if key == keyMinLength {
			minLength = &n
		} else {
			maxLength = &n
		}
	}
	if err := checkLengthBounds(path, minLength, maxLength); err != nil {
		return nil, nil, err
	}
	return minLength, maxLength, nil
}

// floatValue accepts float32, float64 and json.Number. JSON and YAML documents
// carry numbers as json.Number (see Unmarshal and Load), so "minimum": 0 in a
// file is fine; a Go int in a hand-built map is not a floating-point bound.
func floatValue(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// intValue accepts Go integers, integral floats and integral json.Number
// values ("2" or "2.0") that fit in an int.
func intValue(v any) (int, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return intFromInt64(i)
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return intFromFloat(f)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intFromInt64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, false
		}
		return int(u), true
	case reflect.Float32, reflect.Float64:
		return intFromFloat(rv.Float())
	}
	return 0, false
}

func intFromInt64(i int64) (int, bool) {
	if i < math.MinInt || i > math.MaxInt {
		return 0, false
	}
	return int(i), true
}

func intFromFloat(f float64) (int, bool) {
	if f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}
