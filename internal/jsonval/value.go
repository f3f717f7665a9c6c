package jsonval

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Value is a sealed interface representing a JSON value.
// Only Null, String, Number, Bool, Array and Object implement it.
type Value interface {
	jsonValue() // Sealed - only these types implement it
}

// Null represents a JSON null.
type Null struct{}

func (Null) jsonValue() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a JSON string.
type String string

func (String) jsonValue() {}

// Number represents a JSON number by its literal text.
// The text is always a valid JSON number when built through this package.
type Number string

func (Number) jsonValue() {}

// MarshalJSON writes the number literal unquoted.
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("0"), nil
	}
	return []byte(n), nil
}

// Int64 returns the number as an int64 if it is integral.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Float64 returns the number as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Bool represents a JSON boolean.
type Bool bool

func (Bool) jsonValue() {}

// Array represents a JSON array.
type Array []Value

func (Array) jsonValue() {}

// Object represents a JSON object.
// encoding/json writes map keys sorted, so marshaled output is deterministic.
type Object map[string]Value

func (Object) jsonValue() {}

// SortedKeys returns the object's keys in byte order.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// NewInt creates a Number from an int64.
func NewInt(n int64) Number {
	return Number(strconv.FormatInt(n, 10))
}

// NewFloat creates a Number from a float64 using the shortest representation.
func NewFloat(f float64) Number {
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// Marshal encodes a Value as JSON bytes.
func Marshal(v Value) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	switch v.(type) {
	case Null, String, Number, Bool, Array, Object:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// ToAny converts a Value into plain Go values (nil, string, json.Number,
// bool, []any, map[string]any).
func ToAny(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case String:
		return string(val)
	case Number:
		return json.Number(val)
	case Bool:
		return bool(val)
	case Array:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToAny(elem)
		}
		return out
	case Object:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = ToAny(elem)
		}
		return out
	default:
		return nil
	}
}
