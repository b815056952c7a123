package value

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON renders a Value the way the source language's "generic
// dynamically-typed value container" is described in spec.md §1: a
// polymorphic JSON-like value with mapping, sequence, string, number,
// boolean, and null variants. Maps are rendered as JSON objects; this
// loses ordering, which is acceptable for the inspection output the
// lex/parse/pp CLI commands produce (spec.md §6), and a map with a
// non-string key is an encoding error.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Null:
		return []byte("null"), nil
	case Bool:
		return json.Marshal(v.b)
	case Int:
		return json.Marshal(v.i)
	case Double:
		return json.Marshal(v.f)
	case String:
		return json.Marshal(v.s)
	case Array:
		return json.Marshal(v.arr)
	case Map:
		obj := make(map[string]Value, len(v.keys))
		for i, k := range v.keys {
			if !k.IsString() {
				return nil, fmt.Errorf("value: cannot JSON-encode a map with a non-string key %#v", k)
			}
			obj[k.s] = v.vals[i]
		}
		return json.Marshal(obj)
	default:
		return nil, fmt.Errorf("value: cannot JSON-encode kind %s", v.kind)
	}
}

// UnmarshalJSON decodes a Value from any JSON document, mapping JSON
// numbers without a fractional part or exponent to Int and the rest to
// Double.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

func fromAny(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return NewNull()
	case bool:
		return NewBool(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return NewInt(int32(i))
		}
		f, _ := x.Float64()
		return NewDouble(f)
	case string:
		return NewString(x)
	case []interface{}:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = fromAny(e)
		}
		return NewArray(elems...)
	case map[string]interface{}:
		m := NewMap()
		for k, e := range x {
			m = m.MapSet(NewString(k), fromAny(e))
		}
		return m
	default:
		return NewNull()
	}
}
