// Package value implements the dynamically-typed, JSON-compatible value
// substrate that spec.md treats as an abstract external collaborator:
// a single immutable Value capable of holding a null, a boolean, an
// integer, a double, a string, an ordered array of Values, or an ordered
// map from Values to Values.
//
// The source language's runtime value system (reference counting,
// NaN-boxing, in-place update optimization) is out of scope; this is the
// plain-Go rendering needed to carry decoded literals and the few
// dict-shaped intermediate values the front-end touches on its way to
// JSON output.
package value

import "fmt"

// Kind discriminates the variant stored in a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Double
	String
	Array
	Map
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Double:
		return "double"
	case String:
		return "string"
	case Array:
		return "array"
	case Map:
		return "map"
	default:
		return "unknown"
	}
}

// Value is an immutable, JSON-like dynamically-typed value. The zero
// Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int32
	f    float64
	s    string
	arr  []Value
	keys []Value
	vals []Value
}

func NewNull() Value           { return Value{kind: Null} }
func NewBool(b bool) Value      { return Value{kind: Bool, b: b} }
func NewInt(i int32) Value      { return Value{kind: Int, i: i} }
func NewDouble(f float64) Value { return Value{kind: Double, f: f} }
func NewString(s string) Value  { return Value{kind: String, s: s} }

// NewArray returns an array Value containing a copy of elems, preserving
// order.
func NewArray(elems ...Value) Value {
	return Value{kind: Array, arr: append([]Value(nil), elems...)}
}

// NewMap returns an empty ordered map Value.
func NewMap() Value {
	return Value{kind: Map}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsNull() bool    { return v.kind == Null }
func (v Value) IsBool() bool    { return v.kind == Bool }
func (v Value) IsInt() bool     { return v.kind == Int }
func (v Value) IsDouble() bool  { return v.kind == Double }
func (v Value) IsNumber() bool  { return v.kind == Int || v.kind == Double }
func (v Value) IsString() bool  { return v.kind == String }
func (v Value) IsArray() bool   { return v.kind == Array }
func (v Value) IsMap() bool     { return v.kind == Map }

func (v Value) Bool() bool {
	if v.kind != Bool {
		panic(fmt.Sprintf("value: Bool() called on a %s", v.kind))
	}
	return v.b
}

func (v Value) Int() int32 {
	if v.kind != Int {
		panic(fmt.Sprintf("value: Int() called on a %s", v.kind))
	}
	return v.i
}

func (v Value) Double() float64 {
	switch v.kind {
	case Double:
		return v.f
	case Int:
		return float64(v.i)
	default:
		panic(fmt.Sprintf("value: Double() called on a %s", v.kind))
	}
}

func (v Value) Str() string {
	if v.kind != String {
		panic(fmt.Sprintf("value: Str() called on a %s", v.kind))
	}
	return v.s
}

// Len returns the number of elements in an array or key/value pairs in a
// map.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Map:
		return len(v.keys)
	default:
		panic(fmt.Sprintf("value: Len() called on a %s", v.kind))
	}
}

func (v Value) ArrayGet(i int) Value {
	if v.kind != Array {
		panic(fmt.Sprintf("value: ArrayGet() called on a %s", v.kind))
	}
	return v.arr[i]
}

// ArraySet returns a new array Value with index i replaced by elem. The
// receiver is left unmodified (copy-on-write, per spec.md §4.4).
func (v Value) ArraySet(i int, elem Value) Value {
	if v.kind != Array {
		panic(fmt.Sprintf("value: ArraySet() called on a %s", v.kind))
	}
	next := append([]Value(nil), v.arr...)
	next[i] = elem
	return Value{kind: Array, arr: next}
}

// ArrayAppend returns a new array Value with elem appended.
func (v Value) ArrayAppend(elem Value) Value {
	if v.kind != Array {
		panic(fmt.Sprintf("value: ArrayAppend() called on a %s", v.kind))
	}
	next := append(append([]Value(nil), v.arr...), elem)
	return Value{kind: Array, arr: next}
}

func canonicalKey(key Value) string {
	switch key.kind {
	case Null:
		return "n:"
	case Bool:
		if key.b {
			return "b:true"
		}
		return "b:false"
	case Int:
		return fmt.Sprintf("i:%d", key.i)
	case Double:
		return fmt.Sprintf("d:%v", key.f)
	case String:
		return "s:" + key.s
	default:
		panic(fmt.Sprintf("value: %s is not a valid map key", key.kind))
	}
}

func (v Value) indexOf(key Value) int {
	ck := canonicalKey(key)
	for i, k := range v.keys {
		if canonicalKey(k) == ck {
			return i
		}
	}
	return -1
}

func (v Value) MapContains(key Value) bool {
	if v.kind != Map {
		panic(fmt.Sprintf("value: MapContains() called on a %s", v.kind))
	}
	return v.indexOf(key) >= 0
}

func (v Value) MapGet(key Value) (Value, bool) {
	if v.kind != Map {
		panic(fmt.Sprintf("value: MapGet() called on a %s", v.kind))
	}
	if i := v.indexOf(key); i >= 0 {
		return v.vals[i], true
	}
	return Value{}, false
}

// MapSet returns a new map Value with key bound to val, preserving the
// insertion-order position of key if it already existed, else appending
// it.
func (v Value) MapSet(key, val Value) Value {
	if v.kind != Map {
		panic(fmt.Sprintf("value: MapSet() called on a %s", v.kind))
	}
	keys := append([]Value(nil), v.keys...)
	vals := append([]Value(nil), v.vals...)
	if i := v.indexOf(key); i >= 0 {
		vals[i] = val
	} else {
		keys = append(keys, key)
		vals = append(vals, val)
	}
	return Value{kind: Map, keys: keys, vals: vals}
}

// MapDelete returns a new map Value with key removed, if present.
func (v Value) MapDelete(key Value) Value {
	if v.kind != Map {
		panic(fmt.Sprintf("value: MapDelete() called on a %s", v.kind))
	}
	i := v.indexOf(key)
	if i < 0 {
		return v
	}
	keys := append(append([]Value(nil), v.keys[:i]...), v.keys[i+1:]...)
	vals := append(append([]Value(nil), v.vals[:i]...), v.vals[i+1:]...)
	return Value{kind: Map, keys: keys, vals: vals}
}

// MapKeys returns the map's keys in insertion order.
func (v Value) MapKeys() []Value {
	if v.kind != Map {
		panic(fmt.Sprintf("value: MapKeys() called on a %s", v.kind))
	}
	return append([]Value(nil), v.keys...)
}

// Equal reports deep structural equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == other.b
	case Int:
		return v.i == other.i
	case Double:
		return v.f == other.f
	case String:
		return v.s == other.s
	case Array:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case Map:
		if len(v.keys) != len(other.keys) {
			return false
		}
		for i, k := range v.keys {
			ov, ok := other.MapGet(k)
			if !ok || !v.vals[i].Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// GoString gives Value a readable representation under %#v and under
// github.com/alecthomas/repr, which the pp package uses to dump tokens
// and AST nodes.
func (v Value) GoString() string {
	switch v.kind {
	case Null:
		return "value.Null"
	case Bool:
		return fmt.Sprintf("value.Bool(%v)", v.b)
	case Int:
		return fmt.Sprintf("value.Int(%d)", v.i)
	case Double:
		return fmt.Sprintf("value.Double(%v)", v.f)
	case String:
		return fmt.Sprintf("value.String(%q)", v.s)
	case Array:
		return fmt.Sprintf("value.Array(len=%d)", len(v.arr))
	case Map:
		return fmt.Sprintf("value.Map(len=%d)", len(v.keys))
	default:
		return "value.Value{}"
	}
}

func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		return fmt.Sprintf("%v", v.b)
	case Int:
		return fmt.Sprintf("%d", v.i)
	case Double:
		return fmt.Sprintf("%v", v.f)
	case String:
		return v.s
	case Array:
		return fmt.Sprintf("<array len=%d>", len(v.arr))
	case Map:
		return fmt.Sprintf("<map len=%d>", len(v.keys))
	default:
		return "<invalid value>"
	}
}
