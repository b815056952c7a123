package value

import (
	"encoding/json"
	"testing"
)

func TestArraySetLeavesReceiverUnmodified(t *testing.T) {
	orig := NewArray(NewInt(1), NewInt(2), NewInt(3))
	updated := orig.ArraySet(1, NewInt(99))
	if orig.ArrayGet(1).Int() != 2 {
		t.Fatalf("orig[1] = %d, want unchanged 2", orig.ArrayGet(1).Int())
	}
	if updated.ArrayGet(1).Int() != 99 {
		t.Fatalf("updated[1] = %d, want 99", updated.ArrayGet(1).Int())
	}
}

func TestArrayAppendGrowsWithoutAliasing(t *testing.T) {
	orig := NewArray(NewInt(1))
	appended := orig.ArrayAppend(NewInt(2))
	if orig.Len() != 1 {
		t.Fatalf("orig.Len() = %d, want 1", orig.Len())
	}
	if appended.Len() != 2 {
		t.Fatalf("appended.Len() = %d, want 2", appended.Len())
	}
}

func TestMapSetPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m = m.MapSet(NewString("b"), NewInt(2))
	m = m.MapSet(NewString("a"), NewInt(1))
	m = m.MapSet(NewString("b"), NewInt(20))

	keys := m.MapKeys()
	if len(keys) != 2 {
		t.Fatalf("keys = %v, want 2 entries", keys)
	}
	if keys[0].Str() != "b" || keys[1].Str() != "a" {
		t.Fatalf("keys = [%s, %s], want [b, a] (b keeps its original slot)", keys[0].Str(), keys[1].Str())
	}
	v, ok := m.MapGet(NewString("b"))
	if !ok || v.Int() != 20 {
		t.Fatalf("m[b] = %v, ok=%v, want 20, true", v, ok)
	}
}

func TestMapDeleteRemovesKey(t *testing.T) {
	m := NewMap().MapSet(NewString("a"), NewInt(1)).MapSet(NewString("b"), NewInt(2))
	m = m.MapDelete(NewString("a"))
	if m.MapContains(NewString("a")) {
		t.Fatalf("m still contains a after delete")
	}
	if len(m.MapKeys()) != 1 {
		t.Fatalf("keys = %v, want 1 entry left", m.MapKeys())
	}
}

func TestEqualIsStructural(t *testing.T) {
	a := NewArray(NewInt(1), NewString("x"))
	b := NewArray(NewInt(1), NewString("x"))
	if !a.Equal(b) {
		t.Fatalf("a and b should be structurally equal")
	}
	c := NewArray(NewInt(1), NewString("y"))
	if a.Equal(c) {
		t.Fatalf("a and c should not be equal")
	}
}

func TestMarshalJSONRoundTripsArray(t *testing.T) {
	v := NewArray(NewInt(1), NewDouble(2.5), NewString("hi"), NewBool(true), NewNull())
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var out Value
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !out.IsArray() || out.Len() != 5 {
		t.Fatalf("out = %#v, want a 5-element array", out)
	}
	if out.ArrayGet(0).Int() != 1 {
		t.Fatalf("out[0] = %v, want int 1", out.ArrayGet(0))
	}
	if !out.ArrayGet(1).IsDouble() {
		t.Fatalf("out[1] = %v, want a double", out.ArrayGet(1))
	}
}

func TestMarshalJSONMapRejectsNonStringKey(t *testing.T) {
	m := NewMap().MapSet(NewInt(1), NewString("x"))
	if _, err := json.Marshal(m); err == nil {
		t.Fatalf("expected an error marshaling a map with a non-string key")
	}
}

func TestUnmarshalJSONDisambiguatesIntAndDouble(t *testing.T) {
	var out Value
	if err := json.Unmarshal([]byte(`{"n": 3, "f": 3.5}`), &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	n, ok := out.MapGet(NewString("n"))
	if !ok || !n.IsInt() || n.Int() != 3 {
		t.Fatalf("n = %#v, want int 3", n)
	}
	f, ok := out.MapGet(NewString("f"))
	if !ok || !f.IsDouble() || f.Double() != 3.5 {
		t.Fatalf("f = %#v, want double 3.5", f)
	}
}
