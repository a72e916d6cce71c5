// Package attr models untyped front-matter attribute trees as a tagged variant.
//
// A Value is immutable by convention: helpers such as With and Map build new
// nodes and never modify the receiver. Maps keep the order in which keys were
// first inserted, which for parsed files is the order they appear in the header.
package attr

import (
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies which payload of a Value is populated.
type Kind uint8

// Kind values.
const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

type orderedMap = orderedmap.OrderedMap[string, Value]

// Value is a node of an attribute tree. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
	b    bool
	list []Value
	m    *orderedMap
}

// Pair is one key/value entry of a map Value.
type Pair struct {
	Key   string
	Value Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List returns a list value holding a copy of items.
func List(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindList, list: out}
}

// Map returns a map value built from pairs. A repeated key keeps its first
// position and takes the last value.
func Map(pairs ...Pair) Value {
	m := orderedmap.New[string, Value]()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return Value{kind: KindMap, m: m}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float payload.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Items returns the elements of a list value. The returned slice must not be modified.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Len returns the number of list elements or map entries.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return v.m.Len()
	default:
		return 0
	}
}

// Get returns the value stored under key in a map value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	return v.m.Get(key)
}

// Keys returns map keys in order.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, v.m.Len())
	for p := v.m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Pairs returns map entries in order.
func (v Value) Pairs() []Pair {
	if v.kind != KindMap {
		return nil
	}
	pairs := make([]Pair, 0, v.m.Len())
	for p := v.m.Oldest(); p != nil; p = p.Next() {
		pairs = append(pairs, Pair{Key: p.Key, Value: p.Value})
	}
	return pairs
}

// With returns a copy of map value v with key set to val. An existing key
// keeps its position; a new key is appended. Non-map receivers are treated
// as an empty map.
func (v Value) With(key string, val Value) Value {
	pairs := v.Pairs()
	pairs = append(pairs, Pair{Key: key, Value: val})
	return Map(pairs...)
}

// Truthy mirrors the loose truthiness front-matter authors expect: null,
// false, zero and the empty string are falsy; lists and maps are always truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindString:
		return v.str != ""
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0 && !math.IsNaN(v.f)
	case KindBool:
		return v.b
	default:
		return true
	}
}

// Equal reports deep equality. Map comparison is order sensitive.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if v.m.Len() != o.m.Len() {
			return false
		}
		a, b := v.m.Oldest(), o.m.Oldest()
		for a != nil && b != nil {
			if a.Key != b.Key || !a.Value.Equal(b.Value) {
				return false
			}
			a, b = a.Next(), b.Next()
		}
		return a == nil && b == nil
	}
	return false
}

// Walk calls fn for every string leaf reachable from v, depth first.
func (v Value) Walk(fn func(s string)) {
	switch v.kind {
	case KindString:
		fn(v.str)
	case KindList:
		for _, item := range v.list {
			item.Walk(fn)
		}
	case KindMap:
		for p := v.m.Oldest(); p != nil; p = p.Next() {
			p.Value.Walk(fn)
		}
	}
}
