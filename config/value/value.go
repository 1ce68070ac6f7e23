// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package value provides the untyped, format agnostic tree every config
// source is converted into before being merged.
package value

import (
	"slices"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindString:   "string",
	KindSequence: "sequence",
	KindMapping:  "mapping",
}

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Entry is a single key value pair of a mapping.
type Entry struct {
	Key   string
	Value Value
}

// Value is an immutable configuration tree. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	m    []Entry
	idx  map[string]int
}

// Null returns the Null value.
func Null() Value {
	return Value{}
}

// Bool returns a Value holding b.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns a Value holding i.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float returns a Value holding f.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// String returns a Value holding s.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Sequence returns a Value holding a copy of vs.
func Sequence(vs ...Value) Value {
	return Value{kind: KindSequence, seq: slices.Clone(vs)}
}

// Mapping returns a Value holding the given entries. When a key is
// repeated the last value wins but the key keeps its first position.
func Mapping(entries ...Entry) Value {
	m := make([]Entry, 0, len(entries))
	idx := make(map[string]int, len(entries))
	for _, e := range entries {
		if i, ok := idx[e.Key]; ok {
			m[i].Value = e.Value
			continue
		}
		idx[e.Key] = len(m)
		m = append(m, e)
	}
	return newMapping(m, idx)
}

// newMapping takes ownership of m and idx.
func newMapping(m []Entry, idx map[string]int) Value {
	return Value{kind: KindMapping, m: m, idx: idx}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is Null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean held by v, if any.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Int returns the integer held by v, if any.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Float returns the float held by v, if any.
func (v Value) Float() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// Str returns the string held by v, if any.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// Len returns the number of elements of a sequence or entries of a mapping.
// It is zero for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.m)
	default:
		return 0
	}
}

// Index returns the i-th element of a sequence. It panics if v is not
// a sequence or i is out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindSequence {
		panic("value: Index called on " + v.kind.String())
	}
	return v.seq[i]
}

// Items returns a copy of the elements of a sequence.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return slices.Clone(v.seq)
}

// Entries returns a copy of the entries of a mapping in insertion order.
func (v Value) Entries() []Entry {
	if v.kind != KindMapping {
		return nil
	}
	return slices.Clone(v.m)
}

// Keys returns the keys of a mapping in insertion order.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, len(v.m))
	for i, e := range v.m {
		keys[i] = e.Key
	}
	return keys
}

// Lookup returns the value stored under key in a mapping.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	i, ok := v.idx[key]
	if !ok {
		return Value{}, false
	}
	return v.m[i].Value, true
}

// LookupFold is like Lookup but matches key case-insensitively when
// there is no exact match.
func (v Value) LookupFold(key string) (Value, bool) {
	if x, ok := v.Lookup(key); ok {
		return x, true
	}
	for _, e := range v.m {
		if strings.EqualFold(e.Key, key) {
			return e.Value, true
		}
	}
	return Value{}, false
}

// LookupPath walks nested mappings following path.
func (v Value) LookupPath(path ...string) (Value, bool) {
	cur := v
	for _, k := range path {
		next, ok := cur.Lookup(k)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Equal reports whether a and b are deeply equal. Mapping entry order
// is ignored and Int and Float values never compare equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindSequence:
		return slices.EqualFunc(a.seq, b.seq, Equal)
	case KindMapping:
		if len(a.m) != len(b.m) {
			return false
		}
		for _, e := range a.m {
			other, ok := b.Lookup(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}
