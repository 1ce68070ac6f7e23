// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package value

import (
	"encoding"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// DefaultTagName is the struct tag consulted for field names.
const DefaultTagName = "config"

// UnsupportedTypeError occurs when a Go value has no Value representation.
type UnsupportedTypeError struct {
	Type reflect.Type
}

// Error implements the error interface.
func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("value: unsupported type: %s", e.Type)
}

// OverflowError occurs when an unsigned integer does not fit in an int64.
type OverflowError struct {
	Value uint64
}

// Error implements the error interface.
func (e OverflowError) Error() string {
	return fmt.Sprintf("value: unsigned integer overflows int64: %d", e.Value)
}

// Encoder converts arbitrary Go values into Values.
type Encoder struct {
	// TagName is the struct tag used to name struct fields.
	// Defaults to DefaultTagName.
	TagName string
}

// FromAny converts v into a Value using the default Encoder.
func FromAny(v any) (Value, error) {
	return Encoder{}.Encode(v)
}

var (
	valueType         = reflect.TypeOf(Value{})
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	bigIntType        = reflect.TypeOf((*big.Int)(nil))
	bigFloatType      = reflect.TypeOf((*big.Float)(nil))
)

// Encode converts v into a Value.
//
// Struct fields are named by the encoder's tag, falling back to the
// field name. A tag name of "-" skips the field, the "omitempty" option
// skips zero values and the "squash" option, as well as embedding,
// flattens a struct field into its parent.
func (e Encoder) Encode(v any) (Value, error) {
	if v == nil {
		return Value{}, nil
	}
	return e.encode(reflect.ValueOf(v))
}

func (e Encoder) tagName() string {
	if e.TagName == "" {
		return DefaultTagName
	}
	return e.TagName
}

func (e Encoder) encode(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Value{}, nil
	}

	switch rv.Type() {
	case valueType:
		return rv.Interface().(Value), nil
	case bigIntType:
		if rv.IsNil() {
			return Value{}, nil
		}
		n := rv.Interface().(*big.Int)
		if n.IsInt64() {
			return Int(n.Int64()), nil
		}
		return String(n.String()), nil
	case bigFloatType:
		if rv.IsNil() {
			return Value{}, nil
		}
		f, _ := rv.Interface().(*big.Float).Float64()
		return Float(f), nil
	}

	if rv.Type().Implements(textMarshalerType) {
		if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
			return Value{}, nil
		}
		b, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return Value{}, err
		}
		return String(string(b)), nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{}, nil
		}
		return e.encode(rv.Elem())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, OverflowError{Value: u}
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return Value{}, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return String(string(rv.Bytes())), nil
		}
		return e.encodeList(rv)
	case reflect.Array:
		return e.encodeList(rv)
	case reflect.Map:
		if rv.IsNil() {
			return Value{}, nil
		}
		return e.encodeMap(rv)
	case reflect.Struct:
		entries, err := e.encodeStruct(rv, nil)
		if err != nil {
			return Value{}, err
		}
		return Mapping(entries...), nil
	default:
		return Value{}, UnsupportedTypeError{Type: rv.Type()}
	}
}

func (e Encoder) encodeList(rv reflect.Value) (Value, error) {
	vs := make([]Value, rv.Len())
	for i := range vs {
		v, err := e.encode(rv.Index(i))
		if err != nil {
			return Value{}, err
		}
		vs[i] = v
	}
	return Value{kind: KindSequence, seq: vs}, nil
}

func (e Encoder) encodeMap(rv reflect.Value) (Value, error) {
	entries := make([]Entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := mapKey(iter.Key())
		if err != nil {
			return Value{}, err
		}
		v, err := e.encode(iter.Value())
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, Entry{Key: k, Value: v})
	}

	// Go maps are unordered so sort for a deterministic result.
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Key, b.Key)
	})
	return Mapping(entries...), nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.Interface {
		k = k.Elem()
	}
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	case reflect.Bool:
		return strconv.FormatBool(k.Bool()), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(k.Float(), 'g', -1, 64), nil
	}
	if !k.IsValid() {
		return "", UnsupportedTypeError{Type: reflect.TypeOf(nil)}
	}
	return "", UnsupportedTypeError{Type: k.Type()}
}

func (e Encoder) encodeStruct(rv reflect.Value, entries []Entry) ([]Entry, error) {
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name, opts := parseTag(field.Tag.Get(e.tagName()))
		if name == "-" {
			continue
		}

		fv := rv.Field(i)
		if opts.has("omitempty") && fv.IsZero() {
			continue
		}

		squash := opts.has("squash") || field.Anonymous
		if squash {
			if fv.Kind() == reflect.Pointer && fv.IsNil() && fv.Type().Elem().Kind() == reflect.Struct {
				continue
			}
			sv := reflect.Indirect(fv)
			if sv.Kind() == reflect.Struct {
				var err error
				entries, err = e.encodeStruct(sv, entries)
				if err != nil {
					return nil, err
				}
				continue
			}
		}

		if name == "" {
			name = field.Name
		}
		v, err := e.encode(fv)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field.Name, err)
		}
		entries = append(entries, Entry{Key: name, Value: v})
	}
	return entries, nil
}

type tagOptions []string

func (o tagOptions) has(opt string) bool {
	return slices.Contains(o, opt)
}

func parseTag(tag string) (string, tagOptions) {
	name, rest, _ := strings.Cut(tag, ",")
	if rest == "" {
		return name, nil
	}
	return name, strings.Split(rest, ",")
}

// Interface converts v into plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindSequence:
		xs := make([]any, len(v.seq))
		for i, x := range v.seq {
			xs[i] = x.Interface()
		}
		return xs
	case KindMapping:
		m := make(map[string]any, len(v.m))
		for _, e := range v.m {
			m[e.Key] = e.Value.Interface()
		}
		return m
	default:
		return nil
	}
}
