// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/z5labs/strata/config/key"
	"github.com/z5labs/strata/config/value"

	"github.com/go-viper/mapstructure/v2"
)

type decodeOptions struct {
	tagName       string
	errorUnused   bool
	caseSensitive bool
}

func decode(v value.Value, target any, opts decodeOptions) error {
	cfg := &mapstructure.DecoderConfig{
		TagName:          opts.tagName,
		Result:           target,
		Squash:           true,
		WeaklyTypedInput: true,
		ErrorUnused:      opts.errorUnused,
		DecodeHook: composeDecodeHooks(
			textUnmarshalerHookFunc(),
			timeDurationHookFunc(),
		),
	}
	if opts.caseSensitive {
		cfg.MatchName = func(mapKey, fieldName string) bool {
			return mapKey == fieldName
		}
	}

	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return DecodeError{Cause: err}
	}

	rc := requiredChecker{
		tagName:       opts.tagName,
		caseSensitive: opts.caseSensitive,
	}
	err = rc.check(reflect.TypeOf(target), v, nil)
	if err != nil {
		return DecodeError{Cause: err}
	}

	err = dec.Decode(v.Interface())
	if err != nil {
		return DecodeError{Cause: err}
	}
	return nil
}

type requiredChecker struct {
	tagName       string
	caseSensitive bool
}

// check walks the struct type t alongside v and reports the
// first field tagged "required" which v does not provide.
func (rc requiredChecker) check(t reflect.Type, v value.Value, chain key.Chain) error {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, opts := parseTag(field.Tag.Get(rc.tagName))
		if name == "-" {
			continue
		}

		squash := field.Anonymous || slices.Contains(opts, "squash")
		if squash && indirectKind(field.Type) == reflect.Struct {
			err := rc.check(field.Type, v, chain)
			if err != nil {
				return err
			}
			continue
		}

		if name == "" {
			name = field.Name
		}
		fieldChain := append(slices.Clone(chain), key.Name(name))

		fv, ok := rc.lookup(v, name)
		if !ok || fv.IsNull() {
			if slices.Contains(opts, "required") {
				return MissingFieldError{Path: fieldChain.Key()}
			}
			continue
		}

		err := rc.check(field.Type, fv, fieldChain)
		if err != nil {
			return err
		}
	}
	return nil
}

func (rc requiredChecker) lookup(v value.Value, name string) (value.Value, bool) {
	if rc.caseSensitive {
		return v.Lookup(name)
	}
	return v.LookupFold(name)
}

func indirectKind(t reflect.Type) reflect.Kind {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind()
}

func parseTag(tag string) (string, []string) {
	name, rest, _ := strings.Cut(tag, ",")
	if rest == "" {
		return name, nil
	}
	return name, strings.Split(rest, ",")
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

// TypeCoercionError occurs when attempting to unmarshal a config
// value to a struct field whose type does not match the config
// value type, up to, coercion.
type TypeCoercionError struct {
	from  reflect.Value
	to    reflect.Value
	Cause error
}

// Error implements the error interface.
func (e TypeCoercionError) Error() string {
	return fmt.Sprintf("failed to coerce value from %s to %s: %s", e.from.Type(), e.to.Type(), e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if err == errInvalidDecodeCondition {
				continue
			}
			return nil, TypeCoercionError{
				from:  f,
				to:    t,
				Cause: err,
			}
		}
		return f.Interface(), nil
	}
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t)
		u, ok := result.Interface().(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}
		err := u.UnmarshalText([]byte(reflect.ValueOf(data).String()))
		if err != nil {
			return nil, err
		}
		return result.Elem().Interface(), nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return nil, errInvalidDecodeCondition
		}

		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(reflect.ValueOf(data).String())
		case reflect.Int, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}
