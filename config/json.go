// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/z5labs/strata/config/value"
)

// Json decodes JSON documents. Object keys keep their document order
// and numbers without a fraction or exponent become integers.
type Json struct{}

// Format implements the Decoder interface.
func (Json) Format() string {
	return "json"
}

// Decode implements the Decoder interface.
func (Json) Decode(b []byte) (value.Value, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return value.Mapping(), nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	v, err := decodeJsonValue(dec)
	if err != nil {
		return value.Value{}, err
	}

	tok, err := dec.Token()
	if err == nil {
		return value.Value{}, fmt.Errorf("unexpected trailing data: %v", tok)
	}
	if !errors.Is(err, io.EOF) {
		return value.Value{}, err
	}
	return v, nil
}

func decodeJsonValue(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return value.Value{}, io.ErrUnexpectedEOF
	}
	if err != nil {
		return value.Value{}, err
	}

	switch x := tok.(type) {
	case json.Delim:
		switch x {
		case '{':
			return decodeJsonObject(dec)
		case '[':
			return decodeJsonArray(dec)
		default:
			return value.Value{}, fmt.Errorf("unexpected delimiter: %s", x)
		}
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return value.Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(f), nil
	case string:
		return value.String(x), nil
	case bool:
		return value.Bool(x), nil
	case nil:
		return value.Null(), nil
	default:
		return value.Value{}, fmt.Errorf("unexpected json token: %v", tok)
	}
}

func decodeJsonObject(dec *json.Decoder) (value.Value, error) {
	var entries []value.Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return value.Value{}, err
		}
		k, ok := tok.(string)
		if !ok {
			return value.Value{}, fmt.Errorf("expected object key but got: %v", tok)
		}

		v, err := decodeJsonValue(dec)
		if err != nil {
			return value.Value{}, err
		}
		entries = append(entries, value.Entry{Key: k, Value: v})
	}
	err := closeJsonDelim(dec)
	if err != nil {
		return value.Value{}, err
	}
	return value.Mapping(entries...), nil
}

func decodeJsonArray(dec *json.Decoder) (value.Value, error) {
	var vs []value.Value
	for dec.More() {
		v, err := decodeJsonValue(dec)
		if err != nil {
			return value.Value{}, err
		}
		vs = append(vs, v)
	}
	err := closeJsonDelim(dec)
	if err != nil {
		return value.Value{}, err
	}
	return value.Sequence(vs...), nil
}

func closeJsonDelim(dec *json.Decoder) error {
	_, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
