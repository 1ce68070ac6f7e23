// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import "github.com/z5labs/strata/config/value"

// Map is an ordinary map[string]any but implements the Source interface.
// Nested map[string]any values become nested mappings.
type Map map[string]any

// Origin implements the Source interface.
func (m Map) Origin() Origin {
	return OriginMemory
}

// String implements the fmt.Stringer interface.
func (m Map) String() string {
	return "map"
}

// Produce implements the Source interface.
func (m Map) Produce() (value.Value, error) {
	if m == nil {
		return value.Mapping(), nil
	}
	v, err := value.FromAny(map[string]any(m))
	if err != nil {
		return value.Value{}, EncodeError{Cause: err}
	}
	return v, nil
}
