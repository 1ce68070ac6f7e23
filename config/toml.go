// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"github.com/z5labs/strata/config/value"

	"github.com/pelletier/go-toml/v2"
)

// Toml decodes TOML documents. Table keys are sorted since the
// underlying decoder does not report document order. Dates and times
// become strings.
type Toml struct{}

// Format implements the Decoder interface.
func (Toml) Format() string {
	return "toml"
}

// Decode implements the Decoder interface.
func (Toml) Decode(b []byte) (value.Value, error) {
	var m map[string]any
	err := toml.Unmarshal(b, &m)
	if err != nil {
		return value.Value{}, err
	}
	if m == nil {
		return value.Mapping(), nil
	}
	return value.FromAny(m)
}
