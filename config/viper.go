// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"github.com/z5labs/strata/config/value"

	"github.com/spf13/viper"
)

// Viper represents a Source backed by a viper instance, which lets
// existing viper setups take part in a layered build.
type Viper struct {
	v *viper.Viper
}

// FromViper returns a source which will apply its config from every
// setting known to v. Viper lower cases all keys.
func FromViper(v *viper.Viper) Viper {
	return Viper{v: v}
}

// Origin implements the Source interface.
func (src Viper) Origin() Origin {
	return OriginMemory
}

// String implements the fmt.Stringer interface.
func (src Viper) String() string {
	return "viper"
}

// Produce implements the Source interface.
func (src Viper) Produce() (value.Value, error) {
	v, err := value.FromAny(src.v.AllSettings())
	if err != nil {
		return value.Value{}, EncodeError{Cause: err}
	}
	if v.IsNull() {
		return value.Mapping(), nil
	}
	return v, nil
}
