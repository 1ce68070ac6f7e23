// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"github.com/z5labs/strata/config/value"

	"cuelang.org/go/cue/cuecontext"
)

// Cue decodes CUE documents. Every field must evaluate to a concrete
// value. Struct keys are sorted.
type Cue struct{}

// Format implements the Decoder interface.
func (Cue) Format() string {
	return "cue"
}

// Decode implements the Decoder interface.
func (Cue) Decode(b []byte) (value.Value, error) {
	cv := cuecontext.New().CompileBytes(b)
	if err := cv.Err(); err != nil {
		return value.Value{}, err
	}

	var x any
	err := cv.Decode(&x)
	if err != nil {
		return value.Value{}, err
	}
	if x == nil {
		return value.Mapping(), nil
	}
	return value.FromAny(x)
}
