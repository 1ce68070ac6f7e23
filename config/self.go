// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"

	"github.com/z5labs/strata/config/value"
	"github.com/z5labs/strata/internal/try"
)

// SelfOption represents options for configuring a Self source.
type SelfOption func(*Self)

// SelfTagName sets the struct tag used to name struct fields.
// It should match the TagName given to the Builder.
func SelfTagName(name string) SelfOption {
	return func(s *Self) {
		s.enc.TagName = name
	}
}

// Self represents a Source backed by an already constructed Go value,
// most commonly a struct holding default values.
type Self struct {
	v   any
	enc value.Encoder
}

// FromSelf returns a source which will apply its config from v.
func FromSelf(v any, opts ...SelfOption) Self {
	s := Self{v: v}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Origin implements the Source interface.
func (src Self) Origin() Origin {
	return OriginMemory
}

// String implements the fmt.Stringer interface.
func (src Self) String() string {
	return fmt.Sprintf("%T", src.v)
}

// Produce implements the Source interface. A panic while encoding,
// e.g. from a broken encoding.TextMarshaler, is reported as an [EncodeError].
func (src Self) Produce() (v value.Value, err error) {
	defer func() {
		if err != nil {
			v = value.Value{}
			err = EncodeError{Cause: err}
		}
	}()
	defer try.Recover(&err)

	return src.enc.Encode(src.v)
}
