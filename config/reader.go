// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"io"
	"strings"

	"github.com/z5labs/strata/config/value"
	"github.com/z5labs/strata/internal/try"
)

// Reader represents a Source which decodes a document read from an io.Reader.
type Reader struct {
	dec  Decoder
	open func() io.Reader
}

// FromReader returns a source which will apply its config from the
// document read from r. If r is an io.Closer it is closed once read.
//
// Since r can only be consumed once, building the source twice yields
// an empty document the second time.
func FromReader(dec Decoder, r io.Reader) Reader {
	return Reader{
		dec: dec,
		open: func() io.Reader {
			return r
		},
	}
}

// FromBytes returns a source which will apply its config from b.
func FromBytes(dec Decoder, b []byte) Reader {
	return Reader{
		dec: dec,
		open: func() io.Reader {
			return bytes.NewReader(b)
		},
	}
}

// FromString returns a source which will apply its config from s.
func FromString(dec Decoder, s string) Reader {
	return Reader{
		dec: dec,
		open: func() io.Reader {
			return strings.NewReader(s)
		},
	}
}

// Origin implements the Source interface.
func (src Reader) Origin() Origin {
	return OriginMemory
}

// String implements the fmt.Stringer interface.
func (src Reader) String() string {
	return src.dec.Format() + " reader"
}

// Produce implements the Source interface.
func (src Reader) Produce() (value.Value, error) {
	b, err := readAllAndClose(src.open())
	if err != nil {
		return value.Value{}, IoError{Cause: err}
	}

	v, err := src.dec.Decode(b)
	if err != nil {
		return value.Value{}, ParseError{Format: src.dec.Format(), Cause: err}
	}
	return v, nil
}

func readAllAndClose(r io.Reader) (_ []byte, err error) {
	defer try.Close(&err, r)
	return io.ReadAll(r)
}
