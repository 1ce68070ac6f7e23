// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"github.com/z5labs/strata/config/key"
	"github.com/z5labs/strata/config/value"

	"github.com/spf13/pflag"
)

// FlagOption represents options for configuring a Flags source.
type FlagOption func(*Flags)

// FlagSeparator sets the string flag names are split on to build
// nested keys. Defaults to ".".
func FlagSeparator(sep string) FlagOption {
	return func(f *Flags) {
		f.sep = sep
	}
}

// Flags represents a Source backed by command line flags. Only flags
// set on the command line contribute, so flag defaults never override
// values from earlier sources.
type Flags struct {
	fs  *pflag.FlagSet
	sep string
}

// FromFlags returns a source which will apply its config from the
// changed flags of fs. A flag named db.host becomes {db: {host: "..."}}.
func FromFlags(fs *pflag.FlagSet, opts ...FlagOption) Flags {
	f := Flags{
		fs:  fs,
		sep: ".",
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Origin implements the Source interface.
func (src Flags) Origin() Origin {
	return OriginFlags
}

// String implements the fmt.Stringer interface.
func (src Flags) String() string {
	return src.fs.Name()
}

// Produce implements the Source interface. Slice flags become
// sequences of strings, every other flag a string.
func (src Flags) Produce() (value.Value, error) {
	m := value.Mapping()
	src.fs.Visit(func(f *pflag.Flag) {
		chain := key.Split(f.Name, src.sep, false)
		if len(chain) == 0 {
			return
		}
		m = value.Merge(m, chain.Nest(flagValue(f.Value)))
	})
	return m, nil
}

func flagValue(fv pflag.Value) value.Value {
	sv, ok := fv.(pflag.SliceValue)
	if !ok {
		return value.String(fv.String())
	}

	items := sv.GetSlice()
	vs := make([]value.Value, len(items))
	for i, item := range items {
		vs[i] = value.String(item)
	}
	return value.Sequence(vs...)
}
