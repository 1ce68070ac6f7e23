// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"log/slog"

	"github.com/z5labs/strata/config/value"
)

// Origin describes where a Source reads its values from.
type Origin uint8

const (
	OriginMemory Origin = iota
	OriginEnv
	OriginFile
	OriginFlags
)

// String implements the fmt.Stringer interface.
func (o Origin) String() string {
	switch o {
	case OriginMemory:
		return "memory"
	case OriginEnv:
		return "env"
	case OriginFile:
		return "file"
	case OriginFlags:
		return "flags"
	default:
		return fmt.Sprintf("origin(%d)", uint8(o))
	}
}

// Source defines valid config sources as those who can
// serialize themselves into a [value.Value].
//
// Sources may implement fmt.Stringer to name themselves in logs and errors.
type Source interface {
	Origin() Origin
	Produce() (value.Value, error)
}

// SourceFunc is an in-memory Source backed by a function.
type SourceFunc func() (value.Value, error)

// Origin implements the Source interface.
func (f SourceFunc) Origin() Origin {
	return OriginMemory
}

// Produce implements the Source interface.
func (f SourceFunc) Produce() (value.Value, error) {
	return f()
}

// BuilderOption represents options for configuring a Builder.
type BuilderOption func(*Builder)

// Logger sets the logger the Builder reports produced sources to.
func Logger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.log = logger
	}
}

// TagName sets the struct tag used to map config keys to struct fields.
// Defaults to "config".
func TagName(name string) BuilderOption {
	return func(b *Builder) {
		b.tagName = name
	}
}

// ErrorUnused makes decoding fail if the merged config contains keys
// which do not map to any field of the target.
func ErrorUnused() BuilderOption {
	return func(b *Builder) {
		b.errorUnused = true
	}
}

// CaseSensitiveKeys makes keys differing only in case distinct, both
// when merging sources and when decoding. By default they are the same
// key, matching how untagged struct fields are decoded.
func CaseSensitiveKeys() BuilderOption {
	return func(b *Builder) {
		b.caseSensitive = true
	}
}

// Builder collects sources and merges them into a single config.
// Sources collected later take precedence over earlier ones.
//
// A Builder is not safe for concurrent use and can only be built once.
type Builder struct {
	log           *slog.Logger
	tagName       string
	errorUnused   bool
	caseSensitive bool

	sources []Source
	built   bool
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		log:     slog.Default(),
		tagName: value.DefaultTagName,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Collect appends src to the sources of b. The source is not
// produced until b is built. Collecting into a built Builder is a no-op.
func (b *Builder) Collect(src Source) *Builder {
	if b.built {
		return b
	}
	b.sources = append(b.sources, src)
	return b
}

// Value produces every collected source in order and merges the
// results. The first failing source aborts with a [SourceError].
func (b *Builder) Value() (value.Value, error) {
	if b.built {
		return value.Value{}, ErrAlreadyBuilt
	}
	b.built = true

	sources := b.sources
	b.sources = nil

	vs := make([]value.Value, 0, len(sources))
	for i, src := range sources {
		v, err := src.Produce()
		if err != nil {
			return value.Value{}, SourceError{
				Index:  i,
				Origin: src.Origin(),
				Name:   sourceName(src),
				Cause:  err,
			}
		}

		b.log.Debug(
			"produced config source",
			slog.Int("index", i),
			slog.String("origin", src.Origin().String()),
			slog.String("name", sourceName(src)),
			slog.String("kind", v.Kind().String()),
			slog.Int("len", v.Len()),
		)
		vs = append(vs, v)
	}
	return value.Merger{FoldCase: !b.caseSensitive}.Fold(vs...), nil
}

// BuildInto builds b and decodes the merged config into v,
// which must be a non-nil pointer.
//
// Missing required fields are reported before v is touched. Any other
// decode failure may leave v partially populated.
func (b *Builder) BuildInto(v any) error {
	merged, err := b.Value()
	if err != nil {
		return err
	}
	return decode(merged, v, decodeOptions{
		tagName:       b.tagName,
		errorUnused:   b.errorUnused,
		caseSensitive: b.caseSensitive,
	})
}

// Build builds b and decodes the merged config into a T.
func Build[T any](b *Builder) (T, error) {
	var t T
	err := b.BuildInto(&t)
	if err != nil {
		var zero T
		return zero, err
	}
	return t, nil
}

func sourceName(src Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
