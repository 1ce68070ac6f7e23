// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"os"
	"slices"
	"strings"

	"github.com/z5labs/strata/config/key"
	"github.com/z5labs/strata/config/value"
)

// EnvOption represents options for configuring an Env source.
type EnvOption func(*Env)

// Prefix restricts the Env source to variables starting with prefix.
// The prefix is stripped before the variable name is split into keys.
func Prefix(prefix string) EnvOption {
	return func(e *Env) {
		e.prefix = prefix
	}
}

// Separator sets the string variable names are split on to build
// nested keys. Defaults to "_".
func Separator(sep string) EnvOption {
	return func(e *Env) {
		e.sep = sep
	}
}

// CaseSensitive controls whether the prefix is matched exactly and
// whether keys keep their case. By default keys are lower cased.
func CaseSensitive(b bool) EnvOption {
	return func(e *Env) {
		e.caseSensitive = b
	}
}

// Environ replaces the function used to list environment variables
// as "key=value" pairs. Defaults to os.Environ.
func Environ(f func() ([]string, error)) EnvOption {
	return func(e *Env) {
		e.environ = f
	}
}

// Env represents a Source where its underlying values
// are extracted from environment variables.
type Env struct {
	prefix        string
	sep           string
	caseSensitive bool
	environ       func() ([]string, error)
}

// FromEnv returns a Source which will apply its config
// from the environment variables available to the
// current process.
//
// A variable named APP_DB_HOST, with prefix "APP_", becomes the
// value {db: {host: "..."}}. Values are always strings.
func FromEnv(opts ...EnvOption) Env {
	e := Env{
		sep: "_",
		environ: func() ([]string, error) {
			return os.Environ(), nil
		},
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Origin implements the Source interface.
func (src Env) Origin() Origin {
	return OriginEnv
}

// String implements the fmt.Stringer interface.
func (src Env) String() string {
	if src.prefix == "" {
		return "env"
	}
	return "env " + src.prefix + "*"
}

type envVar struct {
	name  string
	chain key.Chain
	value string
}

// Produce implements the Source interface.
//
// Variables are merged in name order so conflicting shapes, like A=1
// and A_B=2, always resolve the same way.
func (src Env) Produce() (value.Value, error) {
	env, err := src.environ()
	if err != nil {
		return value.Value{}, EnvAccessError{Cause: err}
	}

	vars := make([]envVar, 0, len(env))
	for _, pair := range env {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, ok := src.trimPrefix(k)
		if !ok {
			continue
		}
		chain := key.Split(name, src.sep, !src.caseSensitive)
		if len(chain) == 0 {
			continue
		}
		vars = append(vars, envVar{name: k, chain: chain, value: v})
	}

	slices.SortFunc(vars, func(a, b envVar) int {
		return strings.Compare(a.name, b.name)
	})

	m := value.Mapping()
	for _, v := range vars {
		m = value.Merge(m, v.chain.Nest(value.String(v.value)))
	}
	return m, nil
}

func (src Env) trimPrefix(k string) (string, bool) {
	if src.caseSensitive {
		return strings.CutPrefix(k, src.prefix)
	}
	if len(k) < len(src.prefix) || !strings.EqualFold(k[:len(src.prefix)], src.prefix) {
		return "", false
	}
	return k[len(src.prefix):], true
}
