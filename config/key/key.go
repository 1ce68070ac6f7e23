// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package key provides types for strongly typed keys in key value pairs.
package key

import (
	"strings"

	"github.com/z5labs/strata/config/value"
)

// Keyer is a common interface all value key types must implement.
type Keyer interface {
	Key() string
}

// Chain represents nested keys.
type Chain []Keyer

// Key implements the [Keyer] interface.
func (k Chain) Key() string {
	ss := make([]string, len(k))
	for i := range len(k) {
		ss[i] = k[i].Key()
	}
	return strings.Join(ss, ".")
}

// Nest wraps v in one single entry mapping per key in the chain, e.g.
// the chain a.b.c nests v as {a: {b: {c: v}}}. An empty chain returns v.
func (k Chain) Nest(v value.Value) value.Value {
	for i := len(k) - 1; i >= 0; i-- {
		v = value.Mapping(value.Entry{Key: k[i].Key(), Value: v})
	}
	return v
}

// Name represents a single key. Name can be used other keys.
type Name string

// Key implements the [Keyer] interface.
func (k Name) Key() string {
	return string(k)
}

// Split breaks s into a Chain on every occurrence of sep. Empty
// segments are dropped and, when fold is true, segments are lower cased.
func Split(s, sep string, fold bool) Chain {
	if sep == "" {
		sep = "."
	}

	var chain Chain
	for _, seg := range strings.Split(s, sep) {
		if seg == "" {
			continue
		}
		if fold {
			seg = strings.ToLower(seg)
		}
		chain = append(chain, Name(seg))
	}
	return chain
}
