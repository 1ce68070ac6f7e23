// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package configtmpl provides template functions for use in config source templates.
package configtmpl

import (
	"os"
	"reflect"
	"text/template"
)

// FuncMap returns every function of this package keyed by the name
// templates refer to it with.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"env":     Env,
		"default": Default,
	}
}

// Env returns the environment variable value for the given key
// or an empty string, if the environment variable does not exist.
//
// The environment is read on every call so repeated builds observe
// changes to it.
func Env(key string) string {
	return os.Getenv(key)
}

// Default returns the provided def value if v is either nil or the zero value for its type.
//
//	port: {{ env "PORT" | default 8080 }}
func Default(def, v any) any {
	if v == nil {
		return def
	}
	val := reflect.ValueOf(v)
	if val.IsZero() {
		return def
	}
	return v
}
