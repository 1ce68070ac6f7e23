// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"fmt"
)

// ErrAlreadyBuilt is returned when a Builder is built more than once.
var ErrAlreadyBuilt = errors.New("config: builder has already been built")

// IoError occurs when the bytes of a source cannot be read.
type IoError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e IoError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to read config: %s", e.Cause)
	}
	return fmt.Sprintf("failed to read config file %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e IoError) Unwrap() error {
	return e.Cause
}

// ParseError occurs when a Decoder rejects the bytes of a source.
type ParseError struct {
	Format string
	Cause  error
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Format, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ParseError) Unwrap() error {
	return e.Cause
}

// EncodeError occurs when an in-memory value cannot be converted to a [value.Value].
type EncodeError struct {
	Cause error
}

// Error implements the error interface.
func (e EncodeError) Error() string {
	return fmt.Sprintf("failed to encode config value: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e EncodeError) Unwrap() error {
	return e.Cause
}

// EnvAccessError occurs when the environment variables cannot be listed.
type EnvAccessError struct {
	Cause error
}

// Error implements the error interface.
func (e EnvAccessError) Error() string {
	return fmt.Sprintf("failed to read environment: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e EnvAccessError) Unwrap() error {
	return e.Cause
}

// SourceError wraps the failure of the Index-th source collected by a Builder.
type SourceError struct {
	Index  int
	Origin Origin
	Name   string
	Cause  error
}

// Error implements the error interface.
func (e SourceError) Error() string {
	return fmt.Sprintf("config source %d (%s %s) failed: %s", e.Index, e.Origin, e.Name, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e SourceError) Unwrap() error {
	return e.Cause
}

// DecodeError occurs when the merged config cannot be decoded into its target.
type DecodeError struct {
	Cause error
}

// Error implements the error interface.
func (e DecodeError) Error() string {
	return fmt.Sprintf("failed to decode config: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e DecodeError) Unwrap() error {
	return e.Cause
}

// MissingFieldError occurs when a field tagged as required is not
// present in the merged config.
type MissingFieldError struct {
	Path string
}

// Error implements the error interface.
func (e MissingFieldError) Error() string {
	return fmt.Sprintf("missing required config field: %s", e.Path)
}

// UnknownFormatError occurs when no Decoder is known for a file extension.
type UnknownFormatError struct {
	Ext string
}

// Error implements the error interface.
func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown config file format: %q", e.Ext)
}
