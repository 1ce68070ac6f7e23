// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"path/filepath"
	"strings"

	"github.com/z5labs/strata/config/value"
)

// Decoder converts the raw bytes of a config document into a [value.Value].
type Decoder interface {
	// Format names the document format, e.g. "json".
	Format() string
	Decode([]byte) (value.Value, error)
}

// ByExtension returns the Decoder matching the extension of path.
func ByExtension(path string) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return Json{}, nil
	case ".yaml", ".yml":
		return Yaml{}, nil
	case ".toml":
		return Toml{}, nil
	case ".cue":
		return Cue{}, nil
	default:
		return nil, UnknownFormatError{Ext: ext}
	}
}
