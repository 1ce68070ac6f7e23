// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides layered configuration built from multiple sources.
//
// Every Source converts its origin (environment variables, files, in-memory
// structs, command line flags) into a [value.Value]. A Builder collects
// sources in precedence order, least specific first, deep merges the
// values they produce and decodes the result into a typed target.
//
// # Basic Usage
//
// Defaults, then a config file, then environment variables:
//
//	type Config struct {
//	    Host string        `config:"host,required"`
//	    Port int           `config:"port"`
//	    Timeout time.Duration `config:"timeout"`
//	}
//
//	cfg, err := config.Build[Config](
//	    config.NewBuilder().
//	        Collect(config.FromSelf(Config{Port: 8080})).
//	        Collect(config.FromFile(config.Yaml{}, "config.yaml", config.Optional())).
//	        Collect(config.FromEnv(config.Prefix("APP_"))),
//	)
//
// # Merging
//
// Mappings are merged key by key. Sequences and scalars from a later source
// replace earlier ones wholesale and null never overrides a present value.
// See [value.Merge] for the complete rules.
//
// # Error Handling
//
// A failing source aborts the build with a [SourceError] carrying its
// registration index. Decoding failures, including fields tagged
// "required" which no source provided, are reported as a [DecodeError].
// A Builder can only be built once, subsequent builds fail with
// [ErrAlreadyBuilt].
package config
