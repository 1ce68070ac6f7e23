// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/z5labs/strata/config"
	"github.com/z5labs/strata/config/key"
	"github.com/z5labs/strata/config/value"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SetFlagError occurs when a --set value is not of the form key=value.
type SetFlagError struct {
	Value string
}

// Error implements the error interface.
func (e SetFlagError) Error() string {
	return fmt.Sprintf("invalid --set value, expected key=value: %q", e.Value)
}

// UnknownOutputError occurs when the requested output format is not supported.
type UnknownOutputError struct {
	Format string
}

// Error implements the error interface.
func (e UnknownOutputError) Error() string {
	return fmt.Sprintf("unknown output format: %q", e.Format)
}

type mergeOptions struct {
	files         []string
	optionalFiles []string
	envPrefix     string
	envSeparator  string
	caseSensitive bool
	sets          []string
	output        string
}

func newMergeCommand(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var opts mergeOptions

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge config sources and print the result",
		Long: `Merge config sources and print the result.

Sources are applied in the following order, later ones overriding earlier ones:
  1. --file, in the order given
  2. --optional-file, in the order given
  3. environment variables, if --env-prefix is set
  4. --set, in the order given`,
		Example: `  strata merge -f base.yaml -f prod.toml --env-prefix APP_ --set db.host=localhost -o yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd.OutOrStdout(), logger(cmd), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.files, "file", "f", nil, "config file which must exist, decoded by its extension")
	flags.StringArrayVar(&opts.optionalFiles, "optional-file", nil, "config file which is skipped if missing")
	flags.StringVar(&opts.envPrefix, "env-prefix", "", "read environment variables starting with this prefix")
	flags.StringVar(&opts.envSeparator, "env-separator", "_", "separator between nested keys in environment variable names")
	flags.BoolVar(&opts.caseSensitive, "case-sensitive", false, "match the env prefix and all keys case sensitively")
	flags.StringArrayVar(&opts.sets, "set", nil, "set a value with dotted key=value")
	flags.StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

var outputFormats = []string{"json", "yaml"}

func runMerge(w io.Writer, log *slog.Logger, opts mergeOptions) error {
	if !slices.Contains(outputFormats, opts.output) {
		return UnknownOutputError{Format: opts.output}
	}

	builderOpts := []config.BuilderOption{config.Logger(log)}
	if opts.caseSensitive {
		builderOpts = append(builderOpts, config.CaseSensitiveKeys())
	}

	b := config.NewBuilder(builderOpts...)
	for _, path := range opts.files {
		b.Collect(config.FromFileByExt(path))
	}
	for _, path := range opts.optionalFiles {
		b.Collect(config.FromFileByExt(path, config.Optional()))
	}
	if opts.envPrefix != "" {
		b.Collect(config.FromEnv(
			config.Prefix(opts.envPrefix),
			config.Separator(opts.envSeparator),
			config.CaseSensitive(opts.caseSensitive),
		))
	}
	if len(opts.sets) > 0 {
		src, err := setSource(opts.sets)
		if err != nil {
			return err
		}
		b.Collect(src)
	}

	v, err := b.Value()
	if err != nil {
		return err
	}
	if v.IsNull() {
		v = value.Mapping()
	}
	return printValue(w, v, opts.output)
}

func setSource(sets []string) (config.Source, error) {
	vs := make([]value.Value, 0, len(sets))
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		chain := key.Split(k, ".", false)
		if !ok || len(chain) == 0 {
			return nil, SetFlagError{Value: s}
		}
		vs = append(vs, chain.Nest(value.String(v)))
	}

	merged := value.Fold(vs...)
	return config.SourceFunc(func() (value.Value, error) {
		return merged, nil
	}), nil
}

func printValue(w io.Writer, v value.Value, format string) error {
	switch format {
	case "json":
		b, err := v.MarshalJSON()
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		err = json.Indent(&buf, b, "", "  ")
		if err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err = buf.WriteTo(w)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(v)
		if err != nil {
			return err
		}
		return enc.Close()
	default:
		return UnknownOutputError{Format: format}
	}
}
