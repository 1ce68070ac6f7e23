// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"slices"

	"github.com/z5labs/strata/config/value"

	"gopkg.in/yaml.v3"
)

// Yaml decodes YAML documents. Mapping keys keep their document order,
// aliases are resolved and merge keys (<<) are applied beneath the
// mapping's own keys. Within a merge sequence earlier maps win.
type Yaml struct{}

// Format implements the Decoder interface.
func (Yaml) Format() string {
	return "yaml"
}

// Decode implements the Decoder interface.
func (Yaml) Decode(b []byte) (value.Value, error) {
	var n yaml.Node
	err := yaml.Unmarshal(b, &n)
	if err != nil {
		return value.Value{}, err
	}
	if n.Kind == 0 {
		return value.Mapping(), nil
	}
	return fromYamlNode(&n)
}

func fromYamlNode(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Mapping(), nil
		}
		return fromYamlNode(n.Content[0])
	case yaml.AliasNode:
		return fromYamlNode(n.Alias)
	case yaml.SequenceNode:
		vs := make([]value.Value, len(n.Content))
		for i, c := range n.Content {
			v, err := fromYamlNode(c)
			if err != nil {
				return value.Value{}, err
			}
			vs[i] = v
		}
		return value.Sequence(vs...), nil
	case yaml.MappingNode:
		return fromYamlMapping(n)
	case yaml.ScalarNode:
		return fromYamlScalar(n)
	default:
		return value.Value{}, fmt.Errorf("line %d: unsupported yaml node kind: %d", n.Line, n.Kind)
	}
}

func fromYamlMapping(n *yaml.Node) (value.Value, error) {
	var merged value.Value
	entries := make([]value.Entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]

		x, err := fromYamlNode(v)
		if err != nil {
			return value.Value{}, err
		}

		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			if x.Kind() == value.KindSequence {
				items := x.Items()
				slices.Reverse(items)
				x = value.Fold(items...)
			}
			merged = value.Merge(merged, x)
			continue
		}

		if k.Kind != yaml.ScalarNode {
			return value.Value{}, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
		}
		entries = append(entries, value.Entry{Key: k.Value, Value: x})
	}
	return value.Merge(merged, value.Mapping(entries...)), nil
}

func fromYamlScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null(), nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		err := n.Decode(&i)
		if err != nil {
			return value.Value{}, err
		}
		return value.Int(i), nil
	case "!!float":
		var f float64
		err := n.Decode(&f)
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(f), nil
	default:
		return value.String(n.Value), nil
	}
}
