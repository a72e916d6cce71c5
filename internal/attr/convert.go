package attr

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// FromYAML converts a decoded YAML node into a Value, keeping mapping order.
// Aliases are resolved and `<<` merge keys are expanded; explicit keys win
// over merged ones. Timestamps keep their source text.
func FromYAML(n *yaml.Node) (Value, error) {
	if n == nil {
		return Null(), nil
	}
	switch n.Kind {
	case 0:
		return Null(), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return FromYAML(n.Content[0])
	case yaml.AliasNode:
		return FromYAML(n.Alias)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := FromYAML(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindList, list: items}, nil
	case yaml.MappingNode:
		return mappingFromYAML(n)
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	default:
		return Value{}, fmt.Errorf("attr: unsupported yaml node kind %d at line %d", n.Kind, n.Line)
	}
}

func mappingFromYAML(n *yaml.Node) (Value, error) {
	var explicit, merged []Pair
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, val := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return Value{}, fmt.Errorf("attr: non-scalar mapping key at line %d", k.Line)
		}
		if k.ShortTag() == "!!merge" {
			pairs, err := mergePairs(val)
			if err != nil {
				return Value{}, err
			}
			merged = append(merged, pairs...)
			continue
		}
		item, err := FromYAML(val)
		if err != nil {
			return Value{}, err
		}
		explicit = append(explicit, Pair{Key: k.Value, Value: item})
	}
	if len(merged) == 0 {
		return Map(explicit...), nil
	}
	out := Map(merged...)
	for _, p := range explicit {
		out.m.Set(p.Key, p.Value)
	}
	return out, nil
}

func mergePairs(n *yaml.Node) ([]Pair, error) {
	if n.Kind == yaml.SequenceNode {
		var out []Pair
		for _, c := range n.Content {
			pairs, err := mergePairs(c)
			if err != nil {
				return nil, err
			}
			out = append(out, pairs...)
		}
		return out, nil
	}
	v, err := FromYAML(n)
	if err != nil {
		return nil, err
	}
	if v.kind != KindMap {
		return nil, fmt.Errorf("attr: merge value at line %d is not a mapping", n.Line)
	}
	return v.Pairs(), nil
}

func scalarFromYAML(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("attr: line %d: %w", n.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return Float(f), nil
		}
		return String(n.Value), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("attr: line %d: %w", n.Line, err)
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}

// FromAny converts plain decoded Go data (as produced by TOML or JSON
// decoders into map[string]any) into a Value. Map keys are sorted because
// Go maps carry no order.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint64:
		if t > 1<<63-1 {
			return Float(float64(t)), nil
		}
		return Int(int64(t)), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case time.Time:
		return String(t.Format(time.RFC3339Nano)), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, e := range t {
			item, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindList, list: items}, nil
	case []map[string]any:
		items := make([]Value, 0, len(t))
		for _, e := range t {
			item, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindList, list: items}, nil
	case map[string]any:
		pairs := make([]Pair, 0, len(t))
		for _, k := range slices.Sorted(maps.Keys(t)) {
			item, err := FromAny(t[k])
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: k, Value: item})
		}
		return Map(pairs...), nil
	case fmt.Stringer:
		return String(t.String()), nil
	default:
		return Value{}, fmt.Errorf("attr: unsupported value type %T", x)
	}
}
