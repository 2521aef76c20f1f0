package foreign

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLSource exposes a YAML sequence node. Scalar nodes are boxes that
// unbox to bool, int32, float64 or string; !!null is null. Nested sequences
// unbox to another YAMLSource and mappings to a wrapped mapping node; both
// reach the runtime as foreign references.
type YAMLSource struct {
	node *yaml.Node
}

// NewYAMLSource adapts a sequence node. A document node is unwrapped.
func NewYAMLSource(n *yaml.Node) (*YAMLSource, error) {
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: yaml node is not a sequence", n.Line)
	}
	return &YAMLSource{node: n}, nil
}

// ParseYAML parses data and adapts its top-level sequence.
func ParseYAML(data []byte) (*YAMLSource, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return NewYAMLSource(&doc)
}

func (s *YAMLSource) Size() (int, error) {
	return len(s.node.Content), nil
}

func (s *YAMLSource) ReadAt(i int) (any, error) {
	if i < 0 || i >= len(s.node.Content) {
		return nil, fmt.Errorf("index %d out of range [0:%d]", i, len(s.node.Content))
	}
	return s.node.Content[i], nil
}

func (s *YAMLSource) IsNull(v any) bool {
	n, ok := v.(*yaml.Node)
	if !ok {
		return v == nil
	}
	n = resolveAlias(n)
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func (s *YAMLSource) IsBoxed(v any) bool {
	_, ok := v.(*yaml.Node)
	return ok
}

func (s *YAMLSource) Unbox(v any) (any, error) {
	n, ok := v.(*yaml.Node)
	if !ok {
		return nil, fmt.Errorf("%T is not a yaml node", v)
	}
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.SequenceNode:
		return &YAMLSource{node: n}, nil
	case yaml.MappingNode:
		return yamlMapping{n}, nil
	case yaml.ScalarNode:
		var x any
		switch n.ShortTag() {
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			x = b
		case "!!int":
			var i int64
			if err := n.Decode(&i); err != nil {
				return nil, err
			}
			if i == int64(int32(i)) {
				x = int32(i)
			} else {
				x = float64(i)
			}
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return nil, err
			}
			x = f
		case "!!null":
			return nil, nil
		default:
			x = n.Value
		}
		return x, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}

// yamlMapping marks a mapping node as unboxed so it is not opened twice.
type yamlMapping struct {
	node *yaml.Node
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
