// YAML codec.
//
// Trees are converted to and from yaml.Node values rather than maps so
// that mapping order survives in both directions. Scalars are tagged
// explicitly, so a string such as "1" or "true" is quoted on output and
// reads back as a string.
package docfile

import (
	"bytes"
	"errors"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLCodec stores documents as YAML. Decode accepts the same shapes as
// JSONCodec.
type YAMLCodec struct{}

const (
	yamlNull  = "!!null"
	yamlBool  = "!!bool"
	yamlInt   = "!!int"
	yamlStr   = "!!str"
	yamlMap   = "!!map"
	yamlSeq   = "!!seq"
	yamlFloat = "!!float"
)

// Decode parses a mapping-rooted YAML document.
func (YAMLCodec) Decode(raw []byte) (*Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &DecodeError{Offset: -1, Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, decodeErrorf(-1, "expected a single yaml document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, decodeErrorf(-1, "line %d: document root must be a mapping", root.Line)
	}
	return yamlMapping(root)
}

// Encode returns flow-style YAML on a single line.
func (c YAMLCodec) Encode(t *Tree) ([]byte, error) {
	node := yamlTreeNode(t)
	setFlow(node)
	out, err := yaml.Marshal(node)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(out, "\n"), nil
}

// EncodePretty returns block-style YAML.
func (YAMLCodec) EncodePretty(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(len(prettyIndent))
	if err := enc.Encode(yamlTreeNode(t)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yamlMapping(n *yaml.Node) (*Tree, error) {
	if len(n.Content)%2 != 0 {
		return nil, decodeErrorf(-1, "line %d: malformed mapping", n.Line)
	}
	t := NewTree()
	for i := 0; i < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode || k.Value == "" {
			return nil, decodeErrorf(-1, "line %d: keys must be non-empty scalars", k.Line)
		}
		val, err := yamlValue(v)
		if err != nil {
			return nil, err
		}
		t.set(k.Value, val)
	}
	return t, nil
}

func yamlValue(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		t, err := yamlMapping(n)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindObject, obj: t}, nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode || item.ShortTag() != yamlStr {
				return Value{}, decodeErrorf(-1, "line %d: sequence elements must be strings", item.Line)
			}
			items = append(items, item.Value)
		}
		return Value{kind: KindArray, arr: items}, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return Value{}, decodeErrorf(-1, "line %d: unsupported node", n.Line)
	}
}

func yamlScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case yamlNull:
		return nullValue(), nil
	case yamlStr:
		return stringValue(n.Value), nil
	case yamlBool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, &DecodeError{Offset: -1, Err: err}
		}
		return boolValue(b), nil
	case yamlInt:
		u, err := strconv.ParseUint(n.Value, 0, 64)
		if err != nil {
			return Value{}, decodeErrorf(-1, "line %d: number %s is not an unsigned integer", n.Line, n.Value)
		}
		return numberValue(u), nil
	case yamlFloat:
		return Value{}, decodeErrorf(-1, "line %d: number %s is not an unsigned integer", n.Line, n.Value)
	default:
		return Value{}, &DecodeError{Offset: -1, Err: errors.New("unsupported tag " + n.ShortTag())}
	}
}

func yamlTreeNode(t *Tree) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: yamlMap}
	if t.Len() == 0 {
		n.Style = yaml.FlowStyle
	}
	for _, k := range t.Keys() {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: yamlStr, Value: k},
			yamlValueNode(t.vals[k]))
	}
	return n
}

func yamlValueNode(v Value) *yaml.Node {
	switch v.kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: yamlBool, Value: strconv.FormatBool(v.b)}
	case KindNumber:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: yamlInt, Value: strconv.FormatUint(v.n, 10)}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: yamlStr, Value: v.s}
	case KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: yamlSeq}
		if len(v.arr) == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, s := range v.arr {
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: yamlStr, Value: s})
		}
		return n
	case KindObject:
		return yamlTreeNode(v.obj)
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: yamlNull, Value: "null"}
	}
}

func setFlow(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = yaml.FlowStyle
	}
	for _, c := range n.Content {
		setFlow(c)
	}
}
