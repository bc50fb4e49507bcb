package value

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes the first YAML document in data.
func ParseYAML(data []byte) (Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Null(), nil
		}
		return Value{}, &SyntaxError{Path: "/", Err: err}
	}
	return newYAMLWalker(&doc).node(&doc, "")
}

// UnmarshalYAML implements yaml.Unmarshaler by walking the node tree, which
// keeps scalar tags and detects duplicate keys.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	out, err := newYAMLWalker(node).node(node, "")
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// MarshalYAML implements yaml.Marshaler. Mapping keys are emitted sorted.
func (v Value) MarshalYAML() (any, error) { return v.yamlNode(), nil }

// MarshalYAML implements yaml.Marshaler for objects.
func (o Object) MarshalYAML() (any, error) { return ObjectOf(o).yamlNode(), nil }

func (v Value) yamlNode() *yaml.Node {
	switch v.kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}
	case KindNumber:
		tag := "!!float"
		if _, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.s}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
	case KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.obj.Keys() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				v.obj[k].yamlNode())
		}
		return n
	case KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range v.arr {
			n.Content = append(n.Content, it.yamlNode())
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// A walk may visit at most yamlMinBudget nodes plus yamlBudgetRatio times
// the number of nodes in the document, counting every alias expansion.
const (
	yamlMinBudget   = 10000
	yamlBudgetRatio = 100
)

// yamlWalker converts a node tree into a Value. Anchored nodes are marked
// active while their children are walked; an alias to an active node is a
// cycle.
type yamlWalker struct {
	active map[*yaml.Node]bool
	budget int
}

func newYAMLWalker(root *yaml.Node) *yamlWalker {
	return &yamlWalker{
		active: map[*yaml.Node]bool{},
		budget: yamlMinBudget + yamlBudgetRatio*countYAMLNodes(root),
	}
}

func countYAMLNodes(n *yaml.Node) int {
	c := 1
	for _, k := range n.Content {
		c += countYAMLNodes(k)
	}
	return c
}

func (w *yamlWalker) node(n *yaml.Node, path string) (Value, error) {
	w.budget--
	if w.budget < 0 {
		return Value{}, &SyntaxError{Path: pointer(path), Err: errors.New("excessive aliasing")}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return w.node(n.Content[0], path)
	case yaml.AliasNode:
		if n.Alias == nil {
			return Value{}, &SyntaxError{Path: pointer(path), Err: errors.New("dangling alias")}
		}
		if w.active[n.Alias] {
			return Value{}, &SyntaxError{Path: pointer(path), Err: fmt.Errorf("anchor %q contains itself", n.Value)}
		}
		return w.node(n.Alias, path)
	case yaml.ScalarNode:
		return fromYAMLScalar(n, path)
	case yaml.SequenceNode:
		if n.Anchor != "" {
			w.active[n] = true
			defer delete(w.active, n)
		}
		items := make([]Value, 0, len(n.Content))
		for i, c := range n.Content {
			it, err := w.node(c, path+"/"+strconv.Itoa(i))
			if err != nil {
				return Value{}, err
			}
			items = append(items, it)
		}
		return ArrayOf(items...), nil
	case yaml.MappingNode:
		if n.Anchor != "" {
			w.active[n] = true
			defer delete(w.active, n)
		}
		return w.mapping(n, path)
	}
	return Value{}, &SyntaxError{Path: pointer(path), Err: fmt.Errorf("unsupported yaml node kind %d", n.Kind)}
}

func (w *yamlWalker) mapping(n *yaml.Node, path string) (Value, error) {
	obj := Object{}
	var merged []Object
	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]
		if kn.ShortTag() == "!!merge" {
			m, err := w.node(vn, path)
			if err != nil {
				return Value{}, err
			}
			switch m.kind {
			case KindObject:
				merged = append(merged, m.obj)
			case KindArray:
				for _, it := range m.arr {
					if o, ok := it.AsObject(); ok {
						merged = append(merged, o)
					}
				}
			}
			continue
		}
		if kn.Kind != yaml.ScalarNode {
			return Value{}, &SyntaxError{Path: pointer(path), Err: errors.New("mapping keys must be scalars")}
		}
		key := kn.Value
		child := path + "/" + EscapePointer(key)
		if _, dup := obj[key]; dup {
			return Value{}, &DuplicateFieldError{Path: child, Key: key}
		}
		v, err := w.node(vn, child)
		if err != nil {
			return Value{}, err
		}
		obj[key] = v
	}
	// explicit keys win over merged ones; earlier merge sources win over later
	for _, m := range merged {
		for k, v := range m {
			if _, ok := obj[k]; !ok {
				obj[k] = v.Clone()
			}
		}
	}
	return ObjectOf(obj), nil
}

func fromYAMLScalar(n *yaml.Node, path string) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, &SyntaxError{Path: pointer(path), Err: err}
		}
		return Bool(b), nil
	case "!!int":
		if isNumberLiteral(n.Value) {
			return Value{kind: KindNumber, s: n.Value}, nil
		}
		var i int64
		if err := n.Decode(&i); err != nil {
			return Value{}, &SyntaxError{Path: pointer(path), Err: err}
		}
		return Int(i), nil
	case "!!float":
		if isNumberLiteral(n.Value) {
			return Value{kind: KindNumber, s: n.Value}, nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, &SyntaxError{Path: pointer(path), Err: err}
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}
