package compiler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bindgen/internal/ir"
)

// CompileYAML parses a YAML (or JSON) description with the same shape as
// the CUE form. Mapping order is preserved by walking yaml.Node trees.
func CompileYAML(data []byte) (*ir.Bindings, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &CompileError{Field: "yaml", Message: err.Error()}
	}

	b := &ir.Bindings{Types: map[ir.TypeRef]string{}}

	// Empty document
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return b, nil
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, nodeError(root, "root", "must be a mapping")
	}

	err := eachPair(root, func(key string, val *yaml.Node) error {
		switch key {
		case "types":
			return eachPair(val, func(name string, t *yaml.Node) error {
				text, err := scalarString(t, "types."+name)
				if err != nil {
					return err
				}
				b.Types[ir.TypeRef(name)] = text
				return nil
			})
		case "command":
			return eachPair(val, func(name string, n *yaml.Node) error {
				cmd, err := yamlCommand(name, n)
				if err != nil {
					return err
				}
				b.Commands = append(b.Commands, *cmd)
				return nil
			})
		case "event":
			return eachPair(val, func(name string, n *yaml.Node) error {
				ev, err := yamlEvent(name, n)
				if err != nil {
					return err
				}
				b.Events = append(b.Events, *ev)
				return nil
			})
		case "static":
			return eachPair(val, func(name string, n *yaml.Node) error {
				v, err := yamlValue(n, "static."+name)
				if err != nil {
					return err
				}
				b.Statics = append(b.Statics, ir.Static{Name: name, Value: v})
				return nil
			})
		case "declarations":
			text, err := yamlTextBlock(val, key)
			b.Declarations = text
			return err
		case "globals":
			text, err := yamlTextBlock(val, key)
			b.Globals = text
			return err
		default:
			return nodeError(val, key, "unknown top-level field")
		}
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func yamlCommand(name string, n *yaml.Node) (*ir.Command, error) {
	cmd := &ir.Command{Name: name, Result: ir.NoResult()}
	prefix := "command." + name

	var value, ok, errType string
	hasResult := false
	var resultNode *yaml.Node

	err := eachPair(n, func(key string, val *yaml.Node) error {
		var err error
		switch key {
		case "docs":
			cmd.Docs, err = scalarString(val, prefix+".docs")
		case "deprecated":
			cmd.Deprecated, err = yamlDeprecated(val, prefix+".deprecated")
		case "args":
			err = eachPair(val, func(arg string, t *yaml.Node) error {
				typ, err := scalarString(t, prefix+".args."+arg)
				if err != nil {
					return err
				}
				cmd.Args = append(cmd.Args, ir.Arg{Name: arg, Type: ir.TypeRef(typ)})
				return nil
			})
		case "result":
			hasResult = true
			resultNode = val
			err = eachPair(val, func(field string, t *yaml.Node) error {
				s, err := scalarString(t, prefix+".result."+field)
				if err != nil {
					return err
				}
				switch field {
				case "value":
					value = s
				case "ok":
					ok = s
				case "err":
					errType = s
				default:
					return nodeError(t, prefix+".result."+field, "unknown result field")
				}
				return nil
			})
		default:
			err = nodeError(val, prefix+"."+key, "unknown command field")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if hasResult {
		switch {
		case value != "" && ok == "" && errType == "":
			cmd.Result = ir.ValueResult(ir.TypeRef(value))
		case value == "" && ok != "" && errType != "":
			cmd.Result = ir.FallibleResult(ir.TypeRef(ok), ir.TypeRef(errType))
		default:
			return nil, nodeError(resultNode, prefix+".result", "result must be either { value } or { ok, err }")
		}
	}
	return cmd, nil
}

func yamlEvent(name string, n *yaml.Node) (*ir.Event, error) {
	ev := &ir.Event{Name: name}
	prefix := "event." + name

	err := eachPair(n, func(key string, val *yaml.Node) error {
		var err error
		switch key {
		case "docs":
			ev.Docs, err = scalarString(val, prefix+".docs")
		case "payload":
			var s string
			s, err = scalarString(val, prefix+".payload")
			ev.Payload = ir.TypeRef(s)
		default:
			err = nodeError(val, prefix+"."+key, "unknown event field")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if ev.Payload == "" {
		return nil, nodeError(n, prefix+".payload", "event payload is required")
	}
	return ev, nil
}

// yamlValue converts a YAML node into a static Value using resolved tags.
func yamlValue(n *yaml.Node, field string) (ir.Value, error) {
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return ir.Null{}, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, nodeError(n, field, err.Error())
			}
			return ir.Bool(b), nil
		case "!!int":
			var i int64
			if err := n.Decode(&i); err == nil {
				return ir.Int(i), nil
			}
			// Above the int64 range only unsigned 64-bit values remain.
			var u uint64
			if err := n.Decode(&u); err != nil {
				return nil, nodeError(n, field, err.Error())
			}
			return ir.Number(strconv.FormatUint(u, 10)), nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return nil, nodeError(n, field, err.Error())
			}
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, nodeError(n, field, fmt.Sprintf("number %s is not representable", n.Value))
			}
			return ir.Float(f), nil
		default:
			return ir.String(n.Value), nil
		}
	case yaml.SequenceNode:
		arr := ir.Array{}
		for i, c := range n.Content {
			v, err := yamlValue(c, field+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.MappingNode:
		var pairs []ir.Pair
		err := eachPair(n, func(key string, val *yaml.Node) error {
			v, err := yamlValue(val, field+"."+key)
			if err != nil {
				return err
			}
			pairs = append(pairs, ir.O(key, v))
			return nil
		})
		if err != nil {
			return nil, err
		}
		return ir.NewObject(pairs...), nil
	default:
		return nil, nodeError(n, field, "unsupported YAML node")
	}
}

func yamlDeprecated(n *yaml.Node, field string) (*string, error) {
	n = resolve(n)
	if n.Kind == yaml.ScalarNode && n.Tag == "!!bool" {
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, nodeError(n, field, err.Error())
		}
		if !b {
			return nil, nil
		}
		reason := ""
		return &reason, nil
	}
	reason, err := scalarString(n, field)
	if err != nil {
		return nil, err
	}
	return &reason, nil
}

func yamlTextBlock(n *yaml.Node, field string) (string, error) {
	n = resolve(n)
	if n.Kind == yaml.SequenceNode {
		parts := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			s, err := scalarString(c, field)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, "\n\n"), nil
	}
	return scalarString(n, field)
}

// eachPair walks a mapping node in document order.
func eachPair(n *yaml.Node, fn func(key string, val *yaml.Node) error) error {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nodeError(n, "mapping", "must be a mapping")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolve(n.Content[i])
		if err := fn(key.Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func scalarString(n *yaml.Node, field string) (string, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return "", nodeError(n, field, "must be a string")
	}
	return n.Value, nil
}

// resolve follows alias nodes to their anchors.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func nodeError(n *yaml.Node, field, msg string) *CompileError {
	return &CompileError{Field: field, Message: msg, Line: n.Line, Column: n.Column}
}
