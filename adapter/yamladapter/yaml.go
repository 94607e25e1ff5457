// Package yamladapter implements the YAML format adapter: YAML 1.2
// scalar/collection subset, anchors and aliases resolved (not preserved
// on output), mapped to UDM the same JSON-analogous way the JSON adapter
// maps plain values. Built on github.com/goccy/go-yaml and its ast
// sub-package the way MacroPower-x/magicschema's schema generator walks a
// parsed document (github.com/goccy/go-yaml/parser + ast): parsing
// through the AST rather than yaml.Unmarshal into map[string]any is
// required here too, for the same reason — Unmarshal's plain-map result
// loses both key order and the bool/int/float/string literal distinction
// that MacroPower-x's own `inferType` exists to recover.
package yamladapter

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/utlx/utlx/adapter"
	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/udm"
)

// Adapter implements adapter.Adapter for YAML.
type Adapter struct{}

// Parse decodes a YAML document into a UDM value via its AST, so Object
// key order and scalar literal kind both survive.
func (Adapter) Parse(data []byte, opts map[string]any) (*udm.Value, error) {
	data = adapter.StripBOM(data)
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, errs.Wrap(errs.KindFormatParseError, err, "invalid YAML input")
	}
	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return udm.Null(), nil
	}
	anchors := buildAnchorMap(file.Docs[0].Body)
	v, err := decodeNode(file.Docs[0].Body, anchors)
	if err != nil {
		return nil, errs.Wrap(errs.KindFormatParseError, err, "invalid YAML input")
	}
	return v, nil
}

// buildAnchorMap records every &anchor-tagged node in the document so
// *aliases can be resolved to the value they point at. Follows
// MacroPower-x/magicschema's own anchorVisitor (generator.go) directly.
func buildAnchorMap(root ast.Node) map[string]ast.Node {
	anchors := make(map[string]ast.Node)
	ast.Walk(&anchorVisitor{anchors: anchors}, root)
	return anchors
}

type anchorVisitor struct {
	anchors map[string]ast.Node
}

func (v *anchorVisitor) Visit(node ast.Node) ast.Visitor {
	if anchor, ok := node.(*ast.AnchorNode); ok {
		v.anchors[anchor.Name.String()] = anchor.Value
	}
	return v
}

func resolveAlias(n ast.Node, anchors map[string]ast.Node) ast.Node {
	for {
		alias, ok := n.(*ast.AliasNode)
		if !ok {
			return n
		}
		resolved, found := anchors[alias.Value.String()]
		if !found {
			return n
		}
		n = resolved
	}
}

func decodeNode(n ast.Node, anchors map[string]ast.Node) (*udm.Value, error) {
	n = resolveAlias(n, anchors)
	switch t := n.(type) {
	case *ast.AnchorNode:
		return decodeNode(t.Value, anchors)
	case *ast.TagNode:
		return decodeNode(t.Value, anchors)
	case *ast.NullNode:
		return udm.Null(), nil
	case *ast.BoolNode:
		return udm.Bool(t.Value), nil
	case *ast.IntegerNode:
		switch iv := t.Value.(type) {
		case int64:
			return udm.Int(iv), nil
		case uint64:
			return udm.Int(int64(iv)), nil
		default:
			if i, err := strconv.ParseInt(fmt.Sprint(iv), 10, 64); err == nil {
				return udm.Int(i), nil
			}
			return udm.Int(0), nil
		}
	case *ast.FloatNode:
		return udm.Float(t.Value), nil
	case *ast.InfinityNode:
		return udm.Float(t.Value), nil
	case *ast.NanNode:
		return udm.Float(nanValue()), nil
	case *ast.StringNode:
		return udm.String(t.Value), nil
	case *ast.LiteralNode:
		if t.Value != nil {
			return udm.String(t.Value.Value), nil
		}
		return udm.String(""), nil
	case *ast.SequenceNode:
		elems := make([]*udm.Value, 0, len(t.Values))
		for _, item := range t.Values {
			v, err := decodeNode(item, anchors)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return udm.Array(elems...), nil
	case *ast.MappingValueNode:
		b := udm.NewObjectBuilder()
		if err := decodeMappingEntry(t, anchors, b); err != nil {
			return nil, err
		}
		return udm.NewObject(b.Build()), nil
	case *ast.MappingNode:
		b := udm.NewObjectBuilder()
		for _, mvn := range t.Values {
			if err := decodeMappingEntry(mvn, anchors, b); err != nil {
				return nil, err
			}
		}
		return udm.NewObject(b.Build()), nil
	default:
		return udm.Null(), nil
	}
}

func decodeMappingEntry(mvn *ast.MappingValueNode, anchors map[string]ast.Node, b *udm.ObjectBuilder) error {
	key := mvn.Key.String()
	v, err := decodeNode(mvn.Value, anchors)
	if err != nil {
		return err
	}
	b.Set(key, v)
	return nil
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

// Serialise renders a UDM value as YAML: block style by
// default, flow style when `flowStyle` is set. Built on yaml.MapSlice, the
// library's ordered-mapping type, to keep Object key order in the
// output the way the JSON and XML adapters do.
func (Adapter) Serialise(v *udm.Value, opts map[string]any) ([]byte, error) {
	flow, _ := opts["flowStyle"].(bool)
	indent := 2
	if iv, ok := opts["indent"].(int64); ok && iv > 0 {
		indent = int(iv)
	}

	native := udmToYAMLNative(v)

	encOpts := []yaml.EncodeOption{yaml.Indent(indent)}
	if flow {
		encOpts = append(encOpts, yaml.Flow(true))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf, encOpts...)
	if err := enc.Encode(native); err != nil {
		return nil, errs.Wrap(errs.KindFormatSerialiseError, err, "could not serialise value to YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errs.Wrap(errs.KindFormatSerialiseError, err, "could not close YAML encoder")
	}
	return buf.Bytes(), nil
}

// udmToYAMLNative mirrors stdlib/encoding.go's udmToNative bridge but
// targets yaml.MapSlice instead of map[string]any, so Object key order
// survives serialisation.
func udmToYAMLNative(v *udm.Value) any {
	switch v.Kind() {
	case udm.KindScalar:
		switch v.ScalarKind() {
		case udm.ScalarNull:
			return nil
		case udm.ScalarBool:
			return v.AsBool()
		case udm.ScalarInt:
			return v.AsInt()
		case udm.ScalarFloat:
			return v.AsFloat()
		case udm.ScalarString:
			return v.AsString()
		}
		return nil
	case udm.KindArray:
		arr := v.AsArray()
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = udmToYAMLNative(e)
		}
		return out
	case udm.KindObject:
		o := v.AsObject()
		slice := make(yaml.MapSlice, 0, o.Len())
		for _, e := range o.Entries() {
			slice = append(slice, yaml.MapItem{Key: e.Key, Value: udmToYAMLNative(e.Value)})
		}
		return slice
	default:
		return udm.CanonicalString(v)
	}
}
