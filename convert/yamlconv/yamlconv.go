// Package yamlconv converts between [value.Value] trees and YAML bytes.
//
// Decode walks a parsed YAML AST exactly the way magicschema/generator.go's
// Generator.walk family does (a *ast.MappingNode/*ast.SequenceNode/scalar
// type switch driven by github.com/goccy/go-yaml/parser.ParseBytes),
// except it builds a [value.Value] tree instead of a
// [github.com/google/jsonschema-go/jsonschema.Schema]. Encode goes back out
// through github.com/goccy/go-yaml's order-preserving yaml.MapSlice, since
// spec.md's object-key insertion-order invariant must survive the round
// trip the same way it does through stringify.
package yamlconv

import (
	"fmt"
	"math"

	goyaml "github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"go.jsontk.dev/jsontk/jsonerr"
	"go.jsontk.dev/jsontk/value"
)

// Decode parses a single-document YAML byte stream into a [value.Value]
// tree. Returns [jsonerr.ConversionFailed] if the input isn't valid YAML.
func Decode(data []byte) (*value.Value, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "parsing YAML: %v", err)
	}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return value.NewNull(), nil
	}

	return convertNode(file.Docs[0].Body)
}

func unwrapNode(node ast.Node) ast.Node {
	for {
		switch n := node.(type) {
		case *ast.TagNode:
			node = n.Value
		case *ast.AnchorNode:
			node = n.Value
		default:
			return node
		}
	}
}

func convertNode(node ast.Node) (*value.Value, error) {
	node = unwrapNode(node)

	switch n := node.(type) {
	case nil, *ast.NullNode:
		return value.NewNull(), nil
	case *ast.BoolNode:
		return value.NewBool(n.Value), nil
	case *ast.IntegerNode:
		return numberFromInteger(n)
	case *ast.FloatNode:
		v, err := value.NewNumber(n.Value)
		if err != nil {
			return nil, jsonerr.NewNonPositional(jsonerr.NumberOutOfRange, "YAML float out of range: %v", err)
		}

		return v, nil
	case *ast.InfinityNode, *ast.NanNode:
		return nil, jsonerr.NewNonPositional(jsonerr.NumberOutOfRange, "YAML value is not a finite number")
	case *ast.StringNode:
		return value.NewString(n.Value)
	case *ast.LiteralNode:
		return value.NewString(n.String())
	case *ast.SequenceNode:
		return convertSequence(n)
	case *ast.MappingNode:
		return convertMapping(n.Values)
	case *ast.MappingValueNode:
		return convertMapping([]*ast.MappingValueNode{n})
	default:
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "unsupported YAML node %T", node)
	}
}

// numberFromInteger accepts either an int64 or uint64 payload, matching the
// two forms github.com/goccy/go-yaml/ast.IntegerNode.Value can hold.
func numberFromInteger(n *ast.IntegerNode) (*value.Value, error) {
	switch val := n.Value.(type) {
	case int64:
		return value.NewNumber(float64(val))
	case uint64:
		return value.NewNumber(float64(val))
	default:
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "unsupported YAML integer payload %T", n.Value)
	}
}

func convertSequence(seq *ast.SequenceNode) (*value.Value, error) {
	out := value.NewArray()

	for _, elemNode := range seq.Values {
		elem, err := convertNode(elemNode)
		if err != nil {
			return nil, err
		}

		_ = out.Append(elem)
	}

	return out, nil
}

func convertMapping(values []*ast.MappingValueNode) (*value.Value, error) {
	out := value.NewObject()

	for _, mvn := range values {
		key := mappingKey(mvn.Key)

		child, err := convertNode(mvn.Value)
		if err != nil {
			return nil, err
		}

		if err := out.Set(key, child); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func mappingKey(key ast.MapKeyNode) string {
	if s, ok := key.(*ast.StringNode); ok {
		return s.Value
	}

	return key.String()
}

// Encode renders v as YAML bytes, preserving Object key insertion order via
// github.com/goccy/go-yaml's yaml.MapSlice. Returns [jsonerr.ConversionFailed]
// if v cannot be rendered (e.g. a non-finite number, which cannot arise from
// a validly constructed Value but is checked defensively).
func Encode(v *value.Value) ([]byte, error) {
	native, err := toNative(v)
	if err != nil {
		return nil, err
	}

	out, err := goyaml.Marshal(native)
	if err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "marshaling YAML: %v", err)
	}

	return out, nil
}

func toNative(v *value.Value) (any, error) {
	switch v.Type() {
	case value.Null:
		return nil, nil
	case value.Bool:
		b, _ := v.Bool()

		return b, nil
	case value.Number:
		n, _ := v.Number()
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "non-finite number %v", n)
		}

		return n, nil
	case value.String:
		s, _ := v.StringValue()

		return s, nil
	case value.Array:
		elems, _ := v.Elements()
		out := make([]any, len(elems))

		for i, elem := range elems {
			converted, err := toNative(elem)
			if err != nil {
				return nil, err
			}

			out[i] = converted
		}

		return out, nil
	case value.Object:
		return toMapSlice(v)
	default:
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "unsupported value type %v", v.Type())
	}
}

func toMapSlice(v *value.Value) (goyaml.MapSlice, error) {
	keys, _ := v.Keys()
	slice := make(goyaml.MapSlice, len(keys))

	for i, key := range keys {
		child, _, _ := v.Get(key)

		converted, err := toNative(child)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}

		slice[i] = goyaml.MapItem{Key: key, Value: converted}
	}

	return slice, nil
}
