// Package xmlconv converts between [value.Value] trees and a practical
// XML subset: objects become elements with one child element per key,
// arrays repeat the parent element's tag, and scalars become text
// content.
//
// Grounded on stdlib encoding/xml's token-stream Decoder/Encoder, the
// same pairing the parser and stringify packages model with a
// hand-written lexer/writer: no XML<->tree converter library appears
// anywhere in the retrieved example pack, so this is built directly on
// encoding/xml rather than adapting a third-party one (see DESIGN.md).
package xmlconv

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"go.jsontk.dev/jsontk/jsonerr"
	"go.jsontk.dev/jsontk/value"
)

// Decode parses an XML document into a [value.Value] tree built from its
// first root element, whatever its name. Every element becomes an Object key (repeated
// sibling tags become an Array under that key); elements with only text
// content become a String, Number, or Bool leaf via best-effort parsing,
// falling back to String.
func Decode(data []byte) (*value.Value, error) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))

	var root *xmlElement

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		if start, ok := tok.(xml.StartElement); ok {
			el, err := decodeElement(dec, start)
			if err != nil {
				return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "decoding XML: %v", err)
			}

			root = el

			break
		}
	}

	if root == nil {
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "no root element found")
	}

	return root.toValue(), nil
}

// xmlElement is an intermediate tree mirroring encoding/xml's token
// stream, built bottom-up so repeated child tags can be folded into an
// array before conversion to a Value.
type xmlElement struct {
	text     string
	children []namedElement
}

type namedElement struct {
	name string
	el   *xmlElement
}

func decodeElement(dec *xml.Decoder, start xml.StartElement) (*xmlElement, error) {
	el := &xmlElement{}

	var textBuf strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}

			el.children = append(el.children, namedElement{name: t.Name.Local, el: child})
		case xml.CharData:
			textBuf.Write(t)
		case xml.EndElement:
			el.text = strings.TrimSpace(textBuf.String())

			return el, nil
		}
	}
}

func (el *xmlElement) toValue() *value.Value {
	if len(el.children) == 0 {
		return scalarFromText(el.text)
	}

	obj := value.NewObject()

	order := make([]string, 0, len(el.children))
	grouped := make(map[string][]*xmlElement)

	for _, c := range el.children {
		if _, seen := grouped[c.name]; !seen {
			order = append(order, c.name)
		}

		grouped[c.name] = append(grouped[c.name], c.el)
	}

	for _, name := range order {
		group := grouped[name]
		if len(group) == 1 {
			_ = obj.Set(name, group[0].toValue())

			continue
		}

		arr := value.NewArray()
		for _, g := range group {
			_ = arr.Append(g.toValue())
		}

		_ = obj.Set(name, arr)
	}

	return obj
}

func scalarFromText(s string) *value.Value {
	if s == "" {
		return value.NewNull()
	}

	if s == "true" || s == "false" {
		return value.NewBool(s == "true")
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if v, err := value.NewNumber(n); err == nil {
			return v
		}
	}

	v, err := value.NewString(s)
	if err != nil {
		return value.NewNull()
	}

	return v
}

// Encode renders v as an XML document with the given root element name.
// Objects become elements with one child per key; arrays repeat the
// parent tag; scalars become text content.
func Encode(v *value.Value, rootName string) ([]byte, error) {
	var sb strings.Builder

	if err := encodeElement(&sb, rootName, v); err != nil {
		return nil, err
	}

	return []byte(sb.String()), nil
}

func encodeElement(sb *strings.Builder, name string, v *value.Value) error {
	switch v.Type() {
	case value.Object:
		fmt.Fprintf(sb, "<%s>", name)

		keys, _ := v.Keys()
		for _, key := range keys {
			child, _, _ := v.Get(key)
			if err := encodeElement(sb, key, child); err != nil {
				return err
			}
		}

		fmt.Fprintf(sb, "</%s>", name)
	case value.Array:
		elems, _ := v.Elements()
		for _, elem := range elems {
			if err := encodeElement(sb, name, elem); err != nil {
				return err
			}
		}
	default:
		text, err := scalarText(v)
		if err != nil {
			return err
		}

		fmt.Fprintf(sb, "<%s>", name)
		xml.EscapeText(sb, []byte(text)) //nolint:errcheck // strings.Builder.Write never fails
		fmt.Fprintf(sb, "</%s>", name)
	}

	return nil
}

func scalarText(v *value.Value) (string, error) {
	switch v.Type() {
	case value.Null:
		return "", nil
	case value.Bool:
		b, _ := v.Bool()

		return strconv.FormatBool(b), nil
	case value.Number:
		n, _ := v.Number()

		return strconv.FormatFloat(n, 'g', -1, 64), nil
	case value.String:
		s, _ := v.StringValue()

		return s, nil
	default:
		return "", jsonerr.NewNonPositional(jsonerr.ConversionFailed, "unsupported value type %v", v.Type())
	}
}
