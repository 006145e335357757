// Package iniconv converts between [value.Value] trees and a practical
// INI subset: top-level object keys become "[section]" headers, and
// each section's own keys become flat "key = value" lines underneath
// it. A top-level scalar key (no nested object) is written before the
// first section header, matching how most INI readers treat
// unsectioned leading lines as an implicit default section.
//
// No INI parsing library appears anywhere in the retrieved example
// pack, and the grammar is small enough that every pack repo which
// rolls its own line-oriented config format (e.g. the teacher's
// .golangci.yml-adjacent tooling) does so by hand rather than pulling
// in a dependency -- so this is hand-written directly against
// bufio.Scanner rather than adapting a third-party parser (see
// DESIGN.md).
package iniconv

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"go.jsontk.dev/jsontk/jsonerr"
	"go.jsontk.dev/jsontk/value"
)

// Encode renders v, which must be an Object, as INI bytes. Scalar
// top-level keys are written first as unsectioned "key = value" lines;
// Object-valued top-level keys become "[section]" headers followed by
// their own scalar keys.
func Encode(v *value.Value) ([]byte, error) {
	if v.Type() != value.Object {
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "iniconv.Encode requires an object, got %s", v.Type())
	}

	var buf bytes.Buffer

	keys, err := v.Keys()
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		child, _, _ := v.Get(key)
		if child.Type() != value.Object {
			text, err := scalarText(child)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}

			fmt.Fprintf(&buf, "%s = %s\n", key, text)
		}
	}

	for _, key := range keys {
		section, _, _ := v.Get(key)
		if section.Type() != value.Object {
			continue
		}

		fmt.Fprintf(&buf, "[%s]\n", key)

		sectionKeys, err := section.Keys()
		if err != nil {
			return nil, err
		}

		for _, sk := range sectionKeys {
			sv, _, _ := section.Get(sk)

			text, err := scalarText(sv)
			if err != nil {
				return nil, fmt.Errorf("section %q field %q: %w", key, sk, err)
			}

			fmt.Fprintf(&buf, "%s = %s\n", sk, text)
		}
	}

	return buf.Bytes(), nil
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
		return v.StringValue()
	default:
		return "", jsonerr.NewNonPositional(jsonerr.ConversionFailed, "unsupported value type %v", v.Type())
	}
}

// Decode parses INI bytes into a [value.Value] Object. Lines before the
// first "[section]" header become top-level scalar keys; lines after a
// header are nested under an Object keyed by that section name. Blank
// lines and lines starting with ';' or '#' are ignored.
func Decode(data []byte) (*value.Value, error) {
	root := value.NewObject()

	var section *value.Value

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(line[1 : len(line)-1])
			section = value.NewObject()

			if err := root.Set(name, section); err != nil {
				return nil, err
			}

			continue
		}

		key, val, ok := splitAssignment(line)
		if !ok {
			return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "malformed INI line: %q", line)
		}

		target := root
		if section != nil {
			target = section
		}

		if err := target.Set(key, scalarFromText(val)); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "reading INI: %v", err)
	}

	return root, nil
}

func splitAssignment(line string) (key, val string, ok bool) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", false
	}

	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

func scalarFromText(s string) *value.Value {
	if s == "" {
		return value.NewNull()
	}

	if b, err := strconv.ParseBool(s); err == nil {
		return value.NewBool(b)
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
