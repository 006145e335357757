// Package typecheck implements the single-level type check spec.md's
// Non-goals explicitly keep in scope ("schema compilation" is out, but "a
// single-level type check is in scope"): each top-level object key is
// checked against one declared JSON Schema type name, with no recursion
// into nested values.
//
// Grounded on magicschema/infer.go's widenType/schemaType helpers (the
// teacher's YAML-AST type inference), adapted here from "infer a type from
// a node" to "check a value against a declared type", and backed by the
// same [github.com/google/jsonschema-go/jsonschema.Schema] type the
// teacher uses.
package typecheck

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"go.jsontk.dev/jsontk/jsonerr"
	"go.jsontk.dev/jsontk/value"
)

// JSON Schema type name constants, matching magicschema's.
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Schema is a single-level type schema: one declared type name per
// top-level object key, expressed as a map of jsonschema.Schema so the
// same type name validation magicschema relies on (a fixed vocabulary of
// type strings) is reused here.
type Schema struct {
	fields map[string]*jsonschema.Schema
}

// NewSchema builds a Schema from a key -> type-name map. Returns
// [jsonerr.InvalidType] if any type name isn't one of the seven JSON
// Schema primitives above.
func NewSchema(fields map[string]string) (*Schema, error) {
	s := &Schema{fields: make(map[string]*jsonschema.Schema, len(fields))}

	for key, typ := range fields {
		if !isKnownType(typ) {
			return nil, jsonerr.NewNonPositional(jsonerr.InvalidType, "unknown schema type %q for field %q", typ, key)
		}

		s.fields[key] = &jsonschema.Schema{Type: typ}
	}

	return s, nil
}

func isKnownType(t string) bool {
	switch t {
	case TypeNull, TypeBoolean, TypeInteger, TypeNumber, TypeString, TypeArray, TypeObject:
		return true
	default:
		return false
	}
}

// Mismatch describes one top-level field whose runtime type didn't match
// its declared schema type.
type Mismatch struct {
	Field    string
	Declared string
	Actual   string
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("field %q: declared %s, got %s", m.Field, m.Declared, m.Actual)
}

// Check validates v (which must be an Object) against s, inspecting only
// v's immediate keys -- no recursion into nested arrays/objects, per
// spec.md's "single-level" carve-out. A key present in s but absent from v
// is not reported (that is KeyNotFound territory, which Check leaves to
// [value.Value.Get]); a key present in v but absent from s is ignored.
// Returns one [Mismatch] per field whose actual type disagrees with its
// declared type, in the order v's keys appear.
func Check(v *value.Value, s *Schema) ([]error, error) {
	if v.Type() != value.Object {
		return nil, jsonerr.NewNonPositional(jsonerr.InvalidType, "typecheck requires an object, got %s", v.Type())
	}

	var mismatches []error

	keys, _ := v.Keys()
	for _, key := range keys {
		declared, ok := s.fields[key]
		if !ok {
			continue
		}

		child, _, _ := v.Get(key)
		actual := ValueType(child)

		if !typeMatches(declared.Type, actual) {
			mismatches = append(mismatches, Mismatch{Field: key, Declared: declared.Type, Actual: actual})
		}
	}

	return mismatches, nil
}

// typeMatches allows an integer actual type to satisfy a "number" declared
// type (the reverse of magicschema's widenType integer+number -> number
// rule), since every jsontk Number is a float64 and "3" is both a valid
// integer and a valid number.
func typeMatches(declared, actual string) bool {
	if declared == actual {
		return true
	}

	return declared == TypeNumber && actual == TypeInteger
}

// ValueType maps v's runtime Type to a JSON Schema type name. A Number
// whose value has no fractional part is reported as "integer", mirroring
// the integer/number distinction magicschema's inferType draws from the
// YAML AST's IntegerNode/FloatNode split.
func ValueType(v *value.Value) string {
	switch v.Type() {
	case value.Null:
		return TypeNull
	case value.Bool:
		return TypeBoolean
	case value.Number:
		n, _ := v.Number()
		if i := int64(n); float64(i) == n {
			return TypeInteger
		}

		return TypeNumber
	case value.String:
		return TypeString
	case value.Array:
		return TypeArray
	case value.Object:
		return TypeObject
	default:
		return TypeNull
	}
}
