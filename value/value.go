// Package value implements the value tree described in spec.md §3: a
// tagged sum of Null, Bool, Number, String, Array, and Object, together
// with the algebraic operations in spec.md §4.6 (deep copy, equality,
// merge, memory accounting, shrink-to-fit, diff/patch).
//
// Each *Value is a tree node. Go's garbage collector supersedes the
// original's manual destroy-on-replace bookkeeping (spec.md §3's
// "Lifecycle" section describes ownership in terms a C reimplementation
// needs; a Go reimplementation gets that for free), so there is no
// Destroy method here -- see DESIGN.md for the Open Question this
// resolves.
package value

import (
	"math"
	"unicode/utf8"

	"go.jsontk.dev/jsontk/jsonerr"
)

// Type is the tag of a Value.
type Type int

const (
	Null Type = iota
	Bool
	Number
	String
	Array
	Object
)

var typeNames = [...]string{"null", "bool", "number", "string", "array", "object"}

func (t Type) String() string {
	if int(t) < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}

	return typeNames[t]
}

// member is one (key, Value) pair of an Object, in insertion order.
type member struct {
	key string
	val *Value
}

// Value is a single node of the tree described in spec.md §3.
type Value struct {
	typ     Type
	boolean bool
	number  float64
	str     string
	arr     []*Value
	obj     []member
}

// NewNull returns a Null value.
func NewNull() *Value { return &Value{typ: Null} }

// NewBool returns a Bool value.
func NewBool(b bool) *Value { return &Value{typ: Bool, boolean: b} }

// NewNumber returns a Number value. Returns [jsonerr.NumberOutOfRange] if f
// is NaN or ±Inf, per spec.md §3's invariant that numbers are always
// finite.
func NewNumber(f float64) (*Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, jsonerr.NewNonPositional(jsonerr.NumberOutOfRange,
			"number must be finite, got %v", f)
	}

	return &Value{typ: Number, number: f}, nil
}

// MustNumber is NewNumber but panics on an invalid value; useful for
// constants in tests and generated code.
func MustNumber(f float64) *Value {
	v, err := NewNumber(f)
	if err != nil {
		panic(err)
	}

	return v
}

// NewString returns a String value. Returns [jsonerr.InvalidUTF8] if s is
// not valid UTF-8, per spec.md §3's string invariant.
func NewString(s string) (*Value, error) {
	if !utf8.ValidString(s) {
		return nil, jsonerr.NewNonPositional(jsonerr.InvalidUTF8, "string is not valid UTF-8")
	}

	return &Value{typ: String, str: s}, nil
}

// NewArray returns an Array value containing items in order. The returned
// Value takes ownership of items (append/remove will grow or shrink this
// slice); callers should not reuse the slice elsewhere.
func NewArray(items ...*Value) *Value {
	v := &Value{typ: Array}
	v.arr = append(v.arr, items...)

	return v
}

// NewObject returns an empty Object value.
func NewObject() *Value {
	return &Value{typ: Object}
}

// Type returns the tag of v. A nil *Value reports Null.
func (v *Value) Type() Type {
	if v == nil {
		return Null
	}

	return v.typ
}

// Bool extracts the boolean payload. Returns [jsonerr.InvalidType] if v is
// not a Bool.
func (v *Value) Bool() (bool, error) {
	if v.Type() != Bool {
		return false, typeErr(v, Bool)
	}

	return v.boolean, nil
}

// Number extracts the numeric payload. Returns [jsonerr.InvalidType] if v
// is not a Number.
func (v *Value) Number() (float64, error) {
	if v.Type() != Number {
		return 0, typeErr(v, Number)
	}

	return v.number, nil
}

// StringValue extracts the string payload. Returns [jsonerr.InvalidType] if
// v is not a String.
func (v *Value) StringValue() (string, error) {
	if v.Type() != String {
		return "", typeErr(v, String)
	}

	return v.str, nil
}

func typeErr(v *Value, want Type) error {
	return jsonerr.NewNonPositional(jsonerr.InvalidType, "expected %s, got %s", want, v.Type())
}

// Len returns the number of elements/pairs for Array/Object, or 0 otherwise.
func (v *Value) Len() int {
	switch v.Type() {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	default:
		return 0
	}
}

// Elements returns the array's children in order. Returns
// [jsonerr.InvalidType] if v is not an Array. The returned slice aliases v's
// storage; callers must not mutate it directly.
func (v *Value) Elements() ([]*Value, error) {
	if v.Type() != Array {
		return nil, typeErr(v, Array)
	}

	return v.arr, nil
}

// Index returns the element at i, supporting negative indices counting
// from the end (spec.md §4.5 uses this for path indexing). Returns
// [jsonerr.IndexOutOfBounds] if out of range, [jsonerr.InvalidType] if v is
// not an Array.
func (v *Value) Index(i int) (*Value, error) {
	if v.Type() != Array {
		return nil, typeErr(v, Array)
	}

	n := len(v.arr)
	if i < 0 {
		i += n
	}

	if i < 0 || i >= n {
		return nil, jsonerr.NewNonPositional(jsonerr.IndexOutOfBounds, "index %d out of bounds (len %d)", i, n)
	}

	return v.arr[i], nil
}

// Append adds child to the end of an Array, growing storage by Go's
// built-in amortized-doubling append, which satisfies spec.md §3's growth
// invariant. Returns [jsonerr.InvalidType] if v is not an Array.
func (v *Value) Append(child *Value) error {
	if v.Type() != Array {
		return typeErr(v, Array)
	}

	v.arr = append(v.arr, child)

	return nil
}

// RemoveIndex removes the element at i (supporting negative indices).
// Returns [jsonerr.IndexOutOfBounds] if out of range, [jsonerr.InvalidType]
// if v is not an Array.
func (v *Value) RemoveIndex(i int) error {
	if v.Type() != Array {
		return typeErr(v, Array)
	}

	n := len(v.arr)
	if i < 0 {
		i += n
	}

	if i < 0 || i >= n {
		return jsonerr.NewNonPositional(jsonerr.IndexOutOfBounds, "index %d out of bounds (len %d)", i, n)
	}

	v.arr = append(v.arr[:i], v.arr[i+1:]...)

	return nil
}

// Keys returns an Object's keys in insertion order. Returns
// [jsonerr.InvalidType] if v is not an Object.
func (v *Value) Keys() ([]string, error) {
	if v.Type() != Object {
		return nil, typeErr(v, Object)
	}

	keys := make([]string, len(v.obj))
	for i, m := range v.obj {
		keys[i] = m.key
	}

	return keys, nil
}

// Get looks up key in an Object, reporting ok=false on a miss (spec.md §7
// treats KEY_NOT_FOUND as informational, not a hard error -- so Get signals
// it via the boolean, not an error return). Returns [jsonerr.InvalidType]
// if v is not an Object.
func (v *Value) Get(key string) (*Value, bool, error) {
	if v.Type() != Object {
		return nil, false, typeErr(v, Object)
	}

	for _, m := range v.obj {
		if m.key == key {
			return m.val, true, nil
		}
	}

	return nil, false, nil
}

// Set assigns key to child in an Object. If key already exists, the
// existing pair is replaced in place (its position in iteration order is
// preserved); otherwise the pair is appended, preserving the insertion
// order invariant of spec.md §3. Returns [jsonerr.InvalidType] if v is not
// an Object.
func (v *Value) Set(key string, child *Value) error {
	if v.Type() != Object {
		return typeErr(v, Object)
	}

	for i, m := range v.obj {
		if m.key == key {
			v.obj[i].val = child

			return nil
		}
	}

	v.obj = append(v.obj, member{key: key, val: child})

	return nil
}

// RemoveKey removes key from an Object, reporting removed=false if absent.
// Returns [jsonerr.InvalidType] if v is not an Object.
func (v *Value) RemoveKey(key string) (removed bool, err error) {
	if v.Type() != Object {
		return false, typeErr(v, Object)
	}

	for i, m := range v.obj {
		if m.key == key {
			v.obj = append(v.obj[:i], v.obj[i+1:]...)

			return true, nil
		}
	}

	return false, nil
}
