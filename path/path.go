// Package path implements the restricted JSONPath-style query language of
// spec.md §4.5: field descent, the `.*` and `[*]` wildcards, `[n]`/`[-n]`
// indexing, `[start:end]` slicing, and `[?(@.field OP value)]` predicate
// filters. Evaluation never mutates the root and returns a freshly owned
// subtree.
//
// Grounded on other_examples' RFC 9535 JSONPath lexer (a Kind-tagged token
// stream over `$ @ . .. [ ] ? == != ...`) for the path-string tokenizer
// shape, adapted here to spec.md's smaller grammar rather than full
// RFC 9535.
package path

import (
	"strconv"
	"strings"

	"go.jsontk.dev/jsontk/jsonerr"
	"go.jsontk.dev/jsontk/value"
)

type stepKind int

const (
	stepField stepKind = iota
	stepWildcardObject
	stepIndex
	stepSlice
	stepWildcardArray
	stepFilter
)

type predicate struct {
	field string
	op    string // "==" or "!="
	raw   string // literal, quotes already stripped
}

type step struct {
	kind  stepKind
	name  string
	index int

	hasStart, hasEnd bool
	start, end       int

	pred predicate
}

// Path is a parsed, reusable path expression.
type Path struct {
	steps []step
}

// Compile parses expr (which must begin with "$") into a reusable Path.
// Returns [jsonerr.InvalidSyntax] on a malformed expression.
func Compile(expr string) (*Path, error) {
	if !strings.HasPrefix(expr, "$") {
		return nil, jsonerr.NewNonPositional(jsonerr.InvalidSyntax, "path must start with '$'")
	}

	p := &Path{}
	rest := expr[1:]

	for len(rest) > 0 {
		st, consumed, err := parseStep(rest)
		if err != nil {
			return nil, err
		}

		if st != nil {
			p.steps = append(p.steps, *st)
		}

		rest = rest[consumed:]
	}

	return p, nil
}

// parseStep parses one step from the front of s, returning the step (nil
// for the no-op ".." marker), how many bytes were consumed, and an error
// for malformed syntax.
func parseStep(s string) (*step, int, error) {
	switch s[0] {
	case '.':
		if len(s) > 1 && s[1] == '.' {
			// Recursive descent: spec.md §9 leaves this a parse-accepted
			// no-op pending a fuller JSONPath pass, so ".." contributes no
			// step of its own -- it just allows a bare field name (with no
			// separating '.') to follow immediately, as in "$..a".
			rest := s[2:]
			if len(rest) > 0 && rest[0] != '.' && rest[0] != '[' {
				i := 0
				for i < len(rest) && rest[i] != '.' && rest[i] != '[' {
					i++
				}

				return &step{kind: stepField, name: rest[:i]}, 2 + i, nil
			}

			return nil, 2, nil
		}

		if len(s) > 1 && s[1] == '*' {
			return &step{kind: stepWildcardObject}, 2, nil
		}

		i := 1
		for i < len(s) && s[i] != '.' && s[i] != '[' {
			i++
		}

		if i == 1 {
			return nil, 0, jsonerr.NewNonPositional(jsonerr.InvalidSyntax, "empty field name in path")
		}

		return &step{kind: stepField, name: s[1:i]}, i, nil

	case '[':
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, 0, jsonerr.NewNonPositional(jsonerr.InvalidSyntax, "unterminated '[' in path")
		}

		inner := s[1:end]
		st, err := parseBracket(inner)

		return st, end + 1, err
	default:
		return nil, 0, jsonerr.NewNonPositional(jsonerr.InvalidSyntax, "unexpected character %q in path", s[0])
	}
}

func parseBracket(inner string) (*step, error) {
	switch {
	case inner == "*":
		return &step{kind: stepWildcardArray}, nil
	case strings.HasPrefix(inner, "?(") && strings.HasSuffix(inner, ")"):
		pred, err := parsePredicate(inner[2 : len(inner)-1])
		if err != nil {
			return nil, err
		}

		return &step{kind: stepFilter, pred: pred}, nil
	case strings.Contains(inner, ":"):
		parts := strings.SplitN(inner, ":", 2)

		st := &step{kind: stepSlice}

		if parts[0] != "" {
			n, err := strconv.Atoi(parts[0])
			if err != nil {
				return nil, jsonerr.NewNonPositional(jsonerr.InvalidSyntax, "invalid slice start %q", parts[0])
			}

			st.hasStart = true
			st.start = n
		}

		if parts[1] != "" {
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, jsonerr.NewNonPositional(jsonerr.InvalidSyntax, "invalid slice end %q", parts[1])
			}

			st.hasEnd = true
			st.end = n
		}

		return st, nil
	default:
		n, err := strconv.Atoi(inner)
		if err != nil {
			return nil, jsonerr.NewNonPositional(jsonerr.InvalidSyntax, "invalid array index %q", inner)
		}

		return &step{kind: stepIndex, index: n}, nil
	}
}

// parsePredicate parses "@.field OP value" where OP is "==" or "!=" and
// value is a bare token or a quoted string (spec.md §4.5's grammar).
func parsePredicate(expr string) (predicate, error) {
	expr = strings.TrimSpace(expr)

	if !strings.HasPrefix(expr, "@.") {
		return predicate{}, jsonerr.NewNonPositional(jsonerr.InvalidSyntax, "predicate must start with '@.'")
	}

	expr = expr[2:]

	var op string

	idx := strings.Index(expr, "==")
	opLen := 2

	if idx < 0 {
		idx = strings.Index(expr, "!=")
	}

	if idx < 0 {
		return predicate{}, jsonerr.NewNonPositional(jsonerr.InvalidSyntax, "predicate missing '==' or '!='")
	}

	op = expr[idx : idx+opLen]

	field := strings.TrimSpace(expr[:idx])
	rawVal := strings.TrimSpace(expr[idx+opLen:])

	rawVal = strings.Trim(rawVal, `"'`)

	return predicate{field: field, op: op, raw: rawVal}, nil
}

// Evaluate runs the path against root, returning (result, true, nil) on a
// match, (nil, false, nil) if any step failed to resolve (a distinct
// signal from an error, per spec.md §4.5), or (nil, false, err) for a
// malformed path. The root is never mutated; the result is a freshly
// owned deep copy.
func Evaluate(root *value.Value, expr string) (*value.Value, bool, error) {
	p, err := Compile(expr)
	if err != nil {
		return nil, false, err
	}

	return p.Evaluate(root)
}

// Evaluate runs a compiled Path against root.
func (p *Path) Evaluate(root *value.Value) (*value.Value, bool, error) {
	cur := root

	for _, st := range p.steps {
		next, ok := applyStep(cur, st)
		if !ok {
			return nil, false, nil
		}

		cur = next
	}

	return value.DeepCopy(cur), true, nil
}

func applyStep(cur *value.Value, st step) (*value.Value, bool) {
	switch st.kind {
	case stepField:
		if cur.Type() != value.Object {
			return nil, false
		}

		child, ok, _ := cur.Get(st.name)

		return child, ok

	case stepWildcardObject:
		if cur.Type() != value.Object {
			return nil, false
		}

		keys, _ := cur.Keys()
		out := value.NewArray()

		for _, k := range keys {
			child, _, _ := cur.Get(k)
			_ = out.Append(child)
		}

		return out, true

	case stepIndex:
		if cur.Type() != value.Array {
			return nil, false
		}

		v, err := cur.Index(st.index)
		if err != nil {
			return nil, false
		}

		return v, true

	case stepSlice:
		if cur.Type() != value.Array {
			return nil, false
		}

		return applySlice(cur, st)

	case stepWildcardArray:
		if cur.Type() != value.Array {
			return nil, false
		}

		return cur, true

	case stepFilter:
		if cur.Type() != value.Array {
			return nil, false
		}

		return applyFilter(cur, st.pred)

	default:
		return nil, false
	}
}

func applySlice(cur *value.Value, st step) (*value.Value, bool) {
	n := cur.Len()

	start := 0
	if st.hasStart {
		start = st.start
		if start < 0 {
			start += n
		}
	}

	end := n
	if st.hasEnd {
		end = st.end
		if end < 0 {
			end += n
		}
	}

	start = clamp(start, 0, n)
	end = clamp(end, 0, n)

	out := value.NewArray()

	for i := start; i < end; i++ {
		elem, err := cur.Index(i)
		if err != nil {
			continue
		}

		_ = out.Append(elem)
	}

	return out, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

func applyFilter(cur *value.Value, pred predicate) (*value.Value, bool) {
	elems, _ := cur.Elements()
	out := value.NewArray()

	for _, elem := range elems {
		if elem.Type() != value.Object {
			continue
		}

		field, ok, _ := elem.Get(pred.field)
		if !ok {
			continue
		}

		if matchesPredicate(field, pred) {
			_ = out.Append(elem)
		}
	}

	return out, true
}

func matchesPredicate(field *value.Value, pred predicate) bool {
	equal := fieldEquals(field, pred.raw)

	if pred.op == "!=" {
		return !equal
	}

	return equal
}

func fieldEquals(field *value.Value, raw string) bool {
	switch field.Type() {
	case value.String:
		s, _ := field.StringValue()

		return s == raw
	case value.Number:
		n, _ := field.Number()

		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return false
		}

		return n == parsed
	default:
		return false
	}
}
