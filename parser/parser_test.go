package parser

import (
	"strings"
	"testing"

	"go.jsontk.dev/jsontk/jsonerr"
	"go.jsontk.dev/jsontk/lexer"
)

func TestParseScenarioFourFields(t *testing.T) {
	v, err := Parse([]byte(`{"name":"Test","value":123,"active":true,"data":null}`))
	if err != nil {
		t.Fatal(err)
	}

	keys, err := v.Keys()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"name", "value", "active", "data"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("keys[%d] = %q, want %q", i, keys[i], k)
		}
	}
}

func TestParseDuplicateKeysLastWriteWins(t *testing.T) {
	v, err := Parse([]byte(`{"a":1,"a":2}`))
	if err != nil {
		t.Fatal(err)
	}

	keys, _ := v.Keys()
	if len(keys) != 1 {
		t.Fatalf("got %d keys, want 1 (duplicate key should collapse)", len(keys))
	}

	got, _, _ := v.Get("a")
	n, _ := got.Number()

	if n != 2 {
		t.Fatalf("a = %v, want 2", n)
	}
}

func TestParseTrailingWhitespaceOK(t *testing.T) {
	_, err := Parse([]byte(`{"a":1} `))
	if err != nil {
		t.Fatalf("trailing whitespace should be valid: %v", err)
	}
}

func TestParseTrailingGarbageIsUnexpectedToken(t *testing.T) {
	_, err := Parse([]byte(`{"a":1}garbage`))
	if err == nil {
		t.Fatal("expected error for trailing garbage")
	}

	k, ok := jsonerr.KindOf(err)
	if !ok || k != jsonerr.UnexpectedToken {
		t.Fatalf("got kind %v, want UnexpectedToken", k)
	}
}

func TestParseNestingLimit(t *testing.T) {
	depth := MaxDepth + 10

	src := strings.Repeat("[", depth) + strings.Repeat("]", depth)

	v, err := Parse([]byte(src))
	if err == nil {
		t.Fatal("expected STACK_OVERFLOW")
	}

	if v != nil {
		t.Fatal("expected no partial value on STACK_OVERFLOW")
	}

	k, ok := jsonerr.KindOf(err)
	if !ok || k != jsonerr.StackOverflow {
		t.Fatalf("got kind %v, want StackOverflow", k)
	}
}

func TestParseArrayRoundTripShape(t *testing.T) {
	v, err := Parse([]byte(`[{"id":0,"v":0},{"id":1,"v":10}]`))
	if err != nil {
		t.Fatal(err)
	}

	elems, err := v.Elements()
	if err != nil {
		t.Fatal(err)
	}

	if len(elems) != 2 {
		t.Fatalf("got %d elements, want 2", len(elems))
	}
}

func TestCustomMaxDepth(t *testing.T) {
	p := New(lexer.New([]byte("[[[1]]]"))).WithMaxDepth(2)

	_, err := p.ParseDocument()
	if err == nil {
		t.Fatal("expected STACK_OVERFLOW with maxDepth=2")
	}
}

func TestParseUnexpectedEOF(t *testing.T) {
	_, err := Parse([]byte(`{"a":`))
	if err == nil {
		t.Fatal("expected error")
	}

	k, _ := jsonerr.KindOf(err)
	if k != jsonerr.UnexpectedEOF {
		t.Fatalf("got kind %v, want UnexpectedEOF", k)
	}
}
