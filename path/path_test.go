package path

import (
	"testing"

	"go.jsontk.dev/jsontk/parser"
	"go.jsontk.dev/jsontk/value"
)

func TestPathFieldDescent(t *testing.T) {
	root, err := parser.Parse([]byte(`{"store":{"book":[{"id":1,"v":10},{"id":2,"v":20}]}}`))
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := Evaluate(root, "$.store.book[0].v")
	if err != nil || !ok {
		t.Fatalf("Evaluate failed: ok=%v err=%v", ok, err)
	}

	n, _ := got.Number()
	if n != 10 {
		t.Fatalf("got %v, want 10", n)
	}
}

func TestPathFilterScenario(t *testing.T) {
	root, err := parser.Parse([]byte(`[{"id":1,"v":10},{"id":2,"v":20}]`))
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := Evaluate(root, `$[?(@.id==1)]`)
	if err != nil || !ok {
		t.Fatalf("Evaluate failed: ok=%v err=%v", ok, err)
	}

	if got.Len() != 1 {
		t.Fatalf("got len %d, want 1", got.Len())
	}

	elem, err := got.Index(0)
	if err != nil {
		t.Fatal(err)
	}

	vField, _, _ := elem.Get("v")
	n, _ := vField.Number()
	if n != 10 {
		t.Fatalf("v = %v, want 10", n)
	}
}

func TestPathFilterNotEqual(t *testing.T) {
	root, err := parser.Parse([]byte(`[{"id":1},{"id":2},{"id":3}]`))
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := Evaluate(root, `$[?(@.id!=2)]`)
	if err != nil || !ok {
		t.Fatal(err)
	}

	if got.Len() != 2 {
		t.Fatalf("got len %d, want 2", got.Len())
	}
}

func TestPathWildcardObject(t *testing.T) {
	root, err := parser.Parse([]byte(`{"a":1,"b":2,"c":3}`))
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := Evaluate(root, "$.*")
	if err != nil || !ok {
		t.Fatal(err)
	}

	if got.Type() != value.Array || got.Len() != 3 {
		t.Fatalf("got %v len %d, want array len 3", got.Type(), got.Len())
	}
}

func TestPathWildcardArray(t *testing.T) {
	root, err := parser.Parse([]byte(`[10,20,30]`))
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := Evaluate(root, "$[*]")
	if err != nil || !ok {
		t.Fatal(err)
	}

	if got.Len() != 3 {
		t.Fatalf("got len %d, want 3", got.Len())
	}
}

func TestPathNegativeIndex(t *testing.T) {
	root, err := parser.Parse([]byte(`[1,2,3]`))
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := Evaluate(root, "$[-1]")
	if err != nil || !ok {
		t.Fatal(err)
	}

	n, _ := got.Number()
	if n != 3 {
		t.Fatalf("got %v, want 3", n)
	}
}

func TestPathSliceClamped(t *testing.T) {
	root, err := parser.Parse([]byte(`[1,2,3,4,5]`))
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := Evaluate(root, "$[1:100]")
	if err != nil || !ok {
		t.Fatal(err)
	}

	if got.Len() != 4 {
		t.Fatalf("got len %d, want 4", got.Len())
	}

	got2, ok, err := Evaluate(root, "$[:2]")
	if err != nil || !ok {
		t.Fatal(err)
	}

	if got2.Len() != 2 {
		t.Fatalf("got len %d, want 2", got2.Len())
	}
}

func TestPathMissingFieldNoValue(t *testing.T) {
	root, err := parser.Parse([]byte(`{"a":1}`))
	if err != nil {
		t.Fatal(err)
	}

	_, ok, err := Evaluate(root, "$.missing")
	if err != nil {
		t.Fatal(err)
	}

	if ok {
		t.Fatal("expected no value for missing field")
	}
}

func TestPathIndexOutOfBoundsNoValue(t *testing.T) {
	root, err := parser.Parse([]byte(`[1,2]`))
	if err != nil {
		t.Fatal(err)
	}

	_, ok, err := Evaluate(root, "$[5]")
	if err != nil {
		t.Fatal(err)
	}

	if ok {
		t.Fatal("expected no value for out-of-bounds index")
	}
}

func TestPathRecursiveDescentIsNoOp(t *testing.T) {
	root, err := parser.Parse([]byte(`{"a":{"b":1}}`))
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := Evaluate(root, "$..a.b")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}

	n, _ := got.Number()
	if n != 1 {
		t.Fatalf("got %v, want 1", n)
	}
}

func TestPathDoesNotMutateRoot(t *testing.T) {
	root, err := parser.Parse([]byte(`{"a":[1,2,3]}`))
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := Evaluate(root, "$.a[0]")
	if err != nil || !ok {
		t.Fatal(err)
	}

	// Evaluating must leave root intact: the result is a fresh copy.
	if got.Type() != value.Number {
		t.Fatal("expected number")
	}

	arrField, _, _ := root.Get("a")
	first, _ := arrField.Index(0)
	n, _ := first.Number()
	if n != 1 {
		t.Fatal("root mutated unexpectedly")
	}
}

func TestPathInvalidSyntax(t *testing.T) {
	_, err := Compile("no-dollar")
	if err == nil {
		t.Fatal("expected error for missing '$' prefix")
	}
}

func TestPathStringPredicate(t *testing.T) {
	root, err := parser.Parse([]byte(`[{"name":"a"},{"name":"b"}]`))
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := Evaluate(root, `$[?(@.name=="b")]`)
	if err != nil || !ok {
		t.Fatal(err)
	}

	if got.Len() != 1 {
		t.Fatalf("got len %d, want 1", got.Len())
	}
}
