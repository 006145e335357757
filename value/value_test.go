package value

import (
	"testing"

	"go.jsontk.dev/jsontk/jsonerr"
)

func TestNewNumberRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name string
		in   float64
	}{
		{"positive infinity", posInf()},
		{"negative infinity", negInf()},
		{"nan", nanVal()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNumber(tt.in)
			if err == nil {
				t.Fatalf("NewNumber(%v) = nil error, want error", tt.in)
			}

			k, ok := jsonerr.KindOf(err)
			if !ok || k != jsonerr.NumberOutOfRange {
				t.Fatalf("got kind %v, want NumberOutOfRange", k)
			}
		})
	}
}

func TestNewStringRejectsInvalidUTF8(t *testing.T) {
	_, err := NewString(string([]byte{0xff, 0xfe}))
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}

func TestObjectSetPreservesInsertionOrderAndReplaces(t *testing.T) {
	obj := NewObject()

	must(t, obj.Set("a", NewBool(true)))
	must(t, obj.Set("b", NewBool(false)))
	must(t, obj.Set("a", NewBool(false))) // replace, should not move position

	keys, err := obj.Keys()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a", "b"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}

	av, ok, err := obj.Get("a")
	if err != nil || !ok {
		t.Fatalf("Get(a) failed: ok=%v err=%v", ok, err)
	}

	b, err := av.Bool()
	if err != nil || b != false {
		t.Fatalf("a = %v, want false", b)
	}
}

func TestArrayIndexNegative(t *testing.T) {
	arr := NewArray(MustNumber(1), MustNumber(2), MustNumber(3))

	last, err := arr.Index(-1)
	if err != nil {
		t.Fatal(err)
	}

	n, _ := last.Number()
	if n != 3 {
		t.Fatalf("Index(-1) = %v, want 3", n)
	}

	_, err = arr.Index(-10)
	if err == nil {
		t.Fatal("expected INDEX_OUT_OF_BOUNDS")
	}
}

func TestRemoveKeyMissingReportsFalse(t *testing.T) {
	obj := NewObject()

	removed, err := obj.RemoveKey("nope")
	if err != nil {
		t.Fatal(err)
	}

	if removed {
		t.Fatal("RemoveKey on absent key reported removed=true")
	}
}

func must(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatal(err)
	}
}

func posInf() float64 { x := 1e308; return x * 10 }
func negInf() float64 { x := -1e308; return x * 10 }
func nanVal() float64 { z := 0.0; return z / z }
