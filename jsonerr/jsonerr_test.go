package jsonerr_test

import (
	"errors"
	"fmt"
	"testing"

	"go.jsontk.dev/jsontk/jsonerr"
)

func TestErrorMessageWithoutPosition(t *testing.T) {
	err := jsonerr.NewNonPositional(jsonerr.InvalidType, "expected object, got %s", "array")

	want := "INVALID_TYPE: expected object, got array"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestErrorMessageWithPosition(t *testing.T) {
	err := jsonerr.New(jsonerr.LeadingZero, 3, 7, "leading zero in number")

	want := "LEADING_ZERO: leading zero in number (line 3, column 7)"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestIsMatchesSentinelByKind(t *testing.T) {
	err := jsonerr.NewNonPositional(jsonerr.KeyNotFound, "missing field %q", "name")

	if !errors.Is(err, jsonerr.KeyNotFound.Sentinel()) {
		t.Fatal("expected errors.Is to match the same Kind's sentinel")
	}

	if errors.Is(err, jsonerr.IndexOutOfBounds.Sentinel()) {
		t.Fatal("did not expect errors.Is to match a different Kind's sentinel")
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	err := jsonerr.NewNonPositional(jsonerr.ConversionFailed, "bad input")
	wrapped := fmt.Errorf("converting: %w", err)

	if !errors.Is(wrapped, jsonerr.ConversionFailed.Sentinel()) {
		t.Fatal("expected errors.Is to see through fmt.Errorf wrapping")
	}
}

func TestKindOf(t *testing.T) {
	err := jsonerr.NewNonPositional(jsonerr.StackOverflow, "too deep")

	kind, ok := jsonerr.KindOf(err)
	if !ok || kind != jsonerr.StackOverflow {
		t.Fatalf("got (%v, %v), want (StackOverflow, true)", kind, ok)
	}

	if _, ok := jsonerr.KindOf(errors.New("plain error")); ok {
		t.Fatal("expected ok=false for a non-jsonerr error")
	}
}

func TestKinds(t *testing.T) {
	errs := []error{
		jsonerr.NewNonPositional(jsonerr.InvalidNumber, "x"),
		errors.New("unrelated"),
		jsonerr.NewNonPositional(jsonerr.InvalidEscape, "y"),
	}

	got := jsonerr.Kinds(errs)

	want := []jsonerr.Kind{jsonerr.InvalidNumber, jsonerr.InvalidEscape}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLastError(t *testing.T) {
	err := jsonerr.NewNonPositional(jsonerr.UnexpectedEOF, "marker")

	last := jsonerr.LastError()
	if last != err || last.Message != "marker" {
		t.Fatalf("got %v, want the just-constructed error", last)
	}
}

func TestKindStringUnknown(t *testing.T) {
	var k jsonerr.Kind = 9999

	if k.String() == "" {
		t.Fatal("expected a non-empty fallback string for an unknown Kind")
	}
}
