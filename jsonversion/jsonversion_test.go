package jsonversion_test

import (
	"strings"
	"testing"

	"go.jsontk.dev/jsontk/jsonversion"
)

func TestStringDefaultsToDev(t *testing.T) {
	if jsonversion.Version != "" {
		t.Skip("Version set by ldflags in this build")
	}

	if !strings.Contains(jsonversion.String(), "dev") {
		t.Fatalf("String() = %q, want it to mention dev version", jsonversion.String())
	}
}

func TestStringContainsGoVersion(t *testing.T) {
	if !strings.Contains(jsonversion.String(), jsonversion.GoVersion) {
		t.Fatalf("String() = %q, want it to contain %q", jsonversion.String(), jsonversion.GoVersion)
	}
}
