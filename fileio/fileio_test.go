package fileio_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.jsontk.dev/jsontk/fileio"
	"go.jsontk.dev/jsontk/jsonerr"
)

func TestWriteThenReadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")

	want := []byte(`{"a":1}`)
	if err := fileio.WriteDocument(path, want); err != nil {
		t.Fatal(err)
	}

	got, err := fileio.ReadDocument(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReadDocumentMissingFile(t *testing.T) {
	_, err := fileio.ReadDocument(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error")
	}

	kind, ok := jsonerr.KindOf(err)
	if !ok || kind != jsonerr.FileNotFound {
		t.Fatalf("got %v, want FileNotFound", err)
	}
}

func TestWriteDocumentRejectsOversize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")

	big := make([]byte, fileio.MaxDocumentSize+1)
	err := fileio.WriteDocument(path, big)
	if err == nil {
		t.Fatal("expected error")
	}

	kind, ok := jsonerr.KindOf(err)
	if !ok || kind != jsonerr.DocumentTooLarge {
		t.Fatalf("got %v, want DocumentTooLarge", err)
	}

	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatal("oversize write should not have created the target file")
	}
}

func TestWriteDocumentIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	if err := fileio.WriteDocument(path, []byte("first")); err != nil {
		t.Fatal(err)
	}

	if err := fileio.WriteDocument(path, []byte("second")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Fatalf("got %d directory entries, want 1 (no leftover temp files)", len(entries))
	}

	got, err := fileio.ReadDocument(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != "second" {
		t.Fatalf("got %q, want second", got)
	}
}
