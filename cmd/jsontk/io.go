package main

import (
	"io"
	"os"

	"go.jsontk.dev/jsontk/fileio"
)

// readInput reads path, treating "-" as stdin and otherwise delegating
// to fileio.ReadDocument for the size ceiling every other document read
// in jsontk enforces.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}

	return fileio.ReadDocument(path)
}
