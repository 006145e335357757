// Package fileio is the file-backed external collaborator spec.md §6
// describes: a thin os-backed adapter for reading and writing whole
// JSON documents, enforcing a size ceiling and writing atomically.
//
// Grounded directly on stdlib os -- no third-party file-I/O library
// appears anywhere in the retrieved example pack for this concern, so
// this stays a trivial os wrapper rather than adapting one (see
// DESIGN.md).
package fileio

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.jsontk.dev/jsontk/jsonerr"
)

// MaxDocumentSize is the ceiling ReadDocument enforces: documents larger
// than 100 MiB are rejected rather than read fully into memory.
const MaxDocumentSize = 100 * 1024 * 1024

// ReadDocument reads the file at path in full. Returns
// [jsonerr.FileNotFound] if the file doesn't exist, and
// [jsonerr.DocumentTooLarge] if it exceeds [MaxDocumentSize].
func ReadDocument(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, jsonerr.NewNonPositional(jsonerr.FileNotFound, "opening %q: %v", path, err)
		}

		return nil, jsonerr.NewNonPositional(jsonerr.IOFailure, "opening %q: %v", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.IOFailure, "statting %q: %v", path, err)
	}

	if info.Size() > MaxDocumentSize {
		return nil, jsonerr.NewNonPositional(jsonerr.DocumentTooLarge, "%q is %d bytes, exceeds %d byte ceiling", path, info.Size(), int64(MaxDocumentSize))
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxDocumentSize+1))
	if err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.IOFailure, "reading %q: %v", path, err)
	}

	if len(data) > MaxDocumentSize {
		return nil, jsonerr.NewNonPositional(jsonerr.DocumentTooLarge, "%q exceeds %d byte ceiling", path, int64(MaxDocumentSize))
	}

	return data, nil
}

// WriteDocument writes data to path atomically: it writes to a temp
// file in the same directory, then renames it over path, so a reader
// never observes a partially written document. Returns
// [jsonerr.DocumentTooLarge] if data exceeds [MaxDocumentSize].
func WriteDocument(path string, data []byte) error {
	if len(data) > MaxDocumentSize {
		return jsonerr.NewNonPositional(jsonerr.DocumentTooLarge, "document is %d bytes, exceeds %d byte ceiling", len(data), int64(MaxDocumentSize))
	}

	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".jsontk-*.tmp")
	if err != nil {
		return jsonerr.NewNonPositional(jsonerr.IOFailure, "creating temp file in %q: %v", dir, err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return jsonerr.NewNonPositional(jsonerr.IOFailure, "writing temp file %q: %v", tmpPath, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)

		return jsonerr.NewNonPositional(jsonerr.IOFailure, "closing temp file %q: %v", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)

		return jsonerr.NewNonPositional(jsonerr.IOFailure, "renaming %q to %q: %v", tmpPath, path, err)
	}

	return nil
}
