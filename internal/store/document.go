package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"stationtree/internal/model"
)

// IOError means a document file could not be read or written.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Op == "write" {
		return "Cannot write to this file."
	}
	return "Cannot read this file."
}

func (e *IOError) Unwrap() error { return e.Err }

// FormatError means the file content is not JSON or not a station list.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string { return "Invalid JSON file." }

func (e *FormatError) Unwrap() error { return e.Err }

// ReadDocument reads and decodes a station document.
func ReadDocument(path string) (*model.Stations, []byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &IOError{Op: "read", Path: path, Err: err}
	}
	st, err := model.DecodeStations(b)
	if err != nil {
		return nil, nil, &FormatError{Path: path, Err: err}
	}
	return st, b, nil
}

// EncodeDocument returns the canonical file body for stations.
func EncodeDocument(stations *model.Stations, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(stations, "", "  ")
	}
	return json.Marshal(stations)
}

// WriteDocument atomically replaces path with the encoded stations and returns
// the written body.
func WriteDocument(path string, stations *model.Stations, pretty bool) ([]byte, error) {
	b, err := EncodeDocument(stations, pretty)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := WriteFileAtomic(path, b, 0o644); err != nil {
		return nil, &IOError{Op: "write", Path: path, Err: err}
	}
	return b, nil
}

// WriteFileAtomic writes b next to path and renames it into place.
func WriteFileAtomic(path string, b []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(dir, "."+filepath.Base(path)+".*.tmp", path, b, perm)
}
