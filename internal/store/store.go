package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrSchema reports an index written by an incompatible version.
var ErrSchema = errors.New("index schema mismatch")

// Path returns the index location inside opDir.
func Path(opDir string) string {
	return filepath.Join(opDir, FileName)
}

// Write serializes idx to <opDir>/index.mp, replacing any previous index
// atomically.
func Write(opDir string, idx *Index) error {
	if idx == nil {
		return errors.New("store: nil index")
	}
	if err := os.MkdirAll(opDir, 0o755); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	f, err := os.CreateTemp(opDir, "index-*.tmp")
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	tmp := f.Name()
	defer func() {
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to remove temp file: %v\n", rmErr)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(idx); err != nil {
		_ = f.Close()
		return fmt.Errorf("store: encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	// Атомарная замена
	if err := os.Rename(tmp, Path(opDir)); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// Read loads <opDir>/index.mp. ok is false when no index exists.
func Read(opDir string) (*Index, bool, error) {
	f, err := os.Open(Path(opDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: %w", err)
	}
	defer f.Close()

	var idx Index
	if err := msgpack.NewDecoder(f).Decode(&idx); err != nil {
		return nil, true, fmt.Errorf("store: decode %s: %w", Path(opDir), err)
	}
	if idx.Schema != SchemaVersion {
		return nil, true, fmt.Errorf("%w: got %d, want %d", ErrSchema, idx.Schema, SchemaVersion)
	}
	return &idx, true, nil
}
