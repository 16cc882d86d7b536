package main

import (
	"fmt"

	"docket/internal/registry"
	"docket/internal/source"
	"docket/internal/store"
)

type loadedIndex struct {
	index    *store.Index
	registry *registry.Registry
	files    *source.FileSet
}

// loadIndex reads and restores the index written by "docket build".
func loadIndex(opDir string) (*loadedIndex, error) {
	idx, found, err := store.Read(opDir)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no index at %s (run \"docket build\" first)", store.Path(opDir))
	}
	reg, files, err := store.Restore(idx)
	if err != nil {
		return nil, err
	}
	return &loadedIndex{index: idx, registry: reg, files: files}, nil
}
