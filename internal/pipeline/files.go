package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docket/internal/config"
)

// Unit file suffixes.
const (
	UnitExt   = ".jsonl"
	UnitExtGz = ".jsonl.gz"
)

// IsUnitFile reports whether path has a unit file suffix.
func IsUnitFile(path string) bool {
	return strings.HasSuffix(path, UnitExt) || strings.HasSuffix(path, UnitExtGz)
}

// CollectUnits expands directories into the unit files below them, drops
// excluded paths and returns a sorted, duplicate-free list. Files named
// explicitly are kept whatever their suffix.
func CollectUnits(paths []string, opts *config.Options) ([]string, error) {
	seen := make(map[string]struct{}, len(paths))
	var out []string
	add := func(path string) {
		path = filepath.Clean(path)
		if opts != nil && opts.Excluded(filepath.ToSlash(path)) {
			return
		}
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsUnitFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}
	// sorted order is the merge order
	sort.Strings(out)
	return out, nil
}

// DisplayPaths maps unit paths to slash-separated paths relative to
// baseDir where possible.
func DisplayPaths(files []string, baseDir string) []string {
	out := make([]string, len(files))
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	for i, file := range files {
		path := filepath.Clean(file)
		if base != "" {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
		out[i] = filepath.ToSlash(path)
	}
	return out
}
