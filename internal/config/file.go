package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"docket/internal/model"
)

// fileConfig mirrors docket.toml.
type fileConfig struct {
	Docket docketSection `toml:"docket"`
}

type docketSection struct {
	Visibility            string   `toml:"visibility"`
	TabWidth              int      `toml:"tab_width"`
	OpDir                 string   `toml:"op_dir"`
	Verbosity             int      `toml:"verbosity"`
	Exclude               []string `toml:"exclude"`
	Jobs                  int      `toml:"jobs"`
	WarnUnresolvedAliases bool     `toml:"warn_unresolved_aliases"`
	IgnoreInvalid         bool     `toml:"ignore_invalid"`
	Files                 []string `toml:"files"`
}

// File is a loaded docket.toml.
type File struct {
	Path string
	// Root is the directory holding the file; relative paths in it resolve
	// against Root.
	Root string
	// Unknown lists keys that did not map to an option.
	Unknown []string

	cfg  fileConfig
	meta toml.MetaData
}

// Find looks for docket.toml in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadFile parses a docket.toml.
func LoadFile(path string) (*File, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("docket") {
		return nil, fmt.Errorf("%s: missing [docket]", path)
	}
	f := &File{Path: path, Root: filepath.Dir(path), cfg: cfg, meta: meta}
	for _, key := range meta.Undecoded() {
		f.Unknown = append(f.Unknown, key.String())
	}
	return f, nil
}

// Discover finds and loads docket.toml upward from startDir. ok is false
// when no file exists.
func Discover(startDir string) (*File, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	f, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return f, true, nil
}

// Apply copies every key defined in the file onto opts.
func (f *File) Apply(opts *Options) error {
	if f == nil {
		return nil
	}
	s := f.cfg.Docket
	defined := func(key string) bool { return f.meta.IsDefined("docket", key) }

	if defined("visibility") {
		v, err := model.ParseVisibility(strings.TrimSpace(s.Visibility))
		if err != nil {
			return fmt.Errorf("%s: [docket].visibility: %w", f.Path, err)
		}
		opts.Visibility = v
	}
	if defined("tab_width") {
		opts.TabWidth = s.TabWidth
	}
	if defined("op_dir") {
		dir := filepath.FromSlash(strings.TrimSpace(s.OpDir))
		if dir != "" && !filepath.IsAbs(dir) {
			dir = filepath.Join(f.Root, dir)
		}
		opts.OpDir = dir
	}
	if defined("verbosity") {
		opts.Verbosity = s.Verbosity
	}
	if defined("exclude") {
		opts.Exclude = append(opts.Exclude, s.Exclude...)
	}
	if defined("jobs") {
		opts.Jobs = s.Jobs
	}
	if defined("warn_unresolved_aliases") {
		opts.WarnUnresolvedAliases = s.WarnUnresolvedAliases
	}
	if defined("ignore_invalid") {
		opts.IgnoreInvalid = s.IgnoreInvalid
	}
	if defined("files") {
		for _, p := range s.Files {
			p = filepath.FromSlash(strings.TrimSpace(p))
			if p == "" {
				continue
			}
			if !filepath.IsAbs(p) {
				p = filepath.Join(f.Root, p)
			}
			opts.Files = append(opts.Files, p)
		}
	}
	return nil
}
