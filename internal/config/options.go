package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"docket/internal/markup"
	"docket/internal/model"
)

// Defaults.
const (
	DefaultOpDir     = "doc"
	DefaultVerbosity = 1
	// EnvVar holds options prepended to the command line.
	EnvVar = "DOCKETOPT"
	// FileName is the project configuration discovered upward from the
	// working directory.
	FileName = "docket.toml"
)

// Options is the resolved option set of a run.
type Options struct {
	// Visibility is the minimum visibility documented. Per-entity :doc:
	// overrides it.
	Visibility model.Visibility
	TabWidth   int
	OpDir      string
	// Verbosity: 0 quiet, 1 normal, 2 verbose.
	Verbosity int
	// Exclude holds regular expressions; matching unit paths are skipped.
	Exclude []string
	// Jobs bounds parallel unit decoding; 0 means GOMAXPROCS.
	Jobs                  int
	DryRun                bool
	WarnUnresolvedAliases bool
	// IgnoreInvalid reports invalid options as warnings instead of failing.
	IgnoreInvalid bool
	Files         []string

	exclude *regexp.Regexp
}

// Defaults returns the option set used when nothing is configured.
func Defaults() Options {
	return Options{
		Visibility:    model.Protected,
		TabWidth:      markup.DefaultTabWidth,
		OpDir:         DefaultOpDir,
		Verbosity:     DefaultVerbosity,
		IgnoreInvalid: true,
	}
}

// Finalize validates the options and compiles the exclude patterns.
func (o *Options) Finalize() error {
	var errs []error
	if o.TabWidth <= 0 {
		errs = append(errs, fmt.Errorf("tab width must be positive, got %d", o.TabWidth))
	}
	if o.Verbosity < 0 || o.Verbosity > 2 {
		errs = append(errs, fmt.Errorf("verbosity must be 0, 1 or 2, got %d", o.Verbosity))
	}
	if o.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must not be negative, got %d", o.Jobs))
	}
	if strings.TrimSpace(o.OpDir) == "" {
		o.OpDir = DefaultOpDir
	}
	o.exclude = nil
	if len(o.Exclude) > 0 {
		re, err := regexp.Compile(strings.Join(o.Exclude, "|"))
		if err != nil {
			errs = append(errs, fmt.Errorf("exclude: %w", err))
		} else {
			o.exclude = re
		}
	}
	return errors.Join(errs...)
}

// Excluded reports whether path matches an exclude pattern. Finalize must
// have been called.
func (o *Options) Excluded(path string) bool {
	return o.exclude != nil && o.exclude.MatchString(path)
}

// Quiet reports verbosity 0.
func (o *Options) Quiet() bool { return o.Verbosity == 0 }
