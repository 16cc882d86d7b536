package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docket/internal/config"
	"docket/internal/model"
)

// errQuietFailure fails the process after the command already explained why.
var errQuietFailure = errors.New("failed")

// addOptionFlags registers the flags every command reading the op dir shares.
func addOptionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("op-dir", "o", "", "directory holding the documentation index (default doc)")
	cmd.Flags().StringP("visibility", "V", "", "minimum visibility to document (public|protected|private)")
	cmd.Flags().BoolP("all", "a", false, "document private members too (same as --visibility=private)")
}

// resolveOptions layers defaults, docket.toml and command-line flags.
// Invalid file settings are warnings when ignore-invalid is in effect.
func resolveOptions(cmd *cobra.Command) (config.Options, error) {
	opts := config.Defaults()

	cwd, err := os.Getwd()
	if err != nil {
		return opts, fmt.Errorf("failed to get working directory: %w", err)
	}
	file, found, err := config.Discover(cwd)
	if err != nil {
		return opts, err
	}
	if found {
		if err := file.Apply(&opts); err != nil {
			if !opts.IgnoreInvalid {
				return opts, err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", file.Path, err)
		}
		for _, key := range file.Unknown {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: unknown key %s\n", file.Path, key)
		}
	}

	if err := applyFlags(cmd, &opts); err != nil {
		if !opts.IgnoreInvalid {
			return opts, err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	if err := opts.Finalize(); err != nil {
		return opts, err
	}
	return opts, nil
}

func applyFlags(cmd *cobra.Command, opts *config.Options) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}
	var errs []error

	if changed("ignore-invalid") {
		v, _ := flags.GetBool("ignore-invalid")
		opts.IgnoreInvalid = v
	}
	if changed("op-dir") {
		v, _ := flags.GetString("op-dir")
		opts.OpDir = v
	}
	if changed("visibility") {
		v, _ := flags.GetString("visibility")
		vis, err := model.ParseVisibility(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("--visibility: %w", err))
		} else {
			opts.Visibility = vis
		}
	}
	if changed("all") {
		if v, _ := flags.GetBool("all"); v {
			opts.Visibility = model.Private
		}
	}
	if changed("tab-width") {
		v, _ := flags.GetInt("tab-width")
		opts.TabWidth = v
	}
	if changed("exclude") {
		v, _ := flags.GetStringArray("exclude")
		opts.Exclude = append(opts.Exclude, v...)
	}
	if changed("jobs") {
		v, _ := flags.GetInt("jobs")
		opts.Jobs = v
	}
	if changed("dry-run") {
		v, _ := flags.GetBool("dry-run")
		opts.DryRun = v
	}
	if changed("warn-unresolved-aliases") {
		v, _ := flags.GetBool("warn-unresolved-aliases")
		opts.WarnUnresolvedAliases = v
	}
	if changed("verbose") {
		if v, _ := flags.GetBool("verbose"); v {
			opts.Verbosity = 2
		}
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); quiet {
		opts.Verbosity = 0
	}
	return errors.Join(errs...)
}
