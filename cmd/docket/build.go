package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docket/internal/config"
	"docket/internal/observ"
	"docket/internal/pipeline"
	"docket/internal/store"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [path...]",
	Short: "Build the documentation index from unit files",
	Long: `Build merges every unit (*.jsonl, *.jsonl.gz) found under the given paths,
resolves constant aliases, hides nodoc containers and writes the index to the op dir.
Without paths the files listed in docket.toml or the current directory are used.`,
	RunE: buildExecution,
}

func init() {
	addOptionFlags(buildCmd)
	addDiagFlags(buildCmd)
	buildCmd.Flags().IntP("tab-width", "w", 0, "columns per tab in verbatim comment blocks")
	buildCmd.Flags().StringArrayP("exclude", "x", nil, "skip unit paths matching this regular expression (repeatable)")
	buildCmd.Flags().IntP("jobs", "j", 0, "max parallel unit decoders (0=auto)")
	buildCmd.Flags().Bool("dry-run", false, "build but do not write the index")
	buildCmd.Flags().Bool("warn-unresolved-aliases", false, "report constant aliases whose target is unknown")
	buildCmd.Flags().Bool("ignore-invalid", true, "turn invalid options into warnings")
	buildCmd.Flags().BoolP("verbose", "v", false, "show informational diagnostics and per-unit stats")
	buildCmd.Flags().Var(&buildUI, "ui", "progress UI (auto|on|off)")
}

var buildUI uiMode

func buildExecution(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	diagOut, err := readDiagOutput(cmd)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	baseDir, err := os.Getwd()
	if err != nil {
		baseDir = "."
	}
	paths := args
	if len(paths) == 0 {
		paths = opts.Files
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := pipeline.CollectUnits(paths, &opts)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no unit files found under %v", paths)
	}
	displayFiles := pipeline.DisplayPaths(files, baseDir)

	timer := observ.NewTimer()
	req := pipeline.Request{
		Paths:          files,
		BaseDir:        baseDir,
		Options:        opts,
		MaxDiagnostics: diagOut.max,
		Timer:          timer,
	}

	var res *pipeline.Result
	if buildUI.showProgress(len(files), opts.Quiet(), diagOut.format) {
		res, err = runBuildWithUI(cmd.Context(), "docket build", displayFiles, &req)
	} else {
		res, err = pipeline.Build(cmd.Context(), &req)
	}
	out := cmd.OutOrStdout()
	if res != nil {
		if perr := printDiagnostics(out, res.Bag, res.FileSet, diagOut, opts.Verbosity > 1); perr != nil {
			return perr
		}
	}
	if showTimings && res != nil {
		if terr := printStageTimings(out, res.Timings); terr != nil {
			return terr
		}
	}
	if err != nil {
		if errors.Is(err, pipeline.ErrDiagnostics) || res != nil && res.Bag.HasErrors() {
			return errQuietFailure
		}
		return err
	}

	if opts.Verbosity > 1 && diagOut.format == "pretty" {
		printUnitStats(out, res)
	}

	target := store.Path(opts.OpDir)
	if !opts.DryRun {
		idx := timer.Begin("store")
		if werr := store.Write(opts.OpDir, store.Snapshot(res.Registry, res.FileSet)); werr != nil {
			timer.End(idx, "failed")
			return werr
		}
		timer.End(idx, target)
	}
	if showTimings {
		if terr := printTimerSummary(out, timer); terr != nil {
			return terr
		}
	}
	if !opts.Quiet() && diagOut.format == "pretty" {
		printBuildSummary(out, res, &opts, formatPathForOutput(baseDir, target))
	}
	return nil
}

func printBuildSummary(out io.Writer, res *pipeline.Result, opts *config.Options, target string) {
	fmt.Fprintf(out, "documented %d names from %d units (%d aliases, %d hidden)\n",
		res.Registry.Len(), len(res.Units), res.Aliases, res.Hidden)
	if opts.DryRun {
		fmt.Fprintln(out, "dry run, index not written")
		return
	}
	fmt.Fprintf(out, "index: %s\n", target)
}

func printUnitStats(out io.Writer, res *pipeline.Result) {
	for _, u := range res.Units {
		if !u.Loaded {
			fmt.Fprintf(out, "  %s: not loaded\n", u.Display)
			continue
		}
		fmt.Fprintf(out, "  %s: %d records, %d containers, %d members, %d skipped\n",
			u.Display, u.Stats.Records, u.Stats.Containers, u.Stats.Members, u.Stats.Skipped)
	}
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || len(rel) >= 2 && rel[:2] == ".." {
		return path
	}
	return filepath.ToSlash(rel)
}
