package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"docket/internal/diag"
	"docket/internal/diagfmt"
	"docket/internal/source"
)

type diagOutput struct {
	format   string
	pathMode diagfmt.PathMode
	color    bool
	notes    bool
	max      int
}

func readDiagOutput(cmd *cobra.Command) (diagOutput, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return diagOutput{}, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return diagOutput{}, fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	pathMode, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return diagOutput{}, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	notes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return diagOutput{}, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return diagOutput{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	colored, err := useColor(cmd)
	if err != nil {
		return diagOutput{}, err
	}
	return diagOutput{
		format:   format,
		pathMode: diagfmt.ParsePathMode(pathMode),
		color:    colored,
		notes:    notes,
		max:      maxDiagnostics,
	}, nil
}

func addDiagFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	cmd.Flags().String("path-mode", "auto", "how to print unit paths (auto|absolute|relative|basename)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
}

// printDiagnostics writes the sorted bag. Info diagnostics are shown only
// when verbose is set.
func printDiagnostics(out io.Writer, bag *diag.Bag, fs *source.FileSet, o diagOutput, verbose bool) error {
	if bag == nil {
		return nil
	}
	shown := bag
	if !verbose {
		shown = diag.NewBag(bag.Cap())
		for _, d := range bag.Items() {
			if d.Severity != diag.SevInfo {
				shown.Add(d)
			}
		}
	}
	shown.Sort()
	if o.format == "json" {
		return diagfmt.JSON(out, shown, fs, diagfmt.JSONOpts{
			PathMode:     o.pathMode,
			Max:          o.max,
			IncludeNotes: o.notes,
		})
	}
	if shown.Len() == 0 {
		return nil
	}
	diagfmt.Pretty(out, shown, fs, diagfmt.PrettyOpts{
		Color:     o.color,
		PathMode:  o.pathMode,
		ShowNotes: o.notes,
		Context:   true,
	})
	diagfmt.Summary(out, shown)
	return nil
}
