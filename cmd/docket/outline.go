package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"docket/internal/outline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline [flags] [name]",
	Short: "Print the documented namespace tree",
	Long:  "Print classes, modules and their visible members from the index, starting at the top level or at the named container.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOutline,
}

func init() {
	addOptionFlags(outlineCmd)
	outlineCmd.Flags().IntP("depth", "d", 0, "nesting levels below the start container (0=unlimited)")
	outlineCmd.Flags().BoolP("summaries", "s", false, "print the first sentence of each comment")
	outlineCmd.Flags().Int("width", -1, "truncate lines to this width (-1=terminal, 0=off)")
}

func runOutline(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	depth, err := cmd.Flags().GetInt("depth")
	if err != nil {
		return err
	}
	summaries, err := cmd.Flags().GetBool("summaries")
	if err != nil {
		return err
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return err
	}
	if width < 0 {
		width = terminalWidth()
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}

	loaded, err := loadIndex(opts.OpDir)
	if err != nil {
		return err
	}
	tree := loaded.registry.Tree()
	start := tree.Root()
	if len(args) == 1 {
		id, ok := loaded.registry.Lookup(args[0])
		if !ok {
			return fmt.Errorf("%s is not documented", args[0])
		}
		start = id
	}
	return outline.Render(cmd.OutOrStdout(), tree, start, outline.Options{
		Floor:     opts.Visibility,
		Color:     colored,
		Width:     width,
		Summaries: summaries,
		Depth:     depth,
	})
}

// terminalWidth returns the stdout width, or 0 when stdout is not a terminal.
func terminalWidth() int {
	if !isTerminal(os.Stdout) {
		return 0
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}
