package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"docket/internal/markup"
	"docket/internal/outline"
)

var markupCmd = &cobra.Command{
	Use:   "markup [flags] [file|-]",
	Short: "Parse comment markup and print its structure",
	Long:  "Parse a comment file (or stdin) with the documentation markup rules and print the block tree, plain text or normalized markup.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMarkup,
}

func init() {
	markupCmd.Flags().String("format", "dump", "output format (dump|text|markup)")
	markupCmd.Flags().Bool("strip", false, "strip # and // comment markers first")
	markupCmd.Flags().IntP("tab-width", "w", markup.DefaultTabWidth, "columns per tab in verbatim blocks")
	markupCmd.Flags().Int("width", outline.DefaultWidth, "wrap width for text output")
}

func runMarkup(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	strip, err := cmd.Flags().GetBool("strip")
	if err != nil {
		return err
	}
	tabWidth, err := cmd.Flags().GetInt("tab-width")
	if err != nil {
		return err
	}
	if tabWidth <= 0 {
		return fmt.Errorf("tab width must be positive, got %d", tabWidth)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return err
	}

	var raw []byte
	if len(args) == 0 || args[0] == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	text := string(raw)
	if strip {
		text = markup.StripComment(text)
	}
	doc := markup.Parser{TabWidth: tabWidth}.Parse(text)

	out := cmd.OutOrStdout()
	switch format {
	case "dump":
		return outline.Dump(out, doc)
	case "text":
		_, err = fmt.Fprintln(out, outline.Text(doc, width))
	case "markup":
		_, err = fmt.Fprintln(out, doc.Text())
	default:
		return fmt.Errorf("unsupported format %q (must be dump, text or markup)", format)
	}
	return err
}
