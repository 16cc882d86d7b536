package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"docket/internal/diag"
	"docket/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>: <SEV> <CODE>: <Message>
// затем, по опции, исходную строку записи и заметки.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	sevColor := map[diag.Severity]*color.Color{
		diag.SevError:   color.New(color.FgRed, color.Bold),
		diag.SevWarning: color.New(color.FgYellow, color.Bold),
		diag.SevInfo:    color.New(color.FgCyan),
	}
	dim := color.New(color.Faint)
	for _, c := range sevColor {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	if opts.Color {
		dim.EnableColor()
	} else {
		dim.DisableColor()
	}

	for _, d := range bag.Items() {
		loc := location(d.Primary, fs, opts.PathMode)
		sev := sevColor[d.Severity]
		if sev == nil {
			sev = color.New()
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sev.Sprint(d.Severity.String()), d.Code.ID(), d.Message)

		if opts.Context && d.Primary.IsKnown() && fs != nil {
			if f := fs.Get(d.Primary.File); f != nil {
				line := strings.TrimRight(f.GetLine(d.Primary.Line), " \t")
				if opts.Width > 0 {
					line = runewidth.Truncate(line, opts.Width, "…")
				}
				if line != "" {
					fmt.Fprintf(w, "  %s %s\n", dim.Sprint("|"), line)
				}
			}
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s: %s\n", dim.Sprint("note:"), location(n.Span, fs, opts.PathMode), n.Msg)
			}
		}
	}
}

// Summary prints "N error(s), M warning(s)" when the bag is non-empty.
func Summary(w io.Writer, bag *diag.Bag) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	fmt.Fprintf(w, "%d error(s), %d warning(s)\n", bag.Count(diag.SevError), bag.Count(diag.SevWarning))
}
