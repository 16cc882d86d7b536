package outline

import (
	"fmt"
	"io"
	"strings"

	"docket/internal/markup"
)

// Dump writes the block and span structure of doc, one node per line.
func Dump(w io.Writer, doc *markup.Document) error {
	d := &dumper{w: w}
	for i, part := range doc.Parts() {
		d.printf(0, "part %d", i+1)
		for _, blk := range part {
			d.block(blk, 1)
		}
	}
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) printf(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *dumper) block(blk markup.Block, depth int) {
	switch b := blk.(type) {
	case markup.Paragraph:
		d.printf(depth, "paragraph")
		d.spans(b.Spans, depth+1)
	case markup.Heading:
		d.printf(depth, "heading %d", b.Level)
		d.spans(b.Spans, depth+1)
	case markup.Verbatim:
		d.printf(depth, "verbatim")
		for _, l := range b.Lines {
			d.printf(depth+1, "%q", l)
		}
	case markup.Rule:
		d.printf(depth, "rule")
	case markup.BlockQuote:
		d.printf(depth, "quote")
		for _, inner := range b.Blocks {
			d.block(inner, depth+1)
		}
	case markup.List:
		d.printf(depth, "list %s", b.Kind)
		for _, item := range b.Items {
			d.block(item, depth+1)
		}
	case markup.ListItem:
		if b.Label != "" {
			d.printf(depth, "item [%s]", b.Label)
		} else {
			d.printf(depth, "item")
		}
		for _, inner := range b.Blocks {
			d.block(inner, depth+1)
		}
	}
}

func (d *dumper) spans(spans []markup.Span, depth int) {
	for _, sp := range spans {
		switch s := sp.(type) {
		case markup.PlainText:
			d.printf(depth, "text %q", s.Text)
		case markup.Bold:
			d.printf(depth, "bold %q", s.Text)
		case markup.Italic:
			d.printf(depth, "italic %q", s.Text)
		case markup.Monospace:
			d.printf(depth, "mono %q", s.Text)
		case markup.HyperLink:
			d.printf(depth, "link %q", s.Target)
			d.spans(s.Spans, depth+1)
		case markup.CrossReference:
			d.printf(depth, "xref %q", s.Token)
		}
	}
}
