package outline

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"docket/internal/markup"
)

// DefaultWidth is used by Text when width is not positive.
const DefaultWidth = 80

// Text renders doc as plain text wrapped to width columns. Accumulated
// comments are separated by a blank line.
func Text(doc *markup.Document, width int) string {
	if doc.Empty() {
		return ""
	}
	if width <= 0 {
		width = DefaultWidth
	}
	var parts []string
	for _, part := range doc.Parts() {
		parts = append(parts, strings.Join(textBlocks(part, width, ""), "\n\n"))
	}
	return strings.Join(parts, "\n\n")
}

func textBlocks(blocks []markup.Block, width int, indent string) []string {
	out := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		if s := textBlock(blk, width, indent); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func textBlock(blk markup.Block, width int, indent string) string {
	switch b := blk.(type) {
	case markup.Paragraph:
		return wrap(markup.SpansText(b.Spans), width, indent, indent)
	case markup.Heading:
		title := markup.SpansText(b.Spans)
		under := "-"
		if b.Level == 1 {
			under = "="
		}
		return indent + title + "\n" + indent + strings.Repeat(under, max(runewidth.StringWidth(title), 1))
	case markup.Rule:
		return indent + strings.Repeat("-", max(width-len(indent), 3))
	case markup.Verbatim:
		lines := make([]string, len(b.Lines))
		for i, l := range b.Lines {
			if l != "" {
				lines[i] = indent + "    " + l
			}
		}
		return strings.Join(lines, "\n")
	case markup.BlockQuote:
		return strings.Join(textBlocks(b.Blocks, width, indent+"| "), "\n"+indent+"|\n")
	case markup.List:
		items := make([]string, 0, len(b.Items))
		for i, item := range b.Items {
			items = append(items, textItem(b.Kind, i, item, width, indent))
		}
		return strings.Join(items, "\n")
	case markup.ListItem:
		return textItem(markup.ListBullet, 0, b, width, indent)
	}
	return ""
}

func textItem(kind markup.ListKind, n int, item markup.ListItem, width int, indent string) string {
	var marker string
	switch kind {
	case markup.ListNumbered:
		marker = strconv.Itoa(n+1) + ". "
	case markup.ListLabeled:
		marker = item.Label + ": "
	default:
		marker = "* "
	}
	inner := indent + strings.Repeat(" ", runewidth.StringWidth(marker))
	blocks := textBlocks(item.Blocks, width, inner)
	if len(blocks) == 0 {
		return indent + strings.TrimRight(marker, " ")
	}
	blocks[0] = indent + marker + strings.TrimPrefix(blocks[0], inner)
	return strings.Join(blocks, "\n")
}

// wrap fills words into lines of at most width columns. A word longer than
// the line is kept whole.
func wrap(text string, width int, first, rest string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	prefix := first
	col := 0
	for i, word := range words {
		ww := runewidth.StringWidth(word)
		switch {
		case i == 0:
			b.WriteString(prefix)
			col = runewidth.StringWidth(prefix)
		case col+1+ww > width:
			b.WriteString("\n")
			b.WriteString(rest)
			col = runewidth.StringWidth(rest)
		default:
			b.WriteByte(' ')
			col++
		}
		b.WriteString(word)
		col += ww
	}
	return b.String()
}
