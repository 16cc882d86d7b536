package markup

import (
	"strconv"
	"strings"
)

// commentSeparator joins comments that were accumulated into one document.
const commentSeparator = "\n---\n"

// Text renders the document back to markup source. Accumulated comments are
// joined by a "---" line.
func (d *Document) Text() string {
	if d.Empty() {
		return ""
	}
	parts := d.Parts()
	rendered := make([]string, 0, len(parts))
	for _, part := range parts {
		rendered = append(rendered, renderBlocks(part, ""))
	}
	return strings.Join(rendered, commentSeparator)
}

// SpansText renders spans without markup, e.g. for summaries.
func SpansText(spans []Span) string {
	var b strings.Builder
	for _, sp := range spans {
		switch s := sp.(type) {
		case PlainText:
			b.WriteString(s.Text)
		case Bold:
			b.WriteString(s.Text)
		case Italic:
			b.WriteString(s.Text)
		case Monospace:
			b.WriteString(s.Text)
		case HyperLink:
			b.WriteString(SpansText(s.Spans))
		case CrossReference:
			b.WriteString(s.Token)
		}
	}
	return b.String()
}

// Summary returns the first sentence of the first paragraph.
func (d *Document) Summary() string {
	if d.Empty() {
		return ""
	}
	for _, blk := range d.Blocks {
		p, ok := blk.(Paragraph)
		if !ok {
			continue
		}
		text := strings.TrimSpace(SpansText(p.Spans))
		if idx := strings.Index(text, ". "); idx >= 0 {
			return text[:idx+1]
		}
		return text
	}
	return ""
}

func renderBlocks(blocks []Block, indent string) string {
	out := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		out = append(out, renderBlock(blk, indent))
	}
	return strings.Join(out, "\n\n")
}

func renderBlock(blk Block, indent string) string {
	switch b := blk.(type) {
	case Paragraph:
		return indent + renderSpans(b.Spans)
	case Heading:
		return indent + strings.Repeat("=", b.Level) + " " + renderSpans(b.Spans)
	case Rule:
		return indent + "---"
	case Verbatim:
		lines := make([]string, len(b.Lines))
		for i, l := range b.Lines {
			if l == "" {
				continue
			}
			lines[i] = indent + "  " + l
		}
		return strings.Join(lines, "\n")
	case BlockQuote:
		inner := strings.Split(renderBlocks(b.Blocks, ""), "\n")
		for i, l := range inner {
			inner[i] = strings.TrimRight(indent+"> "+l, " ")
		}
		return strings.Join(inner, "\n")
	case List:
		items := make([]string, 0, len(b.Items))
		for i, item := range b.Items {
			items = append(items, renderItem(b.Kind, i, item, indent))
		}
		return strings.Join(items, "\n")
	case ListItem:
		return renderItem(ListBullet, 0, b, indent)
	}
	return ""
}

func renderItem(kind ListKind, n int, item ListItem, indent string) string {
	var prefix string
	switch kind {
	case ListNumbered:
		prefix = strconv.Itoa(n+1) + ". "
	case ListLabeled:
		prefix = "[" + item.Label + "] "
	default:
		prefix = "* "
	}
	if len(item.Blocks) == 0 {
		return indent + strings.TrimRight(prefix, " ")
	}
	body := renderBlocks(item.Blocks, indent+strings.Repeat(" ", len(prefix)))
	return indent + prefix + strings.TrimLeft(body, " ")
}

func renderSpans(spans []Span) string {
	var b strings.Builder
	for _, sp := range spans {
		switch s := sp.(type) {
		case PlainText:
			b.WriteString(s.Text)
		case Bold:
			b.WriteString(wrapInline(s.Text, "*", "b"))
		case Italic:
			b.WriteString(wrapInline(s.Text, "_", "em"))
		case Monospace:
			b.WriteString(wrapInline(s.Text, "+", "tt"))
		case HyperLink:
			label := SpansText(s.Spans)
			if label == s.Target {
				b.WriteString(s.Target)
			} else {
				b.WriteString("{" + label + "}[" + s.Target + "]")
			}
		case CrossReference:
			b.WriteString(s.Token)
		}
	}
	return b.String()
}

func wrapInline(text, mark, tag string) string {
	if text != "" && !strings.ContainsAny(text, " \t") && !strings.Contains(text, mark) {
		return mark + text + mark
	}
	return "<" + tag + ">" + text + "</" + tag + ">"
}
