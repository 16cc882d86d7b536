package markup

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultTabWidth matches the column width used when expanding tabs.
const DefaultTabWidth = 8

const maxHeadingLevel = 6

// Parser holds the knobs that affect block layout.
type Parser struct {
	TabWidth int
}

// Parse parses text with the default tab width.
func Parse(text string) *Document {
	return Parser{TabWidth: DefaultTabWidth}.Parse(text)
}

// Parse converts raw comment text into a Document. It never fails.
func (p Parser) Parse(text string) *Document {
	lines := p.splitLines(text)
	margin := -1
	for _, l := range lines {
		if l.blank() {
			continue
		}
		if margin < 0 || l.indent < margin {
			margin = l.indent
		}
	}
	if margin < 0 {
		return &Document{}
	}
	return NewDocument(p.parseBlocks(lines, margin)...)
}

type line struct {
	indent int
	text   string // without leading indentation
	raw    string // tab-expanded, with indentation
}

func (l line) blank() bool { return l.text == "" }

func (p Parser) splitLines(text string) []line {
	if text == "" {
		return nil
	}
	tab := p.TabWidth
	if tab <= 0 {
		tab = DefaultTabWidth
	}
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	parts := strings.Split(text, "\n")
	out := make([]line, 0, len(parts))
	for _, part := range parts {
		raw := strings.TrimRight(expandTabs(part, tab), " ")
		trimmed := strings.TrimLeft(raw, " ")
		out = append(out, line{
			indent: len(raw) - len(trimmed),
			text:   trimmed,
			raw:    raw,
		})
	}
	return out
}

func expandTabs(s string, width int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			pad := width - col%width
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

var (
	headingRe  = regexp.MustCompile(`^(=+)\s*(\S.*)$`)
	ruleRe     = regexp.MustCompile(`^-{3,}$`)
	bulletRe   = regexp.MustCompile(`^([*-])(\s+|$)`)
	numberRe   = regexp.MustCompile(`^(\d+|[a-zA-Z])\.(\s+|$)`)
	bracketRe  = regexp.MustCompile(`^\[([^\]]+)\](\s+|$)`)
	noteRe     = regexp.MustCompile(`^([^\s:][^:]*?)::(\s+|$)`)
	quoteRe    = regexp.MustCompile(`^>(\s|$)`)
	quoteStrip = regexp.MustCompile(`^> ?`)
)

// marker describes a list item prefix found at the start of a line.
type marker struct {
	kind  ListKind
	label string
	note  bool // label written as "label::" rather than "[label]"
	width int  // bytes consumed by the marker, including trailing spaces
}

// sameList reports whether an item with marker o continues a list started
// with m.
func (m marker) sameList(o marker) bool {
	return m.kind == o.kind && m.note == o.note
}

func listMarker(text string) (marker, bool) {
	if ruleRe.MatchString(text) {
		return marker{}, false
	}
	if m := bulletRe.FindStringSubmatch(text); m != nil {
		return marker{kind: ListBullet, width: len(m[0])}, true
	}
	if m := numberRe.FindStringSubmatch(text); m != nil {
		return marker{kind: ListNumbered, label: m[1], width: len(m[0])}, true
	}
	if m := bracketRe.FindStringSubmatch(text); m != nil {
		return marker{kind: ListLabeled, label: m[1], width: len(m[0])}, true
	}
	if m := noteRe.FindStringSubmatch(text); m != nil {
		return marker{kind: ListLabeled, label: strings.TrimSpace(m[1]), note: true, width: len(m[0])}, true
	}
	return marker{}, false
}

func startsBlock(text string) bool {
	if headingRe.MatchString(text) || ruleRe.MatchString(text) || quoteRe.MatchString(text) {
		return true
	}
	_, ok := listMarker(text)
	return ok
}

func (p Parser) parseBlocks(lines []line, margin int) []Block {
	var blocks []Block
	i := 0
	for i < len(lines) {
		l := lines[i]
		if l.blank() {
			i++
			continue
		}
		switch {
		case l.indent > margin && !startsBlock(l.text):
			var v Verbatim
			v, i = parseVerbatim(lines, i, margin)
			blocks = append(blocks, v)
		case ruleRe.MatchString(l.text):
			blocks = append(blocks, Rule{})
			i++
		case headingRe.MatchString(l.text):
			m := headingRe.FindStringSubmatch(l.text)
			level := min(len(m[1]), maxHeadingLevel)
			blocks = append(blocks, Heading{Level: level, Spans: ParseInline(strings.TrimSpace(m[2]))})
			i++
		case quoteRe.MatchString(l.text):
			var q BlockQuote
			q, i = p.parseQuote(lines, i)
			blocks = append(blocks, q)
		default:
			if mk, ok := listMarker(l.text); ok {
				var list List
				list, i = p.parseList(lines, i, mk)
				blocks = append(blocks, list)
				continue
			}
			var para Paragraph
			para, i = parseParagraph(lines, i)
			blocks = append(blocks, para)
		}
	}
	return blocks
}

func parseParagraph(lines []line, start int) (Paragraph, int) {
	indent := lines[start].indent
	texts := []string{lines[start].text}
	i := start + 1
	for i < len(lines) {
		l := lines[i]
		if l.blank() || l.indent != indent || startsBlock(l.text) {
			break
		}
		texts = append(texts, l.text)
		i++
	}
	return Paragraph{Spans: ParseInline(strings.Join(texts, " "))}, i
}

func parseVerbatim(lines []line, start, margin int) (Verbatim, int) {
	end := start
	i := start
	for i < len(lines) {
		l := lines[i]
		if !l.blank() && l.indent <= margin {
			break
		}
		if !l.blank() {
			end = i + 1
		}
		i++
	}
	body := lines[start:end]
	common := -1
	for _, l := range body {
		if l.blank() {
			continue
		}
		if common < 0 || l.indent < common {
			common = l.indent
		}
	}
	out := make([]string, 0, len(body))
	for _, l := range body {
		if l.blank() {
			out = append(out, "")
			continue
		}
		out = append(out, l.raw[common:])
	}
	return Verbatim{Lines: out}, end
}

func (p Parser) parseQuote(lines []line, start int) (BlockQuote, int) {
	indent := lines[start].indent
	var inner []string
	i := start
	for i < len(lines) {
		l := lines[i]
		if l.blank() || l.indent != indent || !quoteRe.MatchString(l.text) {
			break
		}
		inner = append(inner, quoteStrip.ReplaceAllString(l.text, ""))
		i++
	}
	doc := p.Parse(strings.Join(inner, "\n"))
	return BlockQuote{Blocks: doc.Blocks}, i
}

// parseList collects consecutive items written like first at the
// indentation of the first marker line. Bracket and note labels start
// separate lists.
func (p Parser) parseList(lines []line, start int, first marker) (List, int) {
	indent := lines[start].indent
	list := List{Kind: first.kind}
	i := start
	for i < len(lines) {
		l := lines[i]
		if l.indent != indent {
			break
		}
		mk, ok := listMarker(l.text)
		if !ok || !first.sameList(mk) {
			break
		}
		var item ListItem
		item, i = p.parseItem(lines, i, mk)
		list.Items = append(list.Items, item)

		// Blank lines may separate items of the same list.
		next := i
		for next < len(lines) && lines[next].blank() {
			next++
		}
		if next == len(lines) {
			i = next
			break
		}
		if lines[next].indent != indent {
			break
		}
		if nm, ok := listMarker(lines[next].text); !ok || !first.sameList(nm) {
			break
		}
		i = next
	}
	return list, i
}

// parseItem parses one list item. The head text after the marker sits at
// the item margin, which is the marker width or the smallest continuation
// indent, whichever is less.
func (p Parser) parseItem(lines []line, start int, mk marker) (ListItem, int) {
	head := lines[start]
	bodyCol := head.indent + mk.width
	rest := head.text[mk.width:]

	i := start + 1
	last := i
	for i < len(lines) {
		l := lines[i]
		if !l.blank() && l.indent <= head.indent {
			break
		}
		if !l.blank() {
			last = i + 1
		}
		i++
	}
	cont := lines[start+1 : last]

	margin := -1
	for _, l := range cont {
		if l.blank() {
			continue
		}
		if margin < 0 || l.indent < margin {
			margin = l.indent
		}
	}
	var body []line
	if rest != "" {
		if margin < 0 || bodyCol < margin {
			margin = bodyCol
		}
		body = append(body, line{indent: margin, text: rest, raw: strings.Repeat(" ", margin) + rest})
	}
	body = append(body, cont...)

	item := ListItem{}
	if mk.kind == ListLabeled {
		item.Label = mk.label
	}
	if margin >= 0 {
		item.Blocks = p.parseBlocks(body, margin)
	}
	return item, last
}
