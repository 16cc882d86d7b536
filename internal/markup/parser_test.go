package markup

import (
	"reflect"
	"testing"
)

func para(spans ...Span) Paragraph { return Paragraph{Spans: spans} }

func plain(s string) PlainText { return PlainText{Text: s} }

func TestParseEmpty(t *testing.T) {
	for _, src := range []string{"", "\n\n", "   \n\t\n"} {
		doc := Parse(src)
		if !doc.Empty() {
			t.Fatalf("Parse(%q): expected empty document, got %#v", src, doc.Blocks)
		}
	}
}

func TestParseSingleLine(t *testing.T) {
	doc := Parse("comment 1")
	want := []Block{para(plain("comment 1"))}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}

func TestParseParagraphsJoinLines(t *testing.T) {
	doc := Parse("first line\nsecond line\n\nnext paragraph")
	want := []Block{
		para(plain("first line second line")),
		para(plain("next paragraph")),
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}

func TestParseVerbatimKeepsRelativeIndent(t *testing.T) {
	src := "Example:\n\n  def foo\n    bar\n\n  end\n\nAfter."
	doc := Parse(src)
	want := []Block{
		para(plain("Example:")),
		Verbatim{Lines: []string{"def foo", "  bar", "", "end"}},
		para(plain("After.")),
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}

func TestParseVerbatimExpandsTabs(t *testing.T) {
	doc := Parser{TabWidth: 4}.Parse("text\n\tcode\n\t\tnested")
	want := []Block{
		para(plain("text")),
		Verbatim{Lines: []string{"code", "    nested"}},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}

func TestParseHeadingLevels(t *testing.T) {
	tests := []struct {
		src   string
		level int
	}{
		{"= Title", 1},
		{"=== Three", 3},
		{"========== Clamped", 6},
	}
	for _, tt := range tests {
		doc := Parse(tt.src)
		if doc.Len() != 1 {
			t.Fatalf("%q: expected 1 block, got %d", tt.src, doc.Len())
		}
		h, ok := doc.Blocks[0].(Heading)
		if !ok {
			t.Fatalf("%q: expected heading, got %T", tt.src, doc.Blocks[0])
		}
		if h.Level != tt.level {
			t.Errorf("%q: level = %d, want %d", tt.src, h.Level, tt.level)
		}
	}
}

func TestParseRule(t *testing.T) {
	doc := Parse("above\n\n---\n\nbelow")
	want := []Block{para(plain("above")), Rule{}, para(plain("below"))}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}

func TestParseBulletListWithNestedBlocks(t *testing.T) {
	src := "* one\n  continued\n* two\n\n    code\n* three"
	doc := Parse(src)
	want := []Block{
		List{Kind: ListBullet, Items: []ListItem{
			{Blocks: []Block{para(plain("one continued"))}},
			{Blocks: []Block{para(plain("two")), Verbatim{Lines: []string{"code"}}}},
			{Blocks: []Block{para(plain("three"))}},
		}},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}

func TestParseNestedList(t *testing.T) {
	src := "- outer\n  - inner a\n  - inner b\n- second"
	doc := Parse(src)
	want := []Block{
		List{Kind: ListBullet, Items: []ListItem{
			{Blocks: []Block{
				para(plain("outer")),
				List{Kind: ListBullet, Items: []ListItem{
					{Blocks: []Block{para(plain("inner a"))}},
					{Blocks: []Block{para(plain("inner b"))}},
				}},
			}},
			{Blocks: []Block{para(plain("second"))}},
		}},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}

func TestParseNumberedAndLabeledLists(t *testing.T) {
	doc := Parse("1. first\n2. second\n\n[cat] small\n[dog] large\n\nname:: value")
	if doc.Len() != 3 {
		t.Fatalf("expected 3 lists, got %d: %#v", doc.Len(), doc.Blocks)
	}
	numbered := doc.Blocks[0].(List)
	if numbered.Kind != ListNumbered || len(numbered.Items) != 2 {
		t.Fatalf("unexpected numbered list: %#v", numbered)
	}
	labeled := doc.Blocks[1].(List)
	if labeled.Kind != ListLabeled || labeled.Items[0].Label != "cat" || labeled.Items[1].Label != "dog" {
		t.Fatalf("unexpected labeled list: %#v", labeled)
	}
	note := doc.Blocks[2].(List)
	if note.Kind != ListLabeled || note.Items[0].Label != "name" {
		t.Fatalf("unexpected note list: %#v", note)
	}
	if got := SpansText(note.Items[0].Blocks[0].(Paragraph).Spans); got != "value" {
		t.Fatalf("note body = %q", got)
	}
}

func TestParseListKindChangeStartsNewList(t *testing.T) {
	doc := Parse("* a\n1. b")
	if doc.Len() != 2 {
		t.Fatalf("expected 2 lists, got %#v", doc.Blocks)
	}
}

func TestParseLabelStyleChangeStartsNewList(t *testing.T) {
	doc := Parse("[cat] small\nname:: value\nother:: thing")
	if doc.Len() != 2 {
		t.Fatalf("expected 2 lists, got %#v", doc.Blocks)
	}
	if got := len(doc.Blocks[1].(List).Items); got != 2 {
		t.Fatalf("note list has %d items", got)
	}
}

func TestParseItemHeadAlignsWithContinuation(t *testing.T) {
	doc := Parse("*   foo\n  bar")
	want := []Block{List{Kind: ListBullet, Items: []ListItem{{Blocks: []Block{para(plain("foo bar"))}}}}}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}

func TestParseBlockQuote(t *testing.T) {
	doc := Parse("> quoted *text*\n> more")
	want := []Block{BlockQuote{Blocks: []Block{para(plain("quoted "), Bold{Text: "text"}, plain(" more"))}}}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}

func TestParseBlockQuoteKeepsTabWidth(t *testing.T) {
	doc := Parser{TabWidth: 4}.Parse("> a\n>\tb\n>\t\tc")
	want := []Block{BlockQuote{Blocks: []Block{
		para(plain("a")),
		Verbatim{Lines: []string{"b", "    c"}},
	}}}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}

func TestParseDedentsCommonMargin(t *testing.T) {
	doc := Parse("    indented paragraph\n    still")
	want := []Block{para(plain("indented paragraph still"))}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}

func TestParseNormalizesToNFC(t *testing.T) {
	doc := Parse("cafe\u0301")
	want := []Block{para(plain("caf\u00e9"))}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}
