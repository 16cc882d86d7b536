package markup

import (
	"reflect"
	"testing"
)

func TestAppendAccumulatesInOrder(t *testing.T) {
	doc := &Document{}
	doc.Append(Parse(StripComment("# comment 1")))
	if got := doc.Text(); got != "comment 1" {
		t.Fatalf("after first comment: %q", got)
	}

	doc.Append(Parse(StripComment("# comment 2")))
	if got := doc.Text(); got != "comment 1\n---\ncomment 2" {
		t.Fatalf("after second comment: %q", got)
	}

	doc.Append(Parse(StripComment("# * comment 3")))
	if got := doc.Text(); got != "comment 1\n---\ncomment 2\n---\n* comment 3" {
		t.Fatalf("after third comment: %q", got)
	}

	want := []Block{
		para(plain("comment 1")),
		para(plain("comment 2")),
		List{Kind: ListBullet, Items: []ListItem{{Blocks: []Block{para(plain("comment 3"))}}}},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", doc.Blocks)
	}
}

func TestMergePutsFirstArgumentFirst(t *testing.T) {
	primary := Parse("klass 1")
	incoming := NewDocument(para(plain("klass 2")))

	merged := Merge(incoming, primary)
	want := []Block{para(plain("klass 2")), para(plain("klass 1"))}
	if !reflect.DeepEqual(merged.Blocks, want) {
		t.Fatalf("unexpected blocks: %#v", merged.Blocks)
	}
	if primary.Len() != 1 || incoming.Len() != 1 {
		t.Fatalf("merge must not mutate its inputs")
	}
}

func TestMergeWithEmptySide(t *testing.T) {
	doc := Parse("only")
	if got := Merge(nil, doc); !reflect.DeepEqual(got.Blocks, doc.Blocks) {
		t.Fatalf("nil first: %#v", got.Blocks)
	}
	if got := Merge(doc, &Document{}); !reflect.DeepEqual(got.Blocks, doc.Blocks) {
		t.Fatalf("empty second: %#v", got.Blocks)
	}
	if got := Merge(nil, nil); !got.Empty() {
		t.Fatalf("expected empty document")
	}
}

func TestPartsTrackMergedComments(t *testing.T) {
	a := Parse("a1\n\na2")
	b := Parse("b1")
	merged := Merge(a, b)
	parts := merged.Parts()
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 1 {
		t.Fatalf("unexpected parts: %#v", parts)
	}
	if got := merged.Text(); got != "a1\n\na2\n---\nb1" {
		t.Fatalf("Text() = %q", got)
	}
}

func TestSummary(t *testing.T) {
	doc := Parse("= Title\n\nFirst sentence. Second sentence.")
	if got := doc.Summary(); got != "First sentence." {
		t.Fatalf("Summary() = %q", got)
	}
}

func TestStripComment(t *testing.T) {
	raw := "# Public text\n#--\n# internal notes\n#++\n# more\n"
	if got := StripComment(raw); got != "Public text\nmore" {
		t.Fatalf("StripComment() = %q", got)
	}
	if got := StripComment("// go style\n//   indented"); got != "go style\n  indented" {
		t.Fatalf("StripComment() = %q", got)
	}
	if got := StripComment("no markers"); got != "no markers" {
		t.Fatalf("StripComment() = %q", got)
	}
}
