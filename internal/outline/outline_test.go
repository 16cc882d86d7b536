package outline

import (
	"strings"
	"testing"

	"docket/internal/markup"
	"docket/internal/model"
)

func sampleTree(t *testing.T) (*model.Tree, model.ContainerID) {
	t.Helper()
	tree := model.NewTree(0)
	outer, err := tree.AddModule(tree.Root(), "Outer")
	if err != nil {
		t.Fatalf("AddModule: %v", err)
	}
	klass, err := tree.AddClass(outer, "Klass", "Base")
	if err != nil {
		t.Fatalf("AddClass: %v", err)
	}
	tree.SetComment(klass, "Does things. More detail here.")
	tree.AddMethod(klass, model.Method{Name: "pub", Params: "(a)", DocumentSelf: true})
	tree.AddMethod(klass, model.Method{Name: "prot", Visibility: model.Protected, DocumentSelf: true})
	tree.AddMethod(klass, model.Method{Name: "priv", Visibility: model.Private, DocumentSelf: true})
	tree.AddMethod(klass, model.Method{Name: "forced", Visibility: model.Private, Forced: true})
	tree.AddMethod(klass, model.Method{Name: "create", Singleton: true, DocumentSelf: true})
	tree.AddAttribute(klass, model.Attribute{Name: "size", Kind: model.AttrReadWrite, DocumentSelf: true})
	tree.AddConstant(outer, model.Constant{Name: "LIMIT", Value: "10", DocumentSelf: true})
	return tree, outer
}

func render(t *testing.T, tree *model.Tree, start model.ContainerID, opts Options) string {
	t.Helper()
	var b strings.Builder
	if err := Render(&b, tree, start, opts); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return b.String()
}

func TestRenderFiltersByVisibilityFloor(t *testing.T) {
	tree, _ := sampleTree(t)

	public := render(t, tree, tree.Root(), Options{Floor: model.Public})
	for _, want := range []string{"module Outer", "  LIMIT = 10", "  class Outer::Klass < Base", "    #pub(a)", "    ::create", "    #forced [private]"} {
		if !strings.Contains(public, want) {
			t.Errorf("public outline lacks %q:\n%s", want, public)
		}
	}
	for _, hidden := range []string{"#prot", "#priv"} {
		if strings.Contains(public, hidden) {
			t.Errorf("public outline shows %q:\n%s", hidden, public)
		}
	}

	protected := render(t, tree, tree.Root(), Options{Floor: model.Protected})
	if !strings.Contains(protected, "#prot [protected]") || strings.Contains(protected, "#priv") {
		t.Errorf("protected floor wrong:\n%s", protected)
	}
	private := render(t, tree, tree.Root(), Options{Floor: model.Private})
	if !strings.Contains(private, "#priv [private]") {
		t.Errorf("private floor wrong:\n%s", private)
	}
}

func TestRenderSummariesAndDepth(t *testing.T) {
	tree, outer := sampleTree(t)
	out := render(t, tree, outer, Options{Floor: model.Public, Summaries: true})
	if !strings.HasPrefix(out, "module Outer\n") {
		t.Fatalf("outline must start at Outer:\n%s", out)
	}
	if !strings.Contains(out, "# Does things.") || strings.Contains(out, "More detail") {
		t.Fatalf("summary missing or too long:\n%s", out)
	}
	shallow := render(t, tree, tree.Root(), Options{Floor: model.Public, Depth: 1})
	if strings.Contains(shallow, "Klass") {
		t.Fatalf("depth 1 shows nested class:\n%s", shallow)
	}
}

func TestRenderSkipsRemovedNodoc(t *testing.T) {
	tree, outer := sampleTree(t)
	hidden, _ := tree.AddClass(outer, "Hidden", "")
	tree.Get(hidden).DocumentSelf = false
	tree.RemoveNodocChildren(outer)
	if out := render(t, tree, tree.Root(), Options{Floor: model.Private}); strings.Contains(out, "Hidden") {
		t.Fatalf("nodoc class rendered:\n%s", out)
	}
}

func TestRenderTruncatesWidth(t *testing.T) {
	tree, _ := sampleTree(t)
	out := render(t, tree, tree.Root(), Options{Floor: model.Public, Width: 12})
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if len([]rune(line)) > 12 {
			t.Fatalf("line %q exceeds width", line)
		}
	}
}

func TestTextWrapsAndSeparatesParts(t *testing.T) {
	doc := markup.Parse("one two three four five six")
	doc.Append(markup.Parse("* item *bold*\n\n    code"))
	got := Text(doc, 14)
	want := "one two three\nfour five six\n\n* item bold\n      code"
	if got != want {
		t.Fatalf("Text() =\n%q\nwant\n%q", got, want)
	}
}

func TestTextHeadingAndRule(t *testing.T) {
	got := Text(markup.Parse("= Title\n\n---"), 6)
	if got != "Title\n=====\n\n------" {
		t.Fatalf("Text() = %q", got)
	}
}

func TestDump(t *testing.T) {
	var b strings.Builder
	if err := Dump(&b, markup.Parse("see {docs}[http://x.y] and A::B")); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	want := `part 1
  paragraph
    text "see "
    link "http://x.y"
      text "docs"
    text " and "
    xref "A::B"
`
	if b.String() != want {
		t.Fatalf("Dump() =\n%s", b.String())
	}
}
