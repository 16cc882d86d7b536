package unit

import (
	"context"
	"errors"
	"testing"

	"docket/internal/diag"
	"docket/internal/markup"
	"docket/internal/model"
	"docket/internal/source"
)

func build(t *testing.T, content string) (*model.Tree, Stats, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("unit.jsonl", []byte(content))
	bag := diag.NewBag(100)
	tree, stats, err := Build(context.Background(), fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree, stats, bag
}

func TestBuildNamespacesAndMembers(t *testing.T) {
	src := `{"kind":"module","name":"Outer","comment":"# Outer docs"}
{"kind":"class","name":"Klass","parent":"Outer","superclass":"Base","line":3}
{"kind":"method","name":"run","parent":"Outer::Klass","params":"(a, b)","visibility":"protected"}
{"kind":"method","name":"go","parent":"Outer::Klass","alias_of":"run"}
{"kind":"attribute","name":"size","parent":"Outer::Klass","rw":"RW"}
{"kind":"constant","name":"Short","parent":"Outer","value":"Klass","alias_for":"Klass"}
{"kind":"include","name":"Enumerable","parent":"Outer::Klass"}
{"kind":"extend","name":"Helpers","parent":"Outer::Klass"}
`
	tree, stats, bag := build(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if stats.Records != 8 || stats.Containers != 2 || stats.Members != 6 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	outer, ok := tree.FindPath("Outer")
	if !ok {
		t.Fatalf("Outer missing")
	}
	if got := tree.Get(outer).Comment.Text(); got != "Outer docs" {
		t.Fatalf("Outer comment = %q", got)
	}
	klass, ok := tree.FindPath("Outer::Klass")
	if !ok {
		t.Fatalf("Outer::Klass missing")
	}
	c := tree.Get(klass)
	if c.Kind != model.KindClass || c.Superclass != "Base" || c.Span.Line != 3 {
		t.Fatalf("unexpected class %+v", c)
	}
	if len(c.Methods) != 2 || c.Methods[0].Visibility != model.Protected || c.Methods[0].Params != "(a, b)" {
		t.Fatalf("unexpected methods %+v", c.Methods)
	}
	if ref := c.Methods[1].AliasFor; ref.Owner != klass || ref.Name != "run" {
		t.Fatalf("alias ref = %+v", ref)
	}
	if len(c.Attributes) != 1 || c.Attributes[0].Kind != model.AttrReadWrite {
		t.Fatalf("unexpected attributes %+v", c.Attributes)
	}
	if len(c.Mixins) != 2 || c.Mixins[0].Kind != model.MixinInclude || c.Mixins[1].Kind != model.MixinExtend {
		t.Fatalf("unexpected mixins %+v", c.Mixins)
	}
	k := tree.Get(outer).Constants
	if len(k) != 1 || k[0].AliasTarget != "Klass" || k[0].Value != "Klass" {
		t.Fatalf("unexpected constants %+v", k)
	}
	if err := tree.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestBuildCreatesMissingParentsAsModules(t *testing.T) {
	tree, _, _ := build(t, `{"kind":"class","name":"C","parent":"A::B"}`)
	for _, path := range []string{"A", "A::B"} {
		id, ok := tree.FindPath(path)
		if !ok || tree.Get(id).Kind != model.KindModule || !tree.Get(id).Placeholder {
			t.Fatalf("%s: expected implicit module", path)
		}
	}
	if _, ok := tree.FindPath("A::B::C"); !ok {
		t.Fatalf("A::B::C missing")
	}
}

func TestBuildLaterDeclarationAdoptsImplicitParent(t *testing.T) {
	tree, stats, _ := build(t, `{"kind":"method","name":"run","parent":"Outer"}
{"kind":"class","name":"Outer","superclass":"Base","visibility":"private","line":7}
`)
	id, ok := tree.FindPath("Outer")
	if !ok {
		t.Fatalf("Outer missing")
	}
	c := tree.Get(id)
	if c.Kind != model.KindClass || c.Placeholder || c.Superclass != "Base" {
		t.Fatalf("unexpected container %+v", c)
	}
	if c.Visibility != model.Private || c.Span.Line != 7 || len(c.Methods) != 1 {
		t.Fatalf("declaration details lost: %+v", c)
	}
	if stats.Containers != 1 {
		t.Fatalf("containers = %d", stats.Containers)
	}
}

func TestBuildQualifiedName(t *testing.T) {
	tree, _, _ := build(t, `{"kind":"class","name":"Inner::Leaf","parent":"Outer"}`)
	if _, ok := tree.FindPath("Outer::Inner::Leaf"); !ok {
		t.Fatalf("qualified name not split into parent path")
	}
}

func TestBuildReportsAndSkipsBadRecords(t *testing.T) {
	src := `{"kind":"module","name":"M"}
{broken
{"kind":"widget","name":"W"}
{"kind":"class"}
{"kind":"attribute","name":"a","parent":"M","rw":"X"}
{"kind":"method","name":"m","parent":"M","visibility":"secret"}
{"kind":"method","name":"loose"}
`
	tree, stats, bag := build(t, src)
	codes := make(map[diag.Code]int)
	for _, d := range bag.Items() {
		codes[d.Code]++
	}
	for _, code := range []diag.Code{
		diag.UnitMalformedRecord, diag.UnitUnknownKind, diag.UnitMissingName,
		diag.UnitBadAttrKind, diag.UnitBadVisibility, diag.UnitOrphanMember,
	} {
		if codes[code] != 1 {
			t.Errorf("%s reported %d times, want 1", code, codes[code])
		}
	}
	if stats.Skipped != 3 {
		t.Fatalf("Skipped = %d, want 3", stats.Skipped)
	}
	if bag.Items()[0].Primary.Line != 2 {
		t.Fatalf("malformed record reported at line %d", bag.Items()[0].Primary.Line)
	}

	m, _ := tree.FindPath("M")
	c := tree.Get(m)
	if len(c.Attributes) != 1 || c.Attributes[0].Kind != model.AttrRead {
		t.Fatalf("bad rw must default to R: %+v", c.Attributes)
	}
	if len(c.Methods) != 1 || c.Methods[0].Visibility != model.Public {
		t.Fatalf("bad visibility must default to public: %+v", c.Methods)
	}
	obj, ok := tree.FindClass(tree.Root(), TopLevelOwner)
	if !ok || len(tree.Get(obj).Methods) != 1 {
		t.Fatalf("orphan method not attached to %s", TopLevelOwner)
	}
}

func TestBuildNodocAndForced(t *testing.T) {
	src := `{"kind":"class","name":"Hidden","nodoc":true}
{"kind":"method","name":"shown","parent":"Hidden","visibility":"private","doc":true}
`
	tree, _, _ := build(t, src)
	id, _ := tree.FindPath("Hidden")
	c := tree.Get(id)
	if c.DocumentSelf {
		t.Fatalf("nodoc class documented")
	}
	m := c.Methods[0]
	if !m.Forced || !model.Visible(m.Visibility, model.Public, m.Forced) {
		t.Fatalf("forced method filtered: %+v", m)
	}
}

func TestBuildReopenAccumulatesComments(t *testing.T) {
	src := `{"kind":"class","name":"K","comment":"first"}
{"kind":"class","name":"K","comment":"second"}
`
	tree, stats, _ := build(t, src)
	if stats.Containers != 1 {
		t.Fatalf("reopen created %d containers", stats.Containers)
	}
	id, _ := tree.FindPath("K")
	if got := tree.Get(id).Comment.Text(); got != "first\n---\nsecond" {
		t.Fatalf("comment = %q", got)
	}
}

func TestBuildConflictIsFatal(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("u.jsonl", []byte("{\"kind\":\"class\",\"name\":\"X\"}\n{\"kind\":\"module\",\"name\":\"X\"}\n"))
	_, _, err := Build(context.Background(), fs.Get(id), Options{})
	if !errors.Is(err, model.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestBuildHonorsCancellation(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("u.jsonl", []byte(`{"kind":"module","name":"M"}`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Build(ctx, fs.Get(id), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBuildCommentStripsMarkers(t *testing.T) {
	tree, _, _ := build(t, `{"kind":"module","name":"M","comment":"# shown\n#--\n# hidden\n#++"}`)
	id, _ := tree.FindPath("M")
	want := markup.Parse("shown")
	if got := tree.Get(id).Comment.Text(); got != want.Text() {
		t.Fatalf("comment = %q", got)
	}
}
