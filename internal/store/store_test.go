package store

import (
	"errors"
	"os"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"docket/internal/markup"
	"docket/internal/model"
	"docket/internal/registry"
	"docket/internal/source"
)

// mustID is called as mustID(t)(reg.AddContainer(...)).
func mustID(t *testing.T) func(model.ContainerID, error) model.ContainerID {
	t.Helper()
	return func(id model.ContainerID, err error) model.ContainerID {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return id
	}
}

func sampleRegistry(t *testing.T) (*registry.Registry, *source.FileSet) {
	t.Helper()
	files := source.NewFileSet()
	fid := files.AddVirtual("units/core.jsonl", nil)

	reg := registry.New(registry.Options{})
	tree := reg.Tree()
	outer := mustID(t)(reg.AddContainer(model.NoContainerID, model.KindModule, "Outer"))
	klass := mustID(t)(reg.AddContainer(outer, model.KindClass, "Klass"))
	hidden := mustID(t)(reg.AddContainer(outer, model.KindClass, "Hidden"))

	c := tree.Get(klass)
	c.Superclass = "Base"
	c.Span = source.Span{File: fid, Line: 7}
	tree.AddFile(klass, fid)
	tree.AppendComment(klass, markup.Parse("first *part*"))
	tree.AppendComment(klass, markup.Parse("second part"))
	tree.AddMethod(klass, model.Method{Name: "run", Params: "(x)", Visibility: model.Protected, DocumentSelf: true})
	tree.AddMethod(klass, model.Method{Name: "go", DocumentSelf: true, AliasFor: model.MethodRef{Owner: klass, Name: "run"}})
	tree.AddAttribute(klass, model.Attribute{Name: "size", Kind: model.AttrReadWrite, DocumentSelf: true})
	tree.AddMixin(klass, model.Mixin{Name: "Enumerable", Kind: model.MixinExtend})
	tree.Get(hidden).DocumentSelf = false

	if err := reg.RegisterAlias(outer, klass, "Short"); err != nil {
		t.Fatalf("RegisterAlias: %v", err)
	}
	if _, err := reg.ResolveAliases(); err != nil {
		t.Fatalf("ResolveAliases: %v", err)
	}
	reg.RemoveNodoc()
	reg.Freeze()
	return reg, files
}

func TestWriteReadRestoreRoundTrip(t *testing.T) {
	reg, files := sampleRegistry(t)
	idx := Snapshot(reg, files)
	if len(idx.Containers) != 4 {
		t.Fatalf("snapshot holds %d containers", len(idx.Containers))
	}

	dir := t.TempDir()
	if err := Write(dir, idx); err != nil {
		t.Fatalf("Write: %v", err)
	}
	loaded, ok, err := Read(dir)
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	back, backFiles, err := Restore(loaded)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !back.Frozen() {
		t.Fatalf("restored registry not frozen")
	}

	k := back.Get("Outer::Klass")
	if k == nil {
		t.Fatalf("Outer::Klass missing")
	}
	if k.Superclass != "Base" || len(k.Methods) != 2 || len(k.Attributes) != 1 || len(k.Mixins) != 1 {
		t.Fatalf("members lost: %+v", k)
	}
	if got := k.Comment.Text(); got != "first *part*\n---\nsecond part" {
		t.Fatalf("comment = %q", got)
	}
	if len(k.Comment.Parts()) != 2 {
		t.Fatalf("comment parts not preserved")
	}
	if ref := k.Methods[1].AliasFor; ref.Name != "run" || back.Tree().FullName(ref.Owner) != "Outer::Klass" {
		t.Fatalf("method alias = %+v", ref)
	}
	if k.Attributes[0].Kind != model.AttrReadWrite || k.Mixins[0].Kind != model.MixinExtend {
		t.Fatalf("kinds lost")
	}
	if got := backFiles.Position(k.Span); got != "units/core.jsonl:7" {
		t.Fatalf("span = %q", got)
	}

	short := back.Get("Outer::Short")
	if short == nil || back.Tree().FullName(short.AliasFor) != "Outer::Klass" {
		t.Fatalf("alias wrapper lost: %+v", short)
	}
	if len(k.Aliases) != 1 {
		t.Fatalf("Aliases = %v", k.Aliases)
	}

	outer, _ := back.Lookup("Outer")
	if _, listed := back.Tree().FindClass(outer, "Hidden"); listed {
		t.Fatalf("nodoc class listed after restore")
	}
	if _, ok := back.Lookup("Outer::Hidden"); !ok {
		t.Fatalf("nodoc class not resolvable after restore")
	}
	if err := back.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestReadMissingIndex(t *testing.T) {
	idx, ok, err := Read(t.TempDir())
	if idx != nil || ok || err != nil {
		t.Fatalf("Read on empty dir = %v, %v, %v", idx, ok, err)
	}
}

func TestReadRejectsOtherSchema(t *testing.T) {
	dir := t.TempDir()
	data, err := msgpack.Marshal(&Index{Schema: SchemaVersion + 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(Path(dir), data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := Read(dir); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestWriteReplacesIndex(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, &Index{Schema: SchemaVersion, Files: []string{"a"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(dir, &Index{Schema: SchemaVersion, Files: []string{"b"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	idx, _, err := Read(dir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(idx.Files) != 1 || idx.Files[0] != "b" {
		t.Fatalf("Files = %v", idx.Files)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}
