package registry

import (
	"errors"
	"testing"

	"docket/internal/model"
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

// fragment builds a unit tree with modules along path, ending in a class
// when last is model.KindClass.
func fragment(t *testing.T, last model.ContainerKind, names ...string) *model.Tree {
	t.Helper()
	tree := model.NewTree(0)
	cur := tree.Root()
	for i, name := range names {
		kind := model.KindModule
		if i == len(names)-1 {
			kind = last
		}
		cur = mustID(t)(tree.AddContainer(cur, kind, name))
	}
	return tree
}

func TestAddFragmentRegistersNames(t *testing.T) {
	r := New(Options{})
	if err := r.AddFragment(fragment(t, model.KindClass, "Outer", "Inner")); err != nil {
		t.Fatalf("AddFragment: %v", err)
	}
	if err := r.AddFragment(fragment(t, model.KindModule, "Outer", "Other")); err != nil {
		t.Fatalf("AddFragment: %v", err)
	}
	want := []string{"Outer", "Outer::Inner", "Outer::Other"}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
	inner := r.Get("Outer::Inner")
	if inner == nil || inner.Kind != model.KindClass {
		t.Fatalf("Outer::Inner not registered as class: %#v", inner)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestAddFragmentConflictLeavesRegistryUntouched(t *testing.T) {
	r := New(Options{})
	if err := r.AddFragment(fragment(t, model.KindClass, "Outer", "Thing")); err != nil {
		t.Fatalf("AddFragment: %v", err)
	}
	before := r.Tree().Len()

	frag := fragment(t, model.KindModule, "Outer", "Thing")
	mustID(t)(frag.AddModule(frag.Root(), "Fresh"))
	err := r.AddFragment(frag)
	var conflict *model.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if conflict.FullName != "Outer::Thing" {
		t.Fatalf("conflict on %q", conflict.FullName)
	}
	if _, ok := r.Lookup("Fresh"); ok {
		t.Fatalf("sibling of conflicting container must not be registered")
	}
	if r.Tree().Len() != before {
		t.Fatalf("tree grew from %d to %d", before, r.Tree().Len())
	}
}

func TestFreezeRejectsWrites(t *testing.T) {
	r := New(Options{})
	id := mustID(t)(r.AddContainer(model.NoContainerID, model.KindModule, "M"))
	r.Freeze()
	if !r.Frozen() {
		t.Fatalf("Frozen() = false")
	}
	if err := r.AddFragment(fragment(t, model.KindModule, "N")); !errors.Is(err, ErrFrozen) {
		t.Fatalf("AddFragment after freeze: %v", err)
	}
	if _, err := r.AddContainer(id, model.KindClass, "C"); !errors.Is(err, ErrFrozen) {
		t.Fatalf("AddContainer after freeze: %v", err)
	}
	if err := r.RegisterAlias(id, id, "Alias"); !errors.Is(err, ErrFrozen) {
		t.Fatalf("RegisterAlias after freeze: %v", err)
	}
	if _, err := r.ResolveAliases(); !errors.Is(err, ErrFrozen) {
		t.Fatalf("ResolveAliases after freeze: %v", err)
	}
	if got, ok := r.Lookup("M"); !ok || got != id {
		t.Fatalf("lookup after freeze = %d, %v", got, ok)
	}
}

func TestResetClearsState(t *testing.T) {
	r := New(Options{})
	mustID(t)(r.AddContainer(model.NoContainerID, model.KindModule, "M"))
	r.Freeze()
	r.Reset()
	if r.Len() != 0 || r.Frozen() {
		t.Fatalf("Reset left len=%d frozen=%v", r.Len(), r.Frozen())
	}
	if _, ok := r.Lookup("M"); ok {
		t.Fatalf("M still registered after Reset")
	}
	mustID(t)(r.AddContainer(model.NoContainerID, model.KindModule, "M"))
}

func TestMergeForwardsOldName(t *testing.T) {
	r := New(Options{})
	a := mustID(t)(r.AddContainer(model.NoContainerID, model.KindModule, "A"))
	b := mustID(t)(r.AddContainer(model.NoContainerID, model.KindModule, "B"))
	child := mustID(t)(r.AddContainer(b, model.KindClass, "Child"))

	if err := r.Merge(a, b); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got, ok := r.Lookup("B"); !ok || got != a {
		t.Fatalf("B resolves to %d, want %d", got, a)
	}
	if got, ok := r.Lookup("A::Child"); !ok || got != child {
		t.Fatalf("A::Child = %d, %v", got, ok)
	}
	if _, ok := r.Lookup("B::Child"); ok {
		t.Fatalf("stale name B::Child still registered")
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestRemoveNodocKeepsLookup(t *testing.T) {
	r := New(Options{})
	outer := mustID(t)(r.AddContainer(model.NoContainerID, model.KindModule, "Outer"))
	hidden := mustID(t)(r.AddContainer(outer, model.KindClass, "Hidden"))
	r.Tree().Get(hidden).DocumentSelf = false

	if n := r.RemoveNodoc(); n != 1 {
		t.Fatalf("RemoveNodoc() = %d, want 1", n)
	}
	if _, ok := r.Tree().FindClass(outer, "Hidden"); ok {
		t.Fatalf("Hidden still listed under Outer")
	}
	if got, ok := r.Lookup("Outer::Hidden"); !ok || got != hidden {
		t.Fatalf("nodoc container must stay resolvable, got %d, %v", got, ok)
	}
}
