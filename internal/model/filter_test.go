package model

import "testing"

func TestRemoveNodocChildren(t *testing.T) {
	tree := NewTree(0)
	a := mustAdd(t)(tree.AddModule(tree.Root(), "A"))
	b := mustAdd(t)(tree.AddModule(a, "B"))
	c := mustAdd(t)(tree.AddModule(a, "C"))
	d := mustAdd(t)(tree.AddClass(a, "D", ""))
	e := mustAdd(t)(tree.AddClass(a, "E", ""))
	nested := mustAdd(t)(tree.AddClass(c, "Nested", ""))
	tree.Get(c).DocumentSelf = false
	tree.Get(e).DocumentSelf = false
	tree.Get(nested).DocumentSelf = false

	removed := tree.RemoveNodocChildren(a)
	if len(removed) != 2 {
		t.Fatalf("removed = %v", removed)
	}

	parent := tree.Get(a)
	if _, ok := parent.Modules["B"]; !ok {
		t.Fatalf("documented module B was removed")
	}
	if _, ok := parent.Modules["C"]; ok {
		t.Fatalf("nodoc module C still listed")
	}
	if _, ok := parent.Classes["D"]; !ok {
		t.Fatalf("documented class D was removed")
	}
	if _, ok := parent.Classes["E"]; ok {
		t.Fatalf("nodoc class E still listed")
	}

	// not recursive
	if _, ok := tree.Get(c).Classes["Nested"]; !ok {
		t.Fatalf("RemoveNodocChildren must not recurse")
	}
	if tree.FullName(c) != "A::C" || tree.Get(b) == nil || tree.Get(d) == nil {
		t.Fatalf("removed children must stay in the arena")
	}
	if err := tree.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestVisible(t *testing.T) {
	tests := []struct {
		vis, floor Visibility
		forced     bool
		want       bool
	}{
		{Public, Public, false, true},
		{Protected, Public, false, false},
		{Protected, Protected, false, true},
		{Private, Protected, false, false},
		{Private, Private, false, true},
		{Private, Public, true, true},
	}
	for _, tt := range tests {
		if got := Visible(tt.vis, tt.floor, tt.forced); got != tt.want {
			t.Errorf("Visible(%s, %s, %v) = %v", tt.vis, tt.floor, tt.forced, got)
		}
	}
}

func TestVisibleMembers(t *testing.T) {
	tree := NewTree(0)
	k := mustAdd(t)(tree.AddClass(tree.Root(), "Klass", ""))
	tree.AddMethod(k, Method{Name: "pub", DocumentSelf: true})
	tree.AddMethod(k, Method{Name: "priv", Visibility: Private, DocumentSelf: true})
	tree.AddMethod(k, Method{Name: "forced", Visibility: Private, Forced: true})
	tree.AddMethod(k, Method{Name: "hidden", DocumentSelf: false})

	got := tree.Get(k).VisibleMethods(Protected)
	if len(got) != 2 || got[0].Name != "pub" || got[1].Name != "forced" {
		t.Fatalf("VisibleMethods = %+v", got)
	}
}
