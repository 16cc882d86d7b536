package model

import (
	"strings"
	"testing"
)

func TestValidateReportsBrokenInvariants(t *testing.T) {
	tree := NewTree(0)
	a := mustAdd(t)(tree.AddModule(tree.Root(), "A"))
	k := mustAdd(t)(tree.AddClass(tree.Root(), "K", ""))
	tree.AddAttribute(k, Attribute{Name: "b", Kind: AttrRead})
	tree.AddAttribute(k, Attribute{Name: "a", Kind: AttrRead})

	if err := tree.Validate(); err != nil {
		t.Fatalf("fresh tree invalid: %v", err)
	}

	tree.Get(k).Attributes[0], tree.Get(k).Attributes[1] = tree.Get(k).Attributes[1], tree.Get(k).Attributes[0]
	tree.Get(a).Aliases = append(tree.Get(a).Aliases, k)
	tree.Get(tree.Root()).Modules["Wrong"] = a

	err := tree.Validate()
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{"out of order", "missing back-reference", `child key "Wrong" names "A"`} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in:\n%s", want, msg)
		}
	}
}
