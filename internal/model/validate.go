package model

import (
	"errors"
	"fmt"
	"strings"
)

// Validate walks the arena checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Tree) Validate() error {
	var errs []error

	for idx := 1; idx < len(t.data); idx++ {
		id, err := toContainerID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c := t.data[idx]
		if c == nil {
			errs = append(errs, fmt.Errorf("container %d is nil", id))
			continue
		}
		if c.Kind == KindInvalid {
			errs = append(errs, fmt.Errorf("container %d has invalid kind", id))
		}
		if c.Kind == KindTopLevel && id != t.root {
			errs = append(errs, fmt.Errorf("container %d is a second top level", id))
		}
		if c.ReplacedBy.IsValid() {
			// consumed by a merge; only the forwarding link matters
			if t.Get(c.ReplacedBy) == nil {
				errs = append(errs, fmt.Errorf("container %d forwards to invalid %d", id, c.ReplacedBy))
			}
			continue
		}
		if c.Parent.IsValid() && (t.Get(c.Parent) == nil || c.Parent == id) {
			errs = append(errs, fmt.Errorf("container %d has invalid parent %d", id, c.Parent))
		}

		// name maps
		for name, child := range c.Classes {
			errs = append(errs, t.checkChild(id, name, child, true)...)
			if _, dup := c.Modules[name]; dup {
				errs = append(errs, fmt.Errorf("%s: %q is both a class and a module", t.label(id), name))
			}
		}
		for name, child := range c.Modules {
			errs = append(errs, t.checkChild(id, name, child, false)...)
		}

		// alias bookkeeping
		if c.AliasFor.IsValid() {
			target := t.Get(c.AliasFor)
			if target == nil {
				errs = append(errs, fmt.Errorf("%s: alias target %d is invalid", t.label(id), c.AliasFor))
			} else if target.Kind != c.Kind {
				errs = append(errs, fmt.Errorf("%s: alias is a %s but target is a %s", t.label(id), c.Kind, target.Kind))
			}
		}
		seen := make(map[ContainerID]struct{}, len(c.Aliases))
		for _, a := range c.Aliases {
			if _, dup := seen[a]; dup {
				errs = append(errs, fmt.Errorf("%s: alias %d listed twice", t.label(id), a))
			}
			seen[a] = struct{}{}
			if ac := t.Get(a); ac == nil || ac.AliasFor != id {
				errs = append(errs, fmt.Errorf("%s: alias %d missing back-reference", t.label(id), a))
			}
		}

		// members
		for i := range c.Methods {
			if c.Methods[i].Parent != id {
				errs = append(errs, fmt.Errorf("%s: method %s has parent %d", t.label(id), c.Methods[i].Name, c.Methods[i].Parent))
			}
		}
		for i := range c.Attributes {
			a := c.Attributes[i]
			if a.Parent != id {
				errs = append(errs, fmt.Errorf("%s: attribute %s has parent %d", t.label(id), a.Name, a.Parent))
			}
			if a.Kind&^AttrReadWrite != 0 || a.Kind == 0 {
				errs = append(errs, fmt.Errorf("%s: attribute %s has invalid kind %d", t.label(id), a.Name, a.Kind))
			}
			if i > 0 && attrLess(a, c.Attributes[i-1]) {
				errs = append(errs, fmt.Errorf("%s: attributes out of order at %s", t.label(id), a.Name))
			}
		}
		for i := range c.Constants {
			k := c.Constants[i]
			if k.Parent != id {
				errs = append(errs, fmt.Errorf("%s: constant %s has parent %d", t.label(id), k.Name, k.Parent))
			}
			if k.AliasFor.IsValid() && t.Get(k.AliasFor) == nil {
				errs = append(errs, fmt.Errorf("%s: constant %s aliases invalid %d", t.label(id), k.Name, k.AliasFor))
			}
		}
	}

	return errors.Join(errs...)
}

func (t *Tree) checkChild(parent ContainerID, name string, child ContainerID, classMap bool) []error {
	c := t.Get(child)
	if c == nil {
		return []error{fmt.Errorf("%s: child %q is invalid id %d", t.label(parent), name, child)}
	}
	var errs []error
	if c.Name != name {
		errs = append(errs, fmt.Errorf("%s: child key %q names %q", t.label(parent), name, c.Name))
	}
	if c.Parent != parent {
		errs = append(errs, fmt.Errorf("%s: child %q missing parent backlink (has %d)", t.label(parent), name, c.Parent))
	}
	if c.Kind.IsClass() != classMap {
		errs = append(errs, fmt.Errorf("%s: %s %q stored in the wrong map", t.label(parent), c.Kind, name))
	}
	if strings.Contains(name, Separator) {
		errs = append(errs, fmt.Errorf("%s: child key %q is not a simple name", t.label(parent), name))
	}
	return errs
}

func (t *Tree) label(id ContainerID) string {
	if id == t.root {
		return "<top-level>"
	}
	return t.FullName(id)
}
