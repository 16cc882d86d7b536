package model

import (
	"slices"
	"strings"
)

// FullName joins names along the parent chain with "::". The top-level
// container has an empty full name; detached containers use their own name.
func (t *Tree) FullName(id ContainerID) string {
	var parts []string
	for cur, steps := id, 0; cur.IsValid() && cur != t.root && steps < len(t.data); steps++ {
		c := t.Get(cur)
		if c == nil {
			break
		}
		parts = append(parts, c.Name)
		cur = c.Parent
	}
	slices.Reverse(parts)
	return strings.Join(parts, Separator)
}

func (t *Tree) join(parent ContainerID, name string) string {
	if prefix := t.FullName(parent); prefix != "" {
		return prefix + Separator + name
	}
	return name
}

// ChildFullName returns the full name a child called name of parent would have.
func (t *Tree) ChildFullName(parent ContainerID, name string) string {
	return t.join(parent, name)
}

// MethodFullName returns Owner#name for instance methods and Owner::name
// for singleton methods.
func (t *Tree) MethodFullName(m *Method) string {
	sep := "#"
	if m.Singleton {
		sep = Separator
	}
	return t.FullName(m.Parent) + sep + m.Name
}

// FindClass looks up a direct child class.
func (t *Tree) FindClass(id ContainerID, name string) (ContainerID, bool) {
	c := t.Get(id)
	if c == nil {
		return NoContainerID, false
	}
	child, ok := c.Classes[name]
	return child, ok
}

// FindModule looks up a direct child module.
func (t *Tree) FindModule(id ContainerID, name string) (ContainerID, bool) {
	c := t.Get(id)
	if c == nil {
		return NoContainerID, false
	}
	child, ok := c.Modules[name]
	return child, ok
}

// FindClassOrModule looks up a direct child of either kind.
func (t *Tree) FindClassOrModule(id ContainerID, name string) (ContainerID, bool) {
	c := t.Get(id)
	if c == nil {
		return NoContainerID, false
	}
	return c.Child(name)
}

// FindPath walks a "::"-separated path from the root. A leading "::" is
// accepted.
func (t *Tree) FindPath(path string) (ContainerID, bool) {
	path = strings.TrimPrefix(path, Separator)
	if path == "" {
		return t.root, true
	}
	cur := t.root
	for _, name := range strings.Split(path, Separator) {
		next, ok := t.FindClassOrModule(cur, name)
		if !ok {
			return NoContainerID, false
		}
		cur = next
	}
	return cur, true
}

// FindMethod returns the index of the method with the given name and
// singleton flag, or -1.
func (c *Container) FindMethod(name string, singleton bool) int {
	for i := range c.Methods {
		if c.Methods[i].Name == name && c.Methods[i].Singleton == singleton {
			return i
		}
	}
	return -1
}

// FindAttribute returns the index of the first attribute named name, or -1.
func (c *Container) FindAttribute(name string) int {
	for i := range c.Attributes {
		if c.Attributes[i].Name == name {
			return i
		}
	}
	return -1
}

// FindConstant returns the index of the first constant named name, or -1.
func (c *Container) FindConstant(name string) int {
	for i := range c.Constants {
		if c.Constants[i].Name == name {
			return i
		}
	}
	return -1
}

// Children returns the classes and modules of id sorted by name.
func (t *Tree) Children(id ContainerID) []ContainerID {
	c := t.Get(id)
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Classes)+len(c.Modules))
	for name := range c.Classes {
		names = append(names, name)
	}
	for name := range c.Modules {
		if _, dup := c.Classes[name]; !dup {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	out := make([]ContainerID, 0, len(names)+1)
	for _, name := range names {
		if cid, ok := c.Classes[name]; ok {
			out = append(out, cid)
		}
		if mid, ok := c.Modules[name]; ok {
			out = append(out, mid)
		}
	}
	return out
}

// Walk visits id and every container reachable through Classes/Modules in
// name order, depth first. Returning false from fn skips the subtree.
func (t *Tree) Walk(id ContainerID, fn func(ContainerID, *Container) bool) {
	seen := make(map[ContainerID]struct{})
	var visit func(ContainerID)
	visit = func(cur ContainerID) {
		if _, ok := seen[cur]; ok {
			return
		}
		seen[cur] = struct{}{}
		c := t.Get(cur)
		if c == nil || !fn(cur, c) {
			return
		}
		for _, child := range t.Children(cur) {
			visit(child)
		}
	}
	visit(id)
}
