package model

// RemoveNodocChildren drops children whose DocumentSelf is false from id's
// Classes and Modules maps and returns the removed IDs. The containers stay
// in the arena, so registry lookups still find them. It does not recurse.
func (t *Tree) RemoveNodocChildren(id ContainerID) []ContainerID {
	c := t.Get(id)
	if c == nil {
		return nil
	}
	var removed []ContainerID
	for name, child := range c.Classes {
		if cc := t.Get(child); cc != nil && !cc.DocumentSelf {
			delete(c.Classes, name)
			removed = append(removed, child)
		}
	}
	for name, child := range c.Modules {
		if cc := t.Get(child); cc != nil && !cc.DocumentSelf {
			delete(c.Modules, name)
			removed = append(removed, child)
		}
	}
	return removed
}

// Visible reports whether an entity with visibility vis passes the
// configured floor. Private is the most inclusive floor; forced entities
// always pass.
func Visible(vis, floor Visibility, forced bool) bool {
	return forced || vis <= floor
}

// VisibleMethods returns the methods of c that pass the floor and are
// documented.
func (c *Container) VisibleMethods(floor Visibility) []Method {
	out := make([]Method, 0, len(c.Methods))
	for _, m := range c.Methods {
		if (m.DocumentSelf || m.Forced) && Visible(m.Visibility, floor, m.Forced) {
			out = append(out, m)
		}
	}
	return out
}

// VisibleAttributes returns the attributes of c that pass the floor.
func (c *Container) VisibleAttributes(floor Visibility) []Attribute {
	out := make([]Attribute, 0, len(c.Attributes))
	for _, a := range c.Attributes {
		if (a.DocumentSelf || a.Forced) && Visible(a.Visibility, floor, a.Forced) {
			out = append(out, a)
		}
	}
	return out
}

// VisibleConstants returns the constants of c that pass the floor.
func (c *Container) VisibleConstants(floor Visibility) []Constant {
	out := make([]Constant, 0, len(c.Constants))
	for _, k := range c.Constants {
		if (k.DocumentSelf || k.Forced) && Visible(k.Visibility, floor, k.Forced) {
			out = append(out, k)
		}
	}
	return out
}
