package model

import (
	"errors"
	"fmt"
	"slices"

	"docket/internal/markup"
)

// ErrConflict is wrapped by every structural merge conflict.
var ErrConflict = errors.New("structural conflict")

// ConflictError reports two containers of different kinds sharing a full name.
type ConflictError struct {
	FullName string
	Existing ContainerKind
	Incoming ContainerKind
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s is a %s here and a %s elsewhere", e.FullName, e.Existing, e.Incoming)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Merge folds container srcID of src into dst of t and returns dst. src may
// be t itself, in which case children are reparented and srcID is detached
// and forwarded to dst; otherwise the source subtree is copied into t's
// arena and src is left untouched.
//
// Kinds are checked for the whole subtree before anything is modified, so a
// *ConflictError leaves t unchanged. A placeholder on either side takes the
// kind of the declared one.
func (t *Tree) Merge(dst ContainerID, src *Tree, srcID ContainerID) (ContainerID, error) {
	_, err := t.MergeTracked(dst, src, srcID)
	return dst, err
}

// MergeTracked is Merge that also returns the containers allocated in t
// for source containers that had no counterpart.
func (t *Tree) MergeTracked(dst ContainerID, src *Tree, srcID ContainerID) ([]ContainerID, error) {
	if src == nil {
		src = t
	}
	if t.Get(dst) == nil || src.Get(srcID) == nil {
		return nil, fmt.Errorf("merge: invalid container (dst %d, src %d)", dst, srcID)
	}
	same := src == t
	if same {
		if dst == srcID {
			return nil, nil
		}
		if t.isAncestor(srcID, dst) {
			return nil, fmt.Errorf("merge: %q cannot absorb its ancestor %q", t.FullName(dst), t.FullName(srcID))
		}
	}
	if err := t.checkMerge(dst, src, srcID); err != nil {
		return nil, err
	}

	m := &merger{dst: t, src: src, same: same, ids: make(map[ContainerID]ContainerID)}
	m.merge(dst, srcID)
	if same {
		t.unlink(srcID)
	} else {
		m.remap()
	}
	return m.created, nil
}

func (t *Tree) isAncestor(anc, id ContainerID) bool {
	for cur, steps := id, 0; cur.IsValid() && steps < len(t.data); steps++ {
		if cur == anc {
			return true
		}
		cur = t.Get(cur).Parent
	}
	return false
}

func (t *Tree) checkMerge(dst ContainerID, src *Tree, srcID ContainerID) error {
	d, s := t.Get(dst), src.Get(srcID)
	if d.Kind != s.Kind && !d.Placeholder && !s.Placeholder {
		return &ConflictError{FullName: t.FullName(dst), Existing: d.Kind, Incoming: s.Kind}
	}
	for _, sc := range src.Children(srcID) {
		child := src.Get(sc)
		if dc, ok := d.Child(child.Name); ok && !(src == t && dc == sc) {
			if err := t.checkMerge(dc, src, sc); err != nil {
				return err
			}
		}
	}
	return nil
}

// segment remembers which entries of a container came from the source
// tree so their container references can be rewritten after a cross-tree
// merge.
type segment struct {
	id         ContainerID
	constStart int
	methStart  int
	aliasStart int
	aliasFor   bool
}

type merger struct {
	dst, src *Tree
	same     bool
	ids      map[ContainerID]ContainerID // src -> dst
	created  []ContainerID
	segments []segment
}

func (m *merger) merge(dID, sID ContainerID) {
	d, s := m.dst.Get(dID), m.src.Get(sID)
	m.ids[sID] = dID

	seg := segment{
		id:         dID,
		constStart: len(d.Constants),
		methStart:  len(d.Methods),
		aliasStart: len(d.Aliases),
	}

	if d.Placeholder && !s.Placeholder {
		m.dst.declare(dID, s.Kind)
		d.Visibility = s.Visibility
	}
	d.Comment = markup.Merge(s.Comment, d.Comment)
	if d.Superclass == "" {
		d.Superclass = s.Superclass
	}
	d.DocumentSelf = d.DocumentSelf || s.DocumentSelf
	d.Forced = d.Forced || s.Forced
	if !d.Span.IsKnown() {
		d.Span = s.Span
	}
	for _, f := range s.InFiles {
		if !slices.Contains(d.InFiles, f) {
			d.InFiles = append(d.InFiles, f)
		}
	}
	if !d.AliasFor.IsValid() && s.AliasFor.IsValid() {
		d.AliasFor = s.AliasFor
		seg.aliasFor = true
	}

	mergeAttributes(d, s, dID)

	for _, k := range s.Constants {
		k.Parent = dID
		k.Comment = k.Comment.Clone()
		d.Constants = append(d.Constants, k)
	}
	for _, sm := range s.Methods {
		if slices.ContainsFunc(d.Methods, sm.identical) {
			continue
		}
		sm.Parent = dID
		sm.Comment = sm.Comment.Clone()
		d.Methods = append(d.Methods, sm)
	}
	for _, mx := range s.Mixins {
		mx.Parent = dID
		mx.Comment = mx.Comment.Clone()
		d.Mixins = append(d.Mixins, mx)
	}
	for _, a := range s.Aliases {
		// cross-tree ids are rewritten and deduplicated by remap
		if !m.same || !slices.Contains(d.Aliases, a) {
			d.Aliases = append(d.Aliases, a)
		}
	}
	m.segments = append(m.segments, seg)

	for _, sc := range m.src.Children(sID) {
		child := m.src.Get(sc)
		if dc, ok := d.Child(child.Name); ok {
			m.merge(dc, sc)
			continue
		}
		if m.same {
			m.dst.link(dID, sc)
			continue
		}
		m.importTree(sc, dID)
	}

	if m.same {
		s.Classes = make(map[string]ContainerID)
		s.Modules = make(map[string]ContainerID)
		s.ReplacedBy = dID
		for _, a := range s.Aliases {
			if wrapper := m.dst.Get(a); wrapper != nil && wrapper.AliasFor == sID {
				wrapper.AliasFor = dID
			}
		}
	}
}

// mergeAttributes folds every attribute of d and s sharing a name into a
// single entry: kinds are OR-ed, the more permissive visibility wins and
// ties keep the primary's. Entries of d come first so its comment and
// span are preferred.
func mergeAttributes(d, s *Container, dID ContainerID) {
	if len(s.Attributes) == 0 && !hasDuplicateAttrNames(d.Attributes) {
		return
	}
	folded := make([]Attribute, 0, len(d.Attributes)+len(s.Attributes))
	index := make(map[string]int, len(d.Attributes)+len(s.Attributes))
	fold := func(a Attribute, clone bool) {
		i, ok := index[a.Name]
		if !ok {
			a.Parent = dID
			if clone {
				a.Comment = a.Comment.Clone()
			}
			index[a.Name] = len(folded)
			folded = append(folded, a)
			return
		}
		fa := &folded[i]
		fa.Kind |= a.Kind
		if a.Visibility.MorePermissive(fa.Visibility) {
			fa.Visibility = a.Visibility
		}
		if fa.Comment.Empty() && !a.Comment.Empty() {
			fa.Comment = a.Comment.Clone()
		}
		if !fa.Span.IsKnown() {
			fa.Span = a.Span
		}
		fa.DocumentSelf = fa.DocumentSelf || a.DocumentSelf
		fa.Forced = fa.Forced || a.Forced
	}
	for _, a := range d.Attributes {
		fold(a, false)
	}
	for _, a := range s.Attributes {
		fold(a, true)
	}
	sortAttributes(folded)
	d.Attributes = folded
}

func hasDuplicateAttrNames(attrs []Attribute) bool {
	for i := 1; i < len(attrs); i++ {
		if attrs[i].Name == attrs[i-1].Name {
			return true
		}
	}
	return false
}

// importTree deep-copies src container sID and its subtree under parent.
func (m *merger) importTree(sID, parent ContainerID) ContainerID {
	s := m.src.Get(sID)
	nID := m.dst.alloc(s.Kind, s.Name, parent)
	m.dst.link(parent, nID)
	m.ids[sID] = nID
	m.created = append(m.created, nID)

	n := m.dst.Get(nID)
	n.Comment = s.Comment.Clone()
	n.Visibility = s.Visibility
	n.DocumentSelf = s.DocumentSelf
	n.Forced = s.Forced
	n.Placeholder = s.Placeholder
	n.Superclass = s.Superclass
	n.AliasFor = s.AliasFor
	n.Span = s.Span
	n.InFiles = slices.Clone(s.InFiles)
	n.Aliases = slices.Clone(s.Aliases)

	n.Methods = make([]Method, 0, len(s.Methods))
	for _, sm := range s.Methods {
		sm.Parent = nID
		sm.Comment = sm.Comment.Clone()
		n.Methods = append(n.Methods, sm)
	}
	n.Attributes = make([]Attribute, 0, len(s.Attributes))
	for _, sa := range s.Attributes {
		sa.Parent = nID
		sa.Comment = sa.Comment.Clone()
		n.Attributes = append(n.Attributes, sa)
	}
	n.Constants = make([]Constant, 0, len(s.Constants))
	for _, k := range s.Constants {
		k.Parent = nID
		k.Comment = k.Comment.Clone()
		n.Constants = append(n.Constants, k)
	}
	n.Mixins = make([]Mixin, 0, len(s.Mixins))
	for _, mx := range s.Mixins {
		mx.Parent = nID
		mx.Comment = mx.Comment.Clone()
		n.Mixins = append(n.Mixins, mx)
	}
	m.segments = append(m.segments, segment{id: nID, aliasFor: true})

	for _, sc := range m.src.Children(sID) {
		m.importTree(sc, nID)
	}
	return nID
}

// remap rewrites container references copied from the source tree.
// References to containers outside the merged subtree cannot be expressed
// in the destination and are cleared.
func (m *merger) remap() {
	lookup := func(id ContainerID) ContainerID {
		if !id.IsValid() {
			return NoContainerID
		}
		return m.ids[m.src.Resolve(id)]
	}
	for _, seg := range m.segments {
		c := m.dst.Get(seg.id)
		if seg.aliasFor {
			c.AliasFor = lookup(c.AliasFor)
		}
		for i := seg.constStart; i < len(c.Constants); i++ {
			c.Constants[i].AliasFor = lookup(c.Constants[i].AliasFor)
		}
		for i := seg.methStart; i < len(c.Methods); i++ {
			if ref := &c.Methods[i].AliasFor; ref.Owner.IsValid() {
				ref.Owner = lookup(ref.Owner)
			}
		}
		kept := c.Aliases[:seg.aliasStart]
		for _, a := range c.Aliases[seg.aliasStart:] {
			if id := lookup(a); id.IsValid() && !slices.Contains(kept, id) {
				kept = append(kept, id)
			}
		}
		c.Aliases = kept
	}
}
