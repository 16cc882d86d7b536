package model

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"docket/internal/markup"
	"docket/internal/source"
)

// Separator joins namespace names in full names.
const Separator = "::"

// Tree stores containers in a slice arena. Index 0 is reserved for
// NoContainerID and index 1 holds the unnamed top-level container.
type Tree struct {
	data []*Container
	root ContainerID
}

// NewTree creates an arena with an optional capacity hint.
func NewTree(capacity uint32) *Tree {
	if capacity == 0 {
		capacity = 32
	}
	t := &Tree{data: make([]*Container, 1, capacity+1)}
	t.root = t.alloc(KindTopLevel, "", NoContainerID)
	return t
}

// Root returns the top-level container.
func (t *Tree) Root() ContainerID { return t.root }

// Get returns the container or nil if the ID is invalid.
func (t *Tree) Get(id ContainerID) *Container {
	if !id.IsValid() || int(id) >= len(t.data) {
		return nil
	}
	return t.data[id]
}

// Len reports the number of containers excluding the sentinel.
func (t *Tree) Len() int { return len(t.data) - 1 }

func (t *Tree) alloc(kind ContainerKind, name string, parent ContainerID) ContainerID {
	id, err := toContainerID(len(t.data))
	if err != nil {
		panic(fmt.Errorf("container arena overflow: %w", err))
	}
	t.data = append(t.data, &Container{
		Kind:         kind,
		Name:         name,
		Parent:       parent,
		DocumentSelf: true,
		Classes:      make(map[string]ContainerID),
		Modules:      make(map[string]ContainerID),
	})
	return id
}

// link inserts child into the matching map of parent.
func (t *Tree) link(parent, child ContainerID) {
	p, c := t.Get(parent), t.Get(child)
	if p == nil || c == nil {
		return
	}
	c.Parent = parent
	if c.Kind.IsClass() {
		p.Classes[c.Name] = child
	} else {
		p.Modules[c.Name] = child
	}
}

// unlink removes child from its parent's maps when the parent still points at it.
func (t *Tree) unlink(child ContainerID) {
	c := t.Get(child)
	if c == nil {
		return
	}
	p := t.Get(c.Parent)
	if p == nil {
		return
	}
	if p.Classes[c.Name] == child {
		delete(p.Classes, c.Name)
	}
	if p.Modules[c.Name] == child {
		delete(p.Modules, c.Name)
	}
}

// NewContainer allocates a container. With a valid parent it behaves like
// AddContainer; without one the container is detached and its full name is
// its own name.
func (t *Tree) NewContainer(kind ContainerKind, name string, parent ContainerID) (ContainerID, error) {
	if parent.IsValid() {
		return t.AddContainer(parent, kind, name)
	}
	if kind == KindInvalid || kind == KindTopLevel {
		return NoContainerID, fmt.Errorf("cannot create %s container %q", kind, name)
	}
	return t.alloc(kind, name, NoContainerID), nil
}

// AddContainer inserts a child container named name into parent. Adding a
// name that already exists with the same kind reopens the existing entry;
// a different kind is a *ConflictError.
func (t *Tree) AddContainer(parent ContainerID, kind ContainerKind, name string) (ContainerID, error) {
	p := t.Get(parent)
	if p == nil {
		return NoContainerID, fmt.Errorf("add %s %q: invalid parent %d", kind, name, parent)
	}
	if kind == KindInvalid || kind == KindTopLevel {
		return NoContainerID, fmt.Errorf("add %s %q: not a namespace kind", kind, name)
	}
	if name == "" || strings.Contains(name, Separator) {
		return NoContainerID, fmt.Errorf("add %s: invalid simple name %q", kind, name)
	}
	if existing, ok := p.Child(name); ok {
		e := t.Get(existing)
		if e.Kind != kind && !e.Placeholder {
			return existing, &ConflictError{FullName: t.join(parent, name), Existing: e.Kind, Incoming: kind}
		}
		t.declare(existing, kind)
		return existing, nil
	}
	id := t.alloc(kind, name, parent)
	t.link(parent, id)
	return id, nil
}

// AddPlaceholder returns the child named name, creating a placeholder
// module when there is none. A later declaration of any kind adopts it.
func (t *Tree) AddPlaceholder(parent ContainerID, name string) (ContainerID, error) {
	if p := t.Get(parent); p != nil {
		if existing, ok := p.Child(name); ok {
			return existing, nil
		}
	}
	id, err := t.AddContainer(parent, KindModule, name)
	if err != nil {
		return id, err
	}
	t.Get(id).Placeholder = true
	return id, nil
}

// declare fixes the kind of id, moving it between its parent's class and
// module maps when the kind changes.
func (t *Tree) declare(id ContainerID, kind ContainerKind) {
	c := t.Get(id)
	if c.Kind != kind {
		t.unlink(id)
		c.Kind = kind
		t.link(c.Parent, id)
	}
	c.Placeholder = false
}

// AddClass adds or reopens a class; the superclass is recorded when the
// class does not have one yet.
func (t *Tree) AddClass(parent ContainerID, name, superclass string) (ContainerID, error) {
	id, err := t.AddContainer(parent, KindClass, name)
	if err != nil {
		return id, err
	}
	if c := t.Get(id); c.Superclass == "" {
		c.Superclass = superclass
	}
	return id, nil
}

// AddModule adds or reopens a module.
func (t *Tree) AddModule(parent ContainerID, name string) (ContainerID, error) {
	return t.AddContainer(parent, KindModule, name)
}

// AddMethod appends m to id's methods. The returned pointer is valid until
// the next method is added to the same container.
func (t *Tree) AddMethod(id ContainerID, m Method) *Method {
	c := t.Get(id)
	if c == nil {
		return nil
	}
	m.Parent = id
	c.Methods = append(c.Methods, m)
	return &c.Methods[len(c.Methods)-1]
}

// AddAttribute inserts a keeping (Name, Kind) order. An attribute with the
// same name and kind is returned instead of duplicated.
func (t *Tree) AddAttribute(id ContainerID, a Attribute) *Attribute {
	c := t.Get(id)
	if c == nil {
		return nil
	}
	a.Parent = id
	i := sort.Search(len(c.Attributes), func(i int) bool {
		return !attrLess(c.Attributes[i], a)
	})
	if i < len(c.Attributes) && c.Attributes[i].Name == a.Name && c.Attributes[i].Kind == a.Kind {
		return &c.Attributes[i]
	}
	c.Attributes = slices.Insert(c.Attributes, i, a)
	return &c.Attributes[i]
}

// AddConstant appends k to id's constants.
func (t *Tree) AddConstant(id ContainerID, k Constant) *Constant {
	c := t.Get(id)
	if c == nil {
		return nil
	}
	k.Parent = id
	c.Constants = append(c.Constants, k)
	return &c.Constants[len(c.Constants)-1]
}

// AddMixin appends m to id's mixins.
func (t *Tree) AddMixin(id ContainerID, m Mixin) *Mixin {
	c := t.Get(id)
	if c == nil {
		return nil
	}
	m.Parent = id
	c.Mixins = append(c.Mixins, m)
	return &c.Mixins[len(c.Mixins)-1]
}

// AppendComment accumulates doc after the container's existing comment.
func (t *Tree) AppendComment(id ContainerID, doc *markup.Document) {
	c := t.Get(id)
	if c == nil || doc.Empty() {
		return
	}
	if c.Comment == nil {
		c.Comment = &markup.Document{}
	}
	c.Comment.Append(doc)
}

// SetComment parses raw comment text and accumulates it like AppendComment.
func (t *Tree) SetComment(id ContainerID, raw string) {
	t.AppendComment(id, markup.Parse(raw))
}

// AddFile records that unit file contributed to id.
func (t *Tree) AddFile(id ContainerID, file source.FileID) {
	c := t.Get(id)
	if c == nil || slices.Contains(c.InFiles, file) {
		return
	}
	c.InFiles = append(c.InFiles, file)
}

// Resolve follows ReplacedBy forwarding left by same-tree merges.
func (t *Tree) Resolve(id ContainerID) ContainerID {
	for n := len(t.data); n > 0; n-- {
		c := t.Get(id)
		if c == nil || !c.ReplacedBy.IsValid() {
			return id
		}
		id = c.ReplacedBy
	}
	return NoContainerID
}

func attrLess(a, b Attribute) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Kind < b.Kind
}

func sortAttributes(attrs []Attribute) {
	sort.SliceStable(attrs, func(i, j int) bool { return attrLess(attrs[i], attrs[j]) })
}
