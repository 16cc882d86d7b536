package model

import (
	"docket/internal/markup"
	"docket/internal/source"
)

// Container is a namespace entity: module, class or singleton class.
type Container struct {
	Kind   ContainerKind
	Name   string
	Parent ContainerID

	Comment    *markup.Document
	Visibility Visibility
	// DocumentSelf is false for nodoc containers: they stay resolvable
	// through the registry but are dropped from listings.
	DocumentSelf bool
	// Forced marks an explicit per-entity documentation override.
	Forced bool
	// Placeholder marks a namespace created only because a nested entity
	// named it. Its kind is provisional until a declaration is seen.
	Placeholder bool

	// Superclass is the textual superclass reference (classes only).
	Superclass string

	Classes    map[string]ContainerID
	Modules    map[string]ContainerID
	Methods    []Method
	Attributes []Attribute // ordered by (Name, Kind)
	Constants  []Constant
	Mixins     []Mixin

	// Aliases lists alias wrappers whose AliasFor is this container.
	Aliases []ContainerID
	// AliasFor is set on alias wrappers.
	AliasFor ContainerID
	// ReplacedBy forwards a container that was merged into another one
	// within the same tree.
	ReplacedBy ContainerID

	Span    source.Span
	InFiles []source.FileID
}

// IsAlias reports whether c is an alias wrapper.
func (c *Container) IsAlias() bool {
	return c != nil && c.AliasFor.IsValid()
}

// Child returns the class or module named name.
func (c *Container) Child(name string) (ContainerID, bool) {
	if id, ok := c.Classes[name]; ok {
		return id, true
	}
	id, ok := c.Modules[name]
	return id, ok
}

// MethodRef is a non-owning reference to a method.
type MethodRef struct {
	Owner     ContainerID
	Name      string
	Singleton bool
}

// IsValid reports whether the reference names a method.
func (r MethodRef) IsValid() bool { return r.Name != "" }

// Method is an instance or singleton method.
type Method struct {
	Name         string
	Params       string
	CallSeq      string
	Singleton    bool
	Visibility   Visibility
	Comment      *markup.Document
	AliasFor     MethodRef
	Parent       ContainerID
	DocumentSelf bool
	Forced       bool
	Span         source.Span
}

// Attribute is an accessor declared on a container.
type Attribute struct {
	Name         string
	Kind         AttrKind
	Visibility   Visibility
	Comment      *markup.Document
	Parent       ContainerID
	DocumentSelf bool
	Forced       bool
	Span         source.Span
}

// Constant is a named value. AliasFor is set when the value names a
// container, which is how container aliases are expressed. AliasTarget
// keeps the textual target until the registry can resolve it.
type Constant struct {
	Name         string
	Value        string
	Visibility   Visibility
	Comment      *markup.Document
	AliasFor     ContainerID
	AliasTarget  string
	Parent       ContainerID
	DocumentSelf bool
	Forced       bool
	Span         source.Span
}

// Mixin is an include or extend of another module, referenced by name.
type Mixin struct {
	Name    string
	Kind    MixinKind
	Comment *markup.Document
	Parent  ContainerID
	Span    source.Span
}

func (m Method) identical(other Method) bool {
	return m.Name == other.Name && m.Singleton == other.Singleton && m.Params == other.Params
}
