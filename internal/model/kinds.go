package model

import (
	"fmt"
	"strings"
)

// ContainerKind tags the namespace container variant.
type ContainerKind uint8

const (
	KindInvalid ContainerKind = iota
	// KindTopLevel is the unnamed root of a tree.
	KindTopLevel
	KindModule
	KindClass
	KindSingletonClass
)

func (k ContainerKind) String() string {
	switch k {
	case KindTopLevel:
		return "top-level"
	case KindModule:
		return "module"
	case KindClass:
		return "class"
	case KindSingletonClass:
		return "singleton class"
	default:
		return "invalid"
	}
}

// IsClass reports whether k is stored in a parent's Classes map.
func (k ContainerKind) IsClass() bool {
	return k == KindClass || k == KindSingletonClass
}

// Visibility of a code object. Lower values are more visible.
type Visibility uint8

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return fmt.Sprintf("visibility(%d)", uint8(v))
	}
}

// MorePermissive reports whether v is visible to strictly more callers than other.
func (v Visibility) MorePermissive(other Visibility) bool {
	return v < other
}

// ParseVisibility accepts full names and unambiguous prefixes ("pub", "prot", "priv").
func ParseVisibility(s string) (Visibility, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Public, fmt.Errorf("empty visibility")
	}
	var matches []Visibility
	for _, v := range []Visibility{Public, Protected, Private} {
		if strings.HasPrefix(v.String(), s) {
			matches = append(matches, v)
		}
	}
	switch len(matches) {
	case 0:
		return Public, fmt.Errorf("unknown visibility %q (expected public|protected|private)", s)
	case 1:
		return matches[0], nil
	default:
		return Public, fmt.Errorf("ambiguous visibility %q", s)
	}
}

// AttrKind is the access kind of an attribute as a bit set.
type AttrKind uint8

const (
	AttrRead      AttrKind = 1 << iota // R
	AttrWrite                          // W
	AttrReadWrite = AttrRead | AttrWrite
)

func (k AttrKind) String() string {
	switch k {
	case AttrRead:
		return "R"
	case AttrWrite:
		return "W"
	case AttrReadWrite:
		return "RW"
	default:
		return "?"
	}
}

// ParseAttrKind accepts "R", "W" and "RW" in any case.
func ParseAttrKind(s string) (AttrKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "R":
		return AttrRead, nil
	case "W":
		return AttrWrite, nil
	case "RW", "WR":
		return AttrReadWrite, nil
	}
	return 0, fmt.Errorf("unknown attribute kind %q (expected R|W|RW)", s)
}

// MixinKind distinguishes include from extend.
type MixinKind uint8

const (
	MixinInclude MixinKind = iota
	MixinExtend
)

func (k MixinKind) String() string {
	if k == MixinExtend {
		return "extend"
	}
	return "include"
}
