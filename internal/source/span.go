package source

import "fmt"

// Span points at a record inside a unit file. Line is 1-based; zero means
// the position is unknown.
type Span struct {
	File FileID
	Line uint32
}

func (s Span) IsKnown() bool {
	return s.Line != 0
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.File, s.Line)
}
