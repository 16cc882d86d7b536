package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode maps the --path-mode flag value; unknown values fall back to auto.
func ParsePathMode(s string) PathMode {
	switch s {
	case "absolute":
		return PathModeAbsolute
	case "relative":
		return PathModeRelative
	case "basename":
		return PathModeBasename
	}
	return PathModeAuto
}

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	}
	return "auto"
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	Width     int // максимальная ширина строки контекста, 0 - не ограничено
	ShowNotes bool
	Context   bool // печатать исходную строку записи
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
}
