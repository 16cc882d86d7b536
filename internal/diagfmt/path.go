package diagfmt

import "docket/internal/source"

func formatPath(span source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil {
		return ""
	}
	f := fs.Get(span.File)
	if f == nil {
		return ""
	}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

func location(span source.Span, fs *source.FileSet, mode PathMode) string {
	path := formatPath(span, fs, mode)
	switch {
	case path == "":
		return "<docket>"
	case span.IsKnown():
		return path + ":" + itoa(span.Line)
	default:
		return path
	}
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
