package markup

import "strings"

// StripComment removes comment syntax from raw source comments: leading "#"
// or "//" markers (plus one following space) and regions between "#--" and
// "#++" lines, which are hidden from documentation. Text without comment
// markers is returned with only the hidden regions removed.
func StripComment(raw string) string {
	if raw == "" {
		return ""
	}
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	hidden := false
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		switch trimmed {
		case "#--", "//--":
			hidden = true
			continue
		case "#++", "//++":
			hidden = false
			continue
		}
		if hidden {
			continue
		}
		out = append(out, stripMarker(l))
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	for len(out) > 0 && strings.TrimSpace(out[0]) == "" {
		out = out[1:]
	}
	return strings.Join(out, "\n")
}

func stripMarker(l string) string {
	body := strings.TrimLeft(l, " \t")
	var rest string
	switch {
	case strings.HasPrefix(body, "//"):
		rest = body[2:]
	case strings.HasPrefix(body, "#") && !strings.HasPrefix(body, "#{"):
		rest = strings.TrimLeft(body, "#")
	default:
		return l
	}
	return strings.TrimPrefix(rest, " ")
}
