package markup

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// Namespace paths (A::B), method references (A::B#m, A.m, #m, ::m).
	crossRefRe = regexp.MustCompile(`^(?:(?:::)?[A-Z]\w*(?:::[A-Z]\w*)*(?:(?:#|::|\.)[a-z_]\w*[!?=]?)?|#[a-z_]\w*[!?=]?|::[a-z_]\w*[!?=]?)`)
	urlRe      = regexp.MustCompile(`^(?:https?://|ftp://|mailto:|www\.)\S+`)
	wordLinkRe = regexp.MustCompile(`^([\w.-]+)\[((?:https?://|ftp://|mailto:|link:|www\.)[^\]\s]+)\]`)
	braceRe    = regexp.MustCompile(`^\{([^}]+)\}\[([^\]\s]+)\]`)
)

var tagSpans = map[string]func(string) Span{
	"b":    func(s string) Span { return Bold{Text: s} },
	"em":   func(s string) Span { return Italic{Text: s} },
	"i":    func(s string) Span { return Italic{Text: s} },
	"tt":   func(s string) Span { return Monospace{Text: s} },
	"code": func(s string) Span { return Monospace{Text: s} },
}

// ParseInline splits text into spans. It is a single left-to-right scan:
// span contents are never parsed again, and anything that does not close
// properly is emitted as plain text.
func ParseInline(text string) []Span {
	if text == "" {
		return nil
	}
	s := inlineScanner{src: text}
	s.run()
	return s.out
}

type inlineScanner struct {
	src   string
	pos   int
	plain strings.Builder
	out   []Span
}

func (s *inlineScanner) run() {
	for s.pos < len(s.src) {
		if s.tryEscape() || s.tryTag() || s.tryBraceLink() {
			continue
		}
		if s.atWordStart() {
			if s.tryEmphasis() || s.tryURL() || s.tryWordLink() || s.tryCrossRef() {
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if r == utf8.RuneError && size == 1 {
			// invalid byte, kept as is
			s.plain.WriteByte(s.src[s.pos])
		} else {
			s.plain.WriteRune(r)
		}
		s.pos += size
	}
	s.flush()
}

func (s *inlineScanner) flush() {
	if s.plain.Len() == 0 {
		return
	}
	s.out = append(s.out, PlainText{Text: s.plain.String()})
	s.plain.Reset()
}

func (s *inlineScanner) emit(sp Span, consumed int) {
	s.flush()
	s.out = append(s.out, sp)
	s.pos += consumed
}

func (s *inlineScanner) rest() string { return s.src[s.pos:] }

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// atWordStart reports whether the previous rune cannot be part of a token.
func (s *inlineScanner) atWordStart() bool {
	if s.pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s.src[:s.pos])
	return !isWordRune(r) && r != ':' && r != '#' && r != '\\'
}

// tryEscape emits the token after a backslash literally.
func (s *inlineScanner) tryEscape() bool {
	rest := s.rest()
	if len(rest) < 2 || rest[0] != '\\' {
		return false
	}
	next, _ := utf8.DecodeRuneInString(rest[1:])
	if unicode.IsSpace(next) {
		return false
	}
	end := strings.IndexFunc(rest[1:], unicode.IsSpace)
	if end < 0 {
		end = len(rest) - 1
	}
	s.plain.WriteString(rest[1 : 1+end])
	s.pos += 1 + end
	return true
}

func (s *inlineScanner) tryTag() bool {
	rest := s.rest()
	if len(rest) < 3 || rest[0] != '<' {
		return false
	}
	closeIdx := strings.IndexByte(rest, '>')
	if closeIdx < 2 {
		return false
	}
	name := strings.ToLower(rest[1:closeIdx])
	build, ok := tagSpans[name]
	if !ok {
		return false
	}
	endTag := "</" + name + ">"
	body := rest[closeIdx+1:]
	end := indexFold(body, endTag)
	if end <= 0 {
		return false
	}
	s.emit(build(body[:end]), closeIdx+1+end+len(endTag))
	return true
}

// indexFold is strings.Index with ASCII case folding of the needle.
func indexFold(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i] == sub[0] && strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

func (s *inlineScanner) tryBraceLink() bool {
	m := braceRe.FindStringSubmatch(s.rest())
	if m == nil {
		return false
	}
	s.emit(HyperLink{Target: linkTarget(m[2]), Spans: []Span{PlainText{Text: m[1]}}}, len(m[0]))
	return true
}

// tryEmphasis handles *word*, _word_ and +word+. The content may not contain
// whitespace and the closing marker must end the word.
func (s *inlineScanner) tryEmphasis() bool {
	rest := s.rest()
	if len(rest) < 3 {
		return false
	}
	mark := rest[0]
	if mark != '*' && mark != '_' && mark != '+' {
		return false
	}
	first, _ := utf8.DecodeRuneInString(rest[1:])
	if unicode.IsSpace(first) || first == rune(mark) {
		return false
	}
	for i := 1; i < len(rest); i++ {
		c := rest[i]
		if c == ' ' || c == '\t' || c == '\n' {
			return false
		}
		if c != mark {
			continue
		}
		after := rest[i+1:]
		if after != "" {
			r, _ := utf8.DecodeRuneInString(after)
			if isWordRune(r) {
				continue
			}
		}
		body := rest[1:i]
		var sp Span
		switch mark {
		case '*':
			sp = Bold{Text: body}
		case '_':
			sp = Italic{Text: body}
		default:
			sp = Monospace{Text: body}
		}
		s.emit(sp, i+1)
		return true
	}
	return false
}

func (s *inlineScanner) tryURL() bool {
	tok := urlRe.FindString(s.rest())
	if tok == "" {
		return false
	}
	tok = strings.TrimRight(tok, ".,;:!?)'\"")
	if tok == "" || strings.HasSuffix(tok, "://") || tok == "www." || tok == "mailto:" {
		return false
	}
	s.emit(HyperLink{Target: linkTarget(tok), Spans: []Span{PlainText{Text: tok}}}, len(tok))
	return true
}

func (s *inlineScanner) tryWordLink() bool {
	m := wordLinkRe.FindStringSubmatch(s.rest())
	if m == nil {
		return false
	}
	s.emit(HyperLink{Target: linkTarget(m[2]), Spans: []Span{PlainText{Text: m[1]}}}, len(m[0]))
	return true
}

func (s *inlineScanner) tryCrossRef() bool {
	tok := crossRefRe.FindString(s.rest())
	if tok == "" || !strings.ContainsAny(tok, ":#.") {
		return false
	}
	// The token must end on a word boundary.
	if after := s.rest()[len(tok):]; after != "" {
		r, _ := utf8.DecodeRuneInString(after)
		if isWordRune(r) {
			return false
		}
	}
	s.emit(CrossReference{Token: tok}, len(tok))
	return true
}

func linkTarget(raw string) string {
	if strings.HasPrefix(raw, "www.") {
		return "http://" + raw
	}
	return strings.TrimPrefix(raw, "link:")
}
