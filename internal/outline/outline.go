package outline

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"docket/internal/model"
)

// Options controls outline rendering.
type Options struct {
	// Floor is the minimum visibility shown; forced members always show.
	Floor model.Visibility
	Color bool
	// Width truncates lines; 0 disables truncation.
	Width int
	// Summaries prints the first sentence of each comment.
	Summaries bool
	// Depth limits nesting below the start container; 0 means unlimited.
	Depth int
}

type palette struct {
	kind, name, member, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		kind:   color.New(color.FgBlue, color.Bold),
		name:   color.New(color.Bold),
		member: color.New(color.FgGreen),
		dim:    color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.kind, p.name, p.member, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Render writes the outline of start and everything listed below it.
// Nodoc containers already removed from listings do not appear.
func Render(w io.Writer, tree *model.Tree, start model.ContainerID, opts Options) error {
	r := &renderer{w: w, tree: tree, opts: opts, pal: newPalette(opts.Color)}
	base := depthOf(tree, start)
	tree.Walk(start, func(id model.ContainerID, c *model.Container) bool {
		depth := depthOf(tree, id) - base
		if opts.Depth > 0 && depth > opts.Depth {
			return false
		}
		if c.Kind == model.KindTopLevel {
			r.members(c, 0)
			return true
		}
		indent := max(depth-1, 0)
		if start != tree.Root() {
			indent = depth
		}
		if !c.DocumentSelf && !c.Forced {
			return false
		}
		if !model.Visible(c.Visibility, opts.Floor, c.Forced) {
			return false
		}
		r.container(id, c, indent)
		if !c.IsAlias() {
			r.members(c, indent+1)
		}
		return true
	})
	return r.err
}

type renderer struct {
	w    io.Writer
	tree *model.Tree
	opts Options
	pal  palette
	err  error
}

func (r *renderer) line(indent int, s string) {
	if r.err != nil {
		return
	}
	s = strings.Repeat("  ", indent) + s
	if r.opts.Width > 0 && runewidth.StringWidth(s) > r.opts.Width {
		s = runewidth.Truncate(s, r.opts.Width, "…")
	}
	_, r.err = fmt.Fprintln(r.w, s)
}

func (r *renderer) container(id model.ContainerID, c *model.Container, indent int) {
	head := r.pal.kind.Sprint(c.Kind.String()) + " " + r.pal.name.Sprint(r.tree.FullName(id))
	switch {
	case c.IsAlias():
		head += " = " + r.tree.FullName(c.AliasFor)
	case c.Superclass != "":
		head += " < " + c.Superclass
	}
	r.line(indent, head)
	r.summary(indent+1, c.Comment.Summary())
}

func (r *renderer) summary(indent int, text string) {
	if r.opts.Summaries && text != "" {
		r.line(indent, r.pal.dim.Sprint("# "+text))
	}
}

func (r *renderer) members(c *model.Container, indent int) {
	for _, m := range c.Mixins {
		r.line(indent, r.pal.dim.Sprint(m.Kind.String())+" "+m.Name)
	}
	for _, k := range c.VisibleConstants(r.opts.Floor) {
		s := r.pal.member.Sprint(k.Name)
		if k.Value != "" {
			s += " = " + k.Value
		}
		r.line(indent, s)
		r.summary(indent+1, k.Comment.Summary())
	}
	for _, a := range c.VisibleAttributes(r.opts.Floor) {
		r.line(indent, fmt.Sprintf("%s %s%s", r.pal.dim.Sprint("attr"), r.pal.member.Sprint(a.Name), visSuffix(a.Kind.String(), a.Visibility)))
		r.summary(indent+1, a.Comment.Summary())
	}
	for _, m := range c.VisibleMethods(r.opts.Floor) {
		sig := m.Name + m.Params
		prefix := "#"
		if m.Singleton {
			prefix = "::"
		}
		s := prefix + r.pal.member.Sprint(sig)
		if m.AliasFor.IsValid() {
			s += " (alias of " + m.AliasFor.Name + ")"
		}
		r.line(indent, s+visSuffix("", m.Visibility))
		r.summary(indent+1, m.Comment.Summary())
	}
}

func visSuffix(extra string, vis model.Visibility) string {
	var parts []string
	if extra != "" {
		parts = append(parts, extra)
	}
	if vis != model.Public {
		parts = append(parts, vis.String())
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func depthOf(tree *model.Tree, id model.ContainerID) int {
	depth := 0
	for cur := id; cur.IsValid() && cur != tree.Root(); depth++ {
		c := tree.Get(cur)
		if c == nil {
			break
		}
		cur = c.Parent
	}
	return depth
}
