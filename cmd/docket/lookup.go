package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docket/internal/model"
	"docket/internal/outline"
	"docket/internal/source"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [flags] <name>",
	Short: "Show the documentation of a class, module or method",
	Long: `Show one documented entity. Names are Outer::Inner for containers,
Outer::Inner#meth for instance methods and Outer::Inner.meth or Outer::Inner::meth
for singleton methods.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	addOptionFlags(lookupCmd)
	lookupCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	lookupCmd.Flags().Int("width", outline.DefaultWidth, "wrap comments to this width")
}

// methodRef is a parsed "Owner#name" or "Owner.name" reference.
type methodRef struct {
	owner     string
	name      string
	singleton bool
}

// parseMethodRef splits name into owner and method. A last "::" segment
// starting with a lower-case letter names a singleton method.
func parseMethodRef(name string) (methodRef, bool) {
	if i := strings.LastIndex(name, "#"); i > 0 {
		return methodRef{owner: name[:i], name: name[i+1:]}, i+1 < len(name)
	}
	if i := strings.LastIndex(name, "."); i > 0 && !strings.Contains(name[i:], model.Separator) {
		return methodRef{owner: name[:i], name: name[i+1:], singleton: true}, i+1 < len(name)
	}
	if i := strings.LastIndex(name, model.Separator); i > 0 {
		last := name[i+len(model.Separator):]
		if r := []rune(last); len(r) > 0 && !unicode.IsUpper(r[0]) {
			return methodRef{owner: name[:i], name: last, singleton: true}, true
		}
	}
	return methodRef{}, false
}

func runLookup(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return err
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}
	loaded, err := loadIndex(opts.OpDir)
	if err != nil {
		return err
	}

	name := strings.TrimPrefix(strings.TrimSpace(args[0]), model.Separator)
	out := cmd.OutOrStdout()
	tree := loaded.registry.Tree()

	if ref, ok := parseMethodRef(name); ok {
		ownerID, found := loaded.registry.Lookup(ref.owner)
		if !found {
			return fmt.Errorf("%s is not documented", ref.owner)
		}
		owner := tree.Get(ownerID)
		i := owner.FindMethod(ref.name, ref.singleton)
		if i < 0 {
			return fmt.Errorf("%s has no method %s", tree.FullName(ownerID), ref.name)
		}
		m := &owner.Methods[i]
		if format == "json" {
			rec, ok := loaded.index.Find(tree.FullName(ownerID))
			if !ok {
				return fmt.Errorf("%s: missing from index", ref.owner)
			}
			for _, mr := range rec.Methods {
				if mr.Name == m.Name && mr.Singleton == m.Singleton {
					return writeJSON(out, mr)
				}
			}
			return fmt.Errorf("%s: method missing from index", name)
		}
		printMethod(out, tree, m, loaded.files, width, colored)
		return nil
	}

	id, found := loaded.registry.Lookup(name)
	if !found {
		return fmt.Errorf("%s is not documented", name)
	}
	if format == "json" {
		rec, ok := loaded.index.Find(tree.FullName(id))
		if !ok {
			return fmt.Errorf("%s: missing from index", name)
		}
		return writeJSON(out, rec)
	}
	printContainer(out, tree, id, loaded.files, width, opts.Visibility, colored)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func heading(colored bool) *color.Color {
	c := color.New(color.Bold)
	if colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func printContainer(out io.Writer, tree *model.Tree, id model.ContainerID, files *source.FileSet, width int, floor model.Visibility, colored bool) {
	c := tree.Get(id)
	title := c.Kind.String() + " " + tree.FullName(id)
	if c.Superclass != "" {
		title += " < " + c.Superclass
	}
	fmt.Fprintln(out, heading(colored).Sprint(title))
	if c.IsAlias() {
		fmt.Fprintf(out, "alias of %s\n", tree.FullName(c.AliasFor))
	}
	if paths := filePaths(files, c.InFiles); len(paths) > 0 {
		fmt.Fprintf(out, "defined in %s\n", strings.Join(paths, ", "))
	}
	if text := outline.Text(c.Comment, width); text != "" {
		fmt.Fprintf(out, "\n%s\n", text)
	}
	if len(c.Aliases) > 0 {
		names := make([]string, 0, len(c.Aliases))
		for _, a := range c.Aliases {
			names = append(names, tree.FullName(a))
		}
		fmt.Fprintf(out, "\nalso known as %s\n", strings.Join(names, ", "))
	}
	for _, m := range c.Mixins {
		fmt.Fprintf(out, "%s %s\n", m.Kind, m.Name)
	}
	if consts := c.VisibleConstants(floor); len(consts) > 0 {
		fmt.Fprintln(out, "\nconstants:")
		for _, k := range consts {
			fmt.Fprintf(out, "  %s = %s\n", k.Name, k.Value)
		}
	}
	if attrs := c.VisibleAttributes(floor); len(attrs) > 0 {
		fmt.Fprintln(out, "\nattributes:")
		for _, a := range attrs {
			fmt.Fprintf(out, "  %s [%s]\n", a.Name, a.Kind)
		}
	}
	if methods := c.VisibleMethods(floor); len(methods) > 0 {
		fmt.Fprintln(out, "\nmethods:")
		for i := range methods {
			m := &methods[i]
			fmt.Fprintf(out, "  %s%s\n", methodSigil(m), m.Name)
		}
	}
}

func printMethod(out io.Writer, tree *model.Tree, m *model.Method, files *source.FileSet, width int, colored bool) {
	fmt.Fprintf(out, "%s%s  [%s]\n", heading(colored).Sprint(tree.MethodFullName(m)), m.Params, m.Visibility)
	if m.AliasFor.IsValid() {
		fmt.Fprintf(out, "alias for %s\n", tree.MethodFullName(&model.Method{
			Parent: m.AliasFor.Owner, Name: m.AliasFor.Name, Singleton: m.AliasFor.Singleton,
		}))
	}
	if m.Span.IsKnown() {
		if f := files.Get(m.Span.File); f != nil {
			fmt.Fprintf(out, "defined in %s:%d\n", f.Path, m.Span.Line)
		}
	}
	if m.CallSeq != "" {
		fmt.Fprintf(out, "\n%s\n", m.CallSeq)
	}
	if text := outline.Text(m.Comment, width); text != "" {
		fmt.Fprintf(out, "\n%s\n", text)
	}
}

func methodSigil(m *model.Method) string {
	if m.Singleton {
		return model.Separator
	}
	return "#"
}

func filePaths(files *source.FileSet, ids []source.FileID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if f := files.Get(id); f != nil {
			out = append(out, f.Path)
		}
	}
	return out
}
