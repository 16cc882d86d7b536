package unit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"docket/internal/diag"
	"docket/internal/markup"
	"docket/internal/model"
	"docket/internal/source"
	"docket/internal/trace"
)

// TopLevelOwner receives members declared without a parent.
const TopLevelOwner = "Object"

// Options controls fragment building.
type Options struct {
	// TabWidth for comment parsing; 0 means markup.DefaultTabWidth.
	TabWidth int
	// Reporter receives record-level diagnostics. nil drops them.
	Reporter diag.Reporter
}

// Stats counts what a unit contributed.
type Stats struct {
	Records    int
	Skipped    int
	Containers int
	Members    int
}

// Build decodes file into a fragment tree. Record-level problems are
// reported and skipped; the returned error is reserved for structural
// conflicts and context cancellation.
func Build(ctx context.Context, file *source.File, opts Options) (*model.Tree, Stats, error) {
	if file == nil {
		return nil, Stats{}, errors.New("unit: nil file")
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	b := &builder{
		tree:   model.NewTree(0),
		file:   file,
		opts:   opts,
		parser: markup.Parser{TabWidth: opts.TabWidth},
		trace:  trace.RecorderFrom(ctx),
	}
	rd := NewReader[Record](bytes.NewReader(file.Content), nil)
	for {
		if err := ctx.Err(); err != nil {
			return nil, b.stats, err
		}
		rec, ok, err := rd.Next()
		if err != nil {
			var lerr *LineError
			if !errors.As(err, &lerr) {
				return nil, b.stats, fmt.Errorf("read %s: %w", file.Path, err)
			}
			b.stats.Skipped++
			b.report(diag.UnitMalformedRecord, lerr.Line, "malformed record: %v", lerr.Err)
			continue
		}
		if !ok {
			break
		}
		b.stats.Records++
		if err := b.add(rec, rd.Line()); err != nil {
			return nil, b.stats, err
		}
	}
	return b.tree, b.stats, nil
}

type builder struct {
	tree   *model.Tree
	file   *source.File
	opts   Options
	parser markup.Parser
	stats  Stats
	trace  trace.Recorder
}

func (b *builder) report(code diag.Code, line int, format string, args ...any) {
	diag.ReportWarning(b.opts.Reporter, code, b.span(line), fmt.Sprintf(format, args...)).Emit()
}

func (b *builder) span(line int) source.Span {
	l, err := safecast.Conv[uint32](line)
	if err != nil {
		l = 0
	}
	return source.Span{File: b.file.ID, Line: l}
}

func (b *builder) add(rec Record, unitLine int) error {
	line := unitLine
	if rec.Line > 0 {
		line = int(rec.Line)
	}
	if rec.Name == "" {
		b.stats.Skipped++
		b.report(diag.UnitMissingName, unitLine, "%s record without name", orUnknown(rec.Kind))
		return nil
	}
	vis := model.Public
	if rec.Visibility != "" {
		v, err := model.ParseVisibility(rec.Visibility)
		if err != nil {
			b.report(diag.UnitBadVisibility, unitLine, "%s: %v", rec.Name, err)
		} else {
			vis = v
		}
	}
	sp := b.span(line)

	switch rec.Kind {
	case KindClass, KindModule, KindSingletonClass:
		return b.addContainer(rec, vis, sp)
	case KindMethod, KindAttribute, KindConstant, KindInclude, KindExtend:
		owner, err := b.owner(rec, unitLine)
		if err != nil {
			return err
		}
		b.addMember(owner, rec, vis, sp, unitLine)
		b.tree.AddFile(owner, b.file.ID)
		b.stats.Members++
		return nil
	default:
		b.stats.Skipped++
		b.report(diag.UnitUnknownKind, unitLine, "unknown record kind %q", rec.Kind)
		return nil
	}
}

func (b *builder) addContainer(rec Record, vis model.Visibility, sp source.Span) error {
	parentPath, name := splitName(rec.Parent, rec.Name)
	parent, err := b.namespace(parentPath)
	if err != nil {
		return err
	}
	var kind model.ContainerKind
	switch rec.Kind {
	case KindClass:
		kind = model.KindClass
	case KindSingletonClass:
		kind = model.KindSingletonClass
	default:
		kind = model.KindModule
	}
	adopted := false
	if existing, ok := b.tree.Get(parent).Child(name); ok {
		adopted = b.tree.Get(existing).Placeholder
	}
	before := b.tree.Len()
	id, err := b.tree.AddContainer(parent, kind, name)
	if err != nil {
		return fmt.Errorf("%s: %w", b.file.Path, err)
	}
	c := b.tree.Get(id)
	created := b.tree.Len() > before
	if created {
		b.stats.Containers++
	}
	if created || adopted {
		c.Span = sp
		c.Visibility = vis
		b.trace.Entity("declare", b.tree.FullName(id), kind.String())
	}
	if kind == model.KindClass && c.Superclass == "" {
		c.Superclass = rec.Superclass
	}
	if rec.NoDoc {
		c.DocumentSelf = false
	}
	c.Forced = c.Forced || rec.Doc
	b.tree.AppendComment(id, b.comment(rec.Comment))
	b.tree.AddFile(id, b.file.ID)
	return nil
}

func (b *builder) addMember(owner model.ContainerID, rec Record, vis model.Visibility, sp source.Span, unitLine int) {
	comment := b.comment(rec.Comment)
	documented := !rec.NoDoc
	switch rec.Kind {
	case KindMethod:
		m := model.Method{
			Name:         rec.Name,
			Params:       rec.Params,
			CallSeq:      rec.CallSeq,
			Singleton:    rec.Singleton,
			Visibility:   vis,
			Comment:      comment,
			DocumentSelf: documented,
			Forced:       rec.Doc,
			Span:         sp,
		}
		if rec.AliasOf != "" {
			m.AliasFor = model.MethodRef{Owner: owner, Name: rec.AliasOf, Singleton: rec.Singleton}
		}
		b.tree.AddMethod(owner, m)
	case KindAttribute:
		kind := model.AttrRead
		if rec.RW != "" {
			k, err := model.ParseAttrKind(rec.RW)
			if err != nil {
				b.report(diag.UnitBadAttrKind, unitLine, "attribute %s: %v", rec.Name, err)
			} else {
				kind = k
			}
		}
		a := b.tree.AddAttribute(owner, model.Attribute{
			Name:         rec.Name,
			Kind:         kind,
			Visibility:   vis,
			DocumentSelf: documented,
			Forced:       rec.Doc,
			Span:         sp,
		})
		if a.Comment == nil {
			a.Comment = comment
		} else {
			a.Comment.Append(comment)
		}
	case KindConstant:
		b.tree.AddConstant(owner, model.Constant{
			Name:         rec.Name,
			Value:        rec.Value,
			AliasTarget:  rec.AliasFor,
			Visibility:   vis,
			Comment:      comment,
			DocumentSelf: documented,
			Forced:       rec.Doc,
			Span:         sp,
		})
	case KindInclude, KindExtend:
		kind := model.MixinInclude
		if rec.Kind == KindExtend {
			kind = model.MixinExtend
		}
		b.tree.AddMixin(owner, model.Mixin{Name: rec.Name, Kind: kind, Comment: comment, Span: sp})
	}
}

// owner returns the container a member record belongs to. Members without
// a parent go to the top-level owner class.
func (b *builder) owner(rec Record, unitLine int) (model.ContainerID, error) {
	if rec.Parent != "" {
		return b.namespace(rec.Parent)
	}
	b.report(diag.UnitOrphanMember, unitLine, "%s %s has no parent; attached to %s", rec.Kind, rec.Name, TopLevelOwner)
	if id, ok := b.tree.Get(b.tree.Root()).Child(TopLevelOwner); ok {
		return id, nil
	}
	id, err := b.tree.AddClass(b.tree.Root(), TopLevelOwner, "")
	if err != nil {
		return id, fmt.Errorf("%s: %w", b.file.Path, err)
	}
	b.stats.Containers++
	return id, nil
}

// namespace walks path from the root, creating missing segments as
// placeholder modules. Existing classes and modules are reused whatever
// their kind.
func (b *builder) namespace(path string) (model.ContainerID, error) {
	cur := b.tree.Root()
	path = strings.TrimPrefix(path, model.Separator)
	if path == "" {
		return cur, nil
	}
	for _, seg := range strings.Split(path, model.Separator) {
		if seg == "" {
			return model.NoContainerID, fmt.Errorf("%s: bad namespace path %q", b.file.Path, path)
		}
		if next, ok := b.tree.Get(cur).Child(seg); ok {
			cur = next
			continue
		}
		next, err := b.tree.AddPlaceholder(cur, seg)
		if err != nil {
			return model.NoContainerID, fmt.Errorf("%s: %w", b.file.Path, err)
		}
		b.stats.Containers++
		cur = next
	}
	return cur, nil
}

func (b *builder) comment(raw string) *markup.Document {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return b.parser.Parse(markup.StripComment(raw))
}

// splitName moves the qualifier of a qualified name into the parent path.
func splitName(parent, name string) (string, string) {
	i := strings.LastIndex(name, model.Separator)
	if i < 0 {
		return parent, name
	}
	qual, simple := name[:i], name[i+len(model.Separator):]
	if strings.HasPrefix(name, model.Separator) {
		return strings.TrimPrefix(qual, model.Separator), simple
	}
	if parent == "" {
		return qual, simple
	}
	return parent + model.Separator + qual, simple
}

func orUnknown(kind string) string {
	if kind == "" {
		return "untyped"
	}
	return kind
}
