package store

import (
	"fortio.org/safecast"

	"docket/internal/markup"
	"docket/internal/model"
	"docket/internal/registry"
	"docket/internal/source"
)

// Snapshot flattens every registered container of reg into an Index.
// Forwarded names are skipped; the container they resolve to is stored
// under its own name.
func Snapshot(reg *registry.Registry, files *source.FileSet) *Index {
	s := &snapshotter{
		tree:    reg.Tree(),
		files:   files,
		fileIdx: make(map[source.FileID]int32),
		idx:     &Index{Schema: SchemaVersion},
	}
	listed := make(map[model.ContainerID]bool)
	s.tree.Walk(s.tree.Root(), func(id model.ContainerID, _ *model.Container) bool {
		listed[id] = true
		return true
	})
	seen := make(map[model.ContainerID]bool)
	for _, name := range reg.Names() {
		id, ok := reg.Lookup(name)
		if !ok || seen[id] || s.tree.FullName(id) != name {
			continue
		}
		seen[id] = true
		s.idx.Containers = append(s.idx.Containers, s.container(id, listed[id]))
	}
	return s.idx
}

type snapshotter struct {
	tree    *model.Tree
	files   *source.FileSet
	fileIdx map[source.FileID]int32
	idx     *Index
}

func (s *snapshotter) container(id model.ContainerID, listed bool) ContainerRecord {
	c := s.tree.Get(id)
	rec := ContainerRecord{
		FullName:     s.tree.FullName(id),
		Kind:         uint8(c.Kind),
		Visibility:   uint8(c.Visibility),
		DocumentSelf: c.DocumentSelf,
		Forced:       c.Forced,
		Placeholder:  c.Placeholder,
		Listed:       listed,
		Superclass:   c.Superclass,
		Comment:      commentParts(c.Comment),
		Loc:          s.loc(c.Span),
	}
	if c.AliasFor.IsValid() {
		rec.AliasFor = s.tree.FullName(c.AliasFor)
	}
	for _, a := range c.Aliases {
		rec.Aliases = append(rec.Aliases, s.tree.FullName(a))
	}
	for _, f := range c.InFiles {
		rec.InFiles = append(rec.InFiles, s.file(f))
	}
	for _, m := range c.Methods {
		mr := MethodRecord{
			Name:         m.Name,
			Params:       m.Params,
			CallSeq:      m.CallSeq,
			Singleton:    m.Singleton,
			Visibility:   uint8(m.Visibility),
			DocumentSelf: m.DocumentSelf,
			Forced:       m.Forced,
			Comment:      commentParts(m.Comment),
			Loc:          s.loc(m.Span),
		}
		if m.AliasFor.IsValid() {
			mr.AliasOwner = s.tree.FullName(m.AliasFor.Owner)
			mr.AliasName = m.AliasFor.Name
			mr.AliasSingleton = m.AliasFor.Singleton
		}
		rec.Methods = append(rec.Methods, mr)
	}
	for _, a := range c.Attributes {
		rec.Attributes = append(rec.Attributes, AttributeRecord{
			Name:         a.Name,
			Kind:         uint8(a.Kind),
			Visibility:   uint8(a.Visibility),
			DocumentSelf: a.DocumentSelf,
			Forced:       a.Forced,
			Comment:      commentParts(a.Comment),
			Loc:          s.loc(a.Span),
		})
	}
	for _, k := range c.Constants {
		kr := ConstantRecord{
			Name:         k.Name,
			Value:        k.Value,
			Visibility:   uint8(k.Visibility),
			DocumentSelf: k.DocumentSelf,
			Forced:       k.Forced,
			Comment:      commentParts(k.Comment),
			Loc:          s.loc(k.Span),
		}
		if k.AliasFor.IsValid() {
			kr.AliasFor = s.tree.FullName(k.AliasFor)
		}
		rec.Constants = append(rec.Constants, kr)
	}
	for _, m := range c.Mixins {
		rec.Mixins = append(rec.Mixins, MixinRecord{
			Name:    m.Name,
			Kind:    uint8(m.Kind),
			Comment: commentParts(m.Comment),
			Loc:     s.loc(m.Span),
		})
	}
	return rec
}

func (s *snapshotter) file(id source.FileID) int32 {
	if i, ok := s.fileIdx[id]; ok {
		return i
	}
	if s.files == nil {
		return -1
	}
	f := s.files.Get(id)
	if f == nil {
		return -1
	}
	i, err := safecast.Conv[int32](len(s.idx.Files))
	if err != nil {
		return -1
	}
	s.idx.Files = append(s.idx.Files, f.FormatPath("relative", s.files.BaseDir()))
	s.fileIdx[id] = i
	return i
}

func (s *snapshotter) loc(sp source.Span) Location {
	if !sp.IsKnown() || s.files == nil {
		return Location{File: -1, Line: sp.Line}
	}
	return Location{File: s.file(sp.File), Line: sp.Line}
}

func commentParts(doc *markup.Document) []string {
	if doc.Empty() {
		return nil
	}
	parts := doc.Parts()
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, markup.NewDocument(p...).Text())
	}
	return out
}

func restoreComment(parts []string) *markup.Document {
	if len(parts) == 0 {
		return nil
	}
	doc := &markup.Document{}
	for _, p := range parts {
		doc.Append(markup.Parse(p))
	}
	return doc
}
