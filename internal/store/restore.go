package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"docket/internal/model"
	"docket/internal/registry"
	"docket/internal/source"
)

// Restore rebuilds a frozen registry from idx. Unit files become virtual
// entries of the returned file set so spans still print their path.
func Restore(idx *Index) (*registry.Registry, *source.FileSet, error) {
	if idx == nil {
		return nil, nil, errors.New("store: nil index")
	}
	if idx.Schema != SchemaVersion {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, idx.Schema, SchemaVersion)
	}
	files := source.NewFileSet()
	fileIDs := make([]source.FileID, len(idx.Files))
	for i, path := range idx.Files {
		fileIDs[i] = files.AddVirtual(path, nil)
	}
	span := func(l Location) source.Span {
		if l.File < 0 || int(l.File) >= len(fileIDs) {
			return source.Span{Line: l.Line}
		}
		return source.Span{File: fileIDs[l.File], Line: l.Line}
	}

	recs := make([]*ContainerRecord, len(idx.Containers))
	for i := range idx.Containers {
		recs[i] = &idx.Containers[i]
	}
	// parents sort before their children
	sort.Slice(recs, func(i, j int) bool { return recs[i].FullName < recs[j].FullName })

	reg := registry.New(registry.Options{})
	tree := reg.Tree()
	ids := make(map[string]model.ContainerID, len(recs))
	for _, rec := range recs {
		parent := tree.Root()
		name := rec.FullName
		if i := strings.LastIndex(rec.FullName, model.Separator); i >= 0 {
			p, ok := ids[rec.FullName[:i]]
			if !ok {
				return nil, nil, fmt.Errorf("store: %s stored without its parent", rec.FullName)
			}
			parent, name = p, rec.FullName[i+len(model.Separator):]
		}
		id, err := reg.AddContainer(parent, model.ContainerKind(rec.Kind), name)
		if err != nil {
			return nil, nil, fmt.Errorf("store: restore %s: %w", rec.FullName, err)
		}
		ids[rec.FullName] = id
		c := tree.Get(id)
		c.Visibility = model.Visibility(rec.Visibility)
		c.Forced = rec.Forced
		c.Placeholder = rec.Placeholder
		c.Superclass = rec.Superclass
		c.Comment = restoreComment(rec.Comment)
		c.Span = span(rec.Loc)
		for _, f := range rec.InFiles {
			if f >= 0 && int(f) < len(fileIDs) {
				tree.AddFile(id, fileIDs[f])
			}
		}
		for _, a := range rec.Attributes {
			tree.AddAttribute(id, model.Attribute{
				Name:         a.Name,
				Kind:         model.AttrKind(a.Kind),
				Visibility:   model.Visibility(a.Visibility),
				DocumentSelf: a.DocumentSelf,
				Forced:       a.Forced,
				Comment:      restoreComment(a.Comment),
				Span:         span(a.Loc),
			})
		}
		for _, m := range rec.Mixins {
			tree.AddMixin(id, model.Mixin{
				Name:    m.Name,
				Kind:    model.MixinKind(m.Kind),
				Comment: restoreComment(m.Comment),
				Span:    span(m.Loc),
			})
		}
	}

	// references need every container in place
	for _, rec := range recs {
		id := ids[rec.FullName]
		c := tree.Get(id)
		if rec.AliasFor != "" {
			c.AliasFor = ids[rec.AliasFor]
		}
		for _, a := range rec.Aliases {
			if aid, ok := ids[a]; ok {
				c.Aliases = append(c.Aliases, aid)
			}
		}
		for _, m := range rec.Methods {
			method := model.Method{
				Name:         m.Name,
				Params:       m.Params,
				CallSeq:      m.CallSeq,
				Singleton:    m.Singleton,
				Visibility:   model.Visibility(m.Visibility),
				DocumentSelf: m.DocumentSelf,
				Forced:       m.Forced,
				Comment:      restoreComment(m.Comment),
				Span:         span(m.Loc),
			}
			if m.AliasName != "" {
				method.AliasFor = model.MethodRef{Owner: ids[m.AliasOwner], Name: m.AliasName, Singleton: m.AliasSingleton}
			}
			tree.AddMethod(id, method)
		}
		for _, k := range rec.Constants {
			tree.AddConstant(id, model.Constant{
				Name:         k.Name,
				Value:        k.Value,
				Visibility:   model.Visibility(k.Visibility),
				AliasFor:     ids[k.AliasFor],
				DocumentSelf: k.DocumentSelf,
				Forced:       k.Forced,
				Comment:      restoreComment(k.Comment),
				Span:         span(k.Loc),
			})
		}
	}

	for _, rec := range recs {
		c := tree.Get(ids[rec.FullName])
		c.DocumentSelf = rec.DocumentSelf
		if !rec.Listed {
			c.DocumentSelf = false
		}
	}
	reg.RemoveNodoc()
	for _, rec := range recs {
		tree.Get(ids[rec.FullName]).DocumentSelf = rec.DocumentSelf
	}
	reg.Freeze()
	return reg, files, nil
}
