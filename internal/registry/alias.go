package registry

import (
	"fmt"
	"strings"
	"unicode"

	"docket/internal/diag"
	"docket/internal/model"
)

// RegisterAlias records that newName inside container stands for target.
// It only adds a constant; ResolveAliases materializes the alias entity.
func (r *Registry) RegisterAlias(container, target model.ContainerID, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrFrozen
	}
	if r.tree.Get(container) == nil {
		return fmt.Errorf("register alias %q: invalid container %d", newName, container)
	}
	if r.tree.Get(target) == nil {
		return fmt.Errorf("register alias %q: invalid target %d", newName, target)
	}
	if newName == "" || strings.Contains(newName, model.Separator) {
		return fmt.Errorf("register alias: invalid simple name %q", newName)
	}
	r.tree.AddConstant(container, model.Constant{
		Name:         newName,
		Value:        r.tree.FullName(target),
		AliasFor:     target,
		DocumentSelf: true,
	})
	return nil
}

// LinkConstantAliases sets AliasFor on constants that name a registered
// container: the explicit AliasTarget when present, otherwise a Value that
// reads as a constant path. Names are looked up from the constant's
// container outward, then absolutely. It returns the number of constants
// linked.
func (r *Registry) LinkConstantAliases() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return 0, ErrFrozen
	}
	linked := 0
	for _, id := range r.containersLocked() {
		c := r.tree.Get(id)
		for i := range c.Constants {
			k := &c.Constants[i]
			if k.AliasFor.IsValid() {
				continue
			}
			path, explicit := k.AliasTarget, true
			if path == "" {
				path, explicit = strings.TrimSpace(k.Value), false
				if !isConstantPath(path) {
					continue
				}
			}
			own := r.tree.ChildFullName(id, k.Name)
			if target, ok := r.resolvePathLocked(id, path, own); ok {
				k.AliasFor = target
				r.trace.Entity("link", own, r.tree.FullName(target))
				linked++
				continue
			}
			if !explicit {
				continue
			}
			if r.selfReference(id, path, own) {
				diag.ReportWarning(r.opts.Reporter, diag.AliasSelfPointer, k.Span,
					fmt.Sprintf("alias %s points at itself", own)).Emit()
				continue
			}
			r.reportUnresolved(k, own, path)
		}
	}
	return linked, nil
}

// ResolveAliases materializes one alias container per constant with a
// resolvable AliasFor. Running it again creates nothing new. It returns the
// number of alias containers created.
func (r *Registry) ResolveAliases() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return 0, ErrFrozen
	}
	created := 0
	for _, id := range r.containersLocked() {
		created += r.updateAliasesLocked(id)
	}
	return created, nil
}

// UpdateAliases resolves the alias constants of a single container.
func (r *Registry) UpdateAliases(id model.ContainerID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return 0, ErrFrozen
	}
	if r.tree.Get(id) == nil {
		return 0, fmt.Errorf("update aliases: invalid container %d", id)
	}
	return r.updateAliasesLocked(id), nil
}

func (r *Registry) updateAliasesLocked(id model.ContainerID) int {
	created := 0
	for i := range r.tree.Get(id).Constants {
		k := r.tree.Get(id).Constants[i]
		if !k.AliasFor.IsValid() {
			continue
		}
		fullName := r.tree.ChildFullName(id, k.Name)
		if _, exists := r.byName[fullName]; exists {
			continue
		}
		target, ok := r.concreteTarget(k.AliasFor)
		if !ok {
			r.reportUnresolved(&k, fullName, k.Value)
			continue
		}
		if existing, ok := r.tree.Get(id).Child(k.Name); ok {
			// a real container already owns the name
			r.registerLocked(existing)
			continue
		}
		tc := r.tree.Get(target)
		wid, err := r.tree.AddContainer(id, tc.Kind, k.Name)
		if err != nil {
			diag.ReportWarning(r.opts.Reporter, diag.AliasShadowed, k.Span,
				fmt.Sprintf("alias %s not created: %v", fullName, err)).Emit()
			continue
		}
		w := r.tree.Get(wid)
		w.AliasFor = target
		w.Comment = k.Comment.Clone()
		w.Visibility = k.Visibility
		w.DocumentSelf = k.DocumentSelf || k.Forced
		w.Forced = k.Forced
		w.Span = k.Span
		r.byName[fullName] = wid

		tc = r.tree.Get(target)
		tc.Aliases = append(tc.Aliases, wid)
		r.trace.Entity("alias", fullName, r.tree.FullName(target))
		created++
	}
	return created
}

// concreteTarget follows forwarding and alias wrappers to a real container.
func (r *Registry) concreteTarget(id model.ContainerID) (model.ContainerID, bool) {
	for n := r.tree.Len() + 1; n > 0; n-- {
		id = r.tree.Resolve(id)
		c := r.tree.Get(id)
		if c == nil || c.Kind == model.KindTopLevel {
			return model.NoContainerID, false
		}
		if !c.AliasFor.IsValid() {
			return id, true
		}
		id = c.AliasFor
	}
	return model.NoContainerID, false
}

func (r *Registry) reportUnresolved(k *model.Constant, fullName, target string) {
	if !r.opts.WarnUnresolvedAliases {
		return
	}
	diag.ReportInfo(r.opts.Reporter, diag.AliasUnresolved, k.Span,
		fmt.Sprintf("alias %s: target %q not found", fullName, target)).Emit()
}

// resolvePathLocked looks path up lexically from scope outward, then as an
// absolute name. Matches equal to self are ignored.
func (r *Registry) resolvePathLocked(scope model.ContainerID, path, self string) (model.ContainerID, bool) {
	if abs, ok := strings.CutPrefix(path, model.Separator); ok {
		if abs == self {
			return model.NoContainerID, false
		}
		return r.lookupLocked(abs)
	}
	for cur := scope; cur.IsValid(); {
		candidate := r.tree.ChildFullName(cur, path)
		if candidate != self {
			if id, ok := r.lookupLocked(candidate); ok {
				return id, true
			}
		}
		c := r.tree.Get(cur)
		if c == nil {
			break
		}
		cur = c.Parent
	}
	return model.NoContainerID, false
}

func (r *Registry) selfReference(scope model.ContainerID, path, self string) bool {
	if abs, ok := strings.CutPrefix(path, model.Separator); ok {
		return abs == self
	}
	return r.tree.ChildFullName(scope, path) == self
}

// containersLocked lists the root and every registered container, in
// full-name order, without duplicates.
func (r *Registry) containersLocked() []model.ContainerID {
	names := r.namesLocked()
	out := make([]model.ContainerID, 0, len(names)+1)
	seen := make(map[model.ContainerID]struct{}, len(names)+1)
	out = append(out, r.tree.Root())
	seen[r.tree.Root()] = struct{}{}
	for _, name := range names {
		id, ok := r.lookupLocked(name)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// isConstantPath reports whether s looks like A, A::B or ::A::B with each
// segment starting with an upper-case letter.
func isConstantPath(s string) bool {
	s = strings.TrimPrefix(s, model.Separator)
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, model.Separator) {
		if seg == "" {
			return false
		}
		for i, r := range seg {
			switch {
			case i == 0 && !unicode.IsUpper(r):
				return false
			case r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r):
				return false
			}
		}
	}
	return true
}
