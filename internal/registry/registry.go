package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"docket/internal/diag"
	"docket/internal/model"
	"docket/internal/trace"
)

// ErrFrozen is returned by writes after Freeze.
var ErrFrozen = errors.New("registry is frozen")

// Options configures a Registry.
type Options struct {
	// WarnUnresolvedAliases reports aliases whose target is missing as
	// SevInfo diagnostics instead of dropping them silently.
	WarnUnresolvedAliases bool
	Reporter              diag.Reporter
}

// Registry is the run-wide full name → container index over one tree.
// All writes go through a single mutex.
type Registry struct {
	mu     sync.RWMutex
	tree   *model.Tree
	byName map[string]model.ContainerID
	frozen bool
	opts   Options
	trace  trace.Recorder
}

// New creates an empty registry.
func New(opts Options) *Registry {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	return &Registry{
		tree:   model.NewTree(0),
		byName: make(map[string]model.ContainerID),
		opts:   opts,
	}
}

// SetTrace directs entity events of later writes to rec.
func (r *Registry) SetTrace(rec trace.Recorder) {
	r.mu.Lock()
	r.trace = rec
	r.mu.Unlock()
}

// Tree exposes the canonical tree. Callers must not mutate it concurrently
// with registry writes.
func (r *Registry) Tree() *model.Tree {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree
}

// Len returns the number of registered full names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Lookup returns the container registered under fullName. Containers that
// were merged away resolve to the container that absorbed them.
func (r *Registry) Lookup(fullName string) (model.ContainerID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(fullName)
}

func (r *Registry) lookupLocked(fullName string) (model.ContainerID, bool) {
	id, ok := r.byName[fullName]
	if !ok {
		return model.NoContainerID, false
	}
	id = r.tree.Resolve(id)
	return id, id.IsValid()
}

// Get returns the container registered under fullName, or nil.
func (r *Registry) Get(fullName string) *model.Container {
	id, ok := r.Lookup(fullName)
	if !ok {
		return nil
	}
	return r.Tree().Get(id)
}

// Names returns all registered full names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Reset drops all state so the registry can serve another run.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tree = model.NewTree(0)
	r.byName = make(map[string]model.ContainerID)
	r.frozen = false
}

// AddFragment merges a per-unit tree into the canonical tree and registers
// every container it introduced. A *model.ConflictError aborts the merge
// without modifying the registry.
func (r *Registry) AddFragment(frag *model.Tree) error {
	if frag == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrFrozen
	}
	created, err := r.tree.MergeTracked(r.tree.Root(), frag, frag.Root())
	if err != nil {
		return err
	}
	for _, id := range created {
		r.registerLocked(id)
		r.trace.Entity("register", r.tree.FullName(id), r.tree.Get(id).Kind.String())
	}
	return nil
}

// AddContainer adds a container directly to the canonical tree and
// registers it.
func (r *Registry) AddContainer(parent model.ContainerID, kind model.ContainerKind, name string) (model.ContainerID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return model.NoContainerID, ErrFrozen
	}
	if !parent.IsValid() {
		parent = r.tree.Root()
	}
	id, err := r.tree.AddContainer(parent, kind, name)
	if err != nil {
		return id, err
	}
	r.registerLocked(id)
	return id, nil
}

// Merge folds src into dst within the canonical tree. The source stays
// registered and resolves to dst afterwards.
func (r *Registry) Merge(dst, src model.ContainerID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrFrozen
	}
	if _, err := r.tree.Merge(dst, r.tree, src); err != nil {
		return fmt.Errorf("merge %s into %s: %w", r.tree.FullName(src), r.tree.FullName(dst), err)
	}
	r.reindexLocked()
	return nil
}

// reindexLocked drops names whose container moved and registers the
// containers now reachable under new names.
func (r *Registry) reindexLocked() {
	next := make(map[string]model.ContainerID, len(r.byName))
	for name, id := range r.byName {
		c := r.tree.Get(id)
		if c == nil {
			continue
		}
		if c.ReplacedBy.IsValid() || r.tree.FullName(id) == name {
			next[name] = id
		}
	}
	r.byName = next
	r.tree.Walk(r.tree.Root(), func(id model.ContainerID, _ *model.Container) bool {
		r.registerLocked(id)
		return true
	})
}

func (r *Registry) registerLocked(id model.ContainerID) {
	name := r.tree.FullName(id)
	if name == "" {
		return
	}
	if _, exists := r.byName[name]; !exists {
		r.byName[name] = id
	}
}

// RemoveNodoc applies model.Tree.RemoveNodocChildren to every container
// reachable from the root. Removed containers stay registered. It returns
// the number of containers removed from listings.
func (r *Registry) RemoveNodoc() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	r.tree.Walk(r.tree.Root(), func(id model.ContainerID, _ *model.Container) bool {
		removed += len(r.tree.RemoveNodocChildren(id))
		return true
	})
	return removed
}

// Validate checks tree invariants and that every registered name still
// matches the full name of its container.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	errs := []error{r.tree.Validate()}
	for _, name := range r.namesLocked() {
		id := r.byName[name]
		if r.tree.Get(id) == nil {
			errs = append(errs, fmt.Errorf("registry: %s points at invalid container %d", name, id))
			continue
		}
		if r.tree.Get(id).ReplacedBy.IsValid() {
			continue
		}
		if got := r.tree.FullName(id); got != name {
			errs = append(errs, fmt.Errorf("registry: %s registered but container is now %s", name, got))
		}
	}
	return errors.Join(errs...)
}
