// Package registry maps full names to containers of one canonical
// model.Tree for the duration of a run.
//
// Lifecycle: New at run start, AddFragment for every decoded unit,
// LinkConstantAliases and ResolveAliases once after all merges, then Freeze.
// After Freeze every write returns ErrFrozen and the registry is safe for
// concurrent readers. Reset clears it between independent runs.
package registry
