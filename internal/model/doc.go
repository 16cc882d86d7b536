// Package model holds the documentation object tree: namespace containers
// (modules, classes, singleton classes) and their members (methods,
// attributes, constants, mixins).
//
// Containers live in a slice arena owned by a Tree and refer to each other
// through ContainerID handles. Parent links are handles too, so full names
// are always recomputed from the current parent chain and reparenting never
// leaves a stale name behind.
//
// Each source unit is decoded into its own Tree (a fragment). Fragments are
// folded into the canonical tree with Tree.Merge, which either reparents
// subtrees (same tree) or deep-imports them (different trees).
package model
