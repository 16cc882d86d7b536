// Package unit decodes unit interchange files into per-unit fragment trees.
//
// A unit file is JSON Lines: one record per line describing a namespace or
// a member. Blank lines and lines starting with "#" are skipped. Malformed
// records are reported through diag.Reporter and skipped; the rest of the
// unit is still decoded.
package unit
