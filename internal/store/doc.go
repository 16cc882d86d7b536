// Package store persists a finished registry as a msgpack index under the
// output directory and loads it back for lookups.
package store
