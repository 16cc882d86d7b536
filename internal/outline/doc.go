// Package outline renders the documentation tree and comment documents as
// plain terminal text.
package outline
