// Package textutil holds small string helpers: slugs for output file names
// and storage keys, accent folding, and log snippets.
package textutil
