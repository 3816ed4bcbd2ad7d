// Package page renders the self-contained HTML documents the operator opens
// to publish a post. Every page shares the destination link bar, postscript
// block, and publication tracker; the body differs per post kind.
package page
