// Package fileutil provides file copy, atomic write, and directory locking
// helpers shared by the generators.
package fileutil
