// Package testsupport builds temp-directory configs and fixture images for
// tests across packages.
package testsupport
