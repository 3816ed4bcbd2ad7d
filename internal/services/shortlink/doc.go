// Package shortlink creates tracked short links through the Ablink API.
//
// Link creation is a degraded step: Link never fails and substitutes one of
// the fixed "Error: Unable to generate link ..." placeholders, logging a
// warning, so the generated page still gets written and the operator can
// fix the link by hand.
package shortlink
