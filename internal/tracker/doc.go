// Package tracker models the publication tracker embedded in every generated
// page.
//
// The tracker remembers, per page, which destinations a post was already
// published to, which destination is currently active, and any text the
// operator edited in place. State transitions are pure functions over State;
// the browser port in tracker.js applies the same rules and persists the
// result to localStorage under the page's storage key.
package tracker
