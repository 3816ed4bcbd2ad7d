// Package services defines shared utilities consumed by the generation
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, step names, and the post
//     kind for logging.
//   - Structured error markers plus the Wrap helper so fatal failures carry
//     the step and operation that produced them.
//
// The model and link-shortener adapters live in the llm and shortlink
// subpackages.
package services
