// Package workflow orchestrates one post generation run.
//
// A Runner strings the content pipeline, image preparation, link creation,
// and page rendering together for each post kind (vocab, grammar, humor).
// Steps run strictly in sequence. Fatal failures (missing credentials or
// images, failed primary model calls) abort before any page is written;
// secondary failures degrade to marked placeholders in the page so the
// operator can fix them by hand. Interactive decisions (accepting a grammar
// rule, revising a description, naming a meme) go through the Reviewer
// interface so runs can be scripted or driven from a terminal.
package workflow
