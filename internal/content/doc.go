// Package content turns raw inputs into the text artifacts of a post:
// subtitles and source titles read off screenshots, translations, redacted
// translations, explanations, meme descriptions, and grammar exercises.
//
// Each step is one request to a Generator. Primary steps (subtitle,
// translation, redaction, explanation) return errors that end the run.
// ExtractSourceTitle is secondary and degrades to UnknownSourceTitle.
//
// Redaction is left entirely to the model. CheckMask and ReportMask only
// describe the reply; they never change it.
//
// Prompts live in prompts/*.tmpl and are rendered with text/template.
package content
