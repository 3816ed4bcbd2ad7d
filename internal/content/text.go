package content

import (
	"regexp"
	"strings"
)

const quoteCutset = "\"'“”"

// Clean trims whitespace and surrounding quotes from a model reply.
func Clean(text string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(text), quoteCutset))
}

// BoldFirstSentence wraps everything up to and including the first period
// in Markdown bold. Text without a period is returned unchanged.
func BoldFirstSentence(text string) string {
	idx := strings.Index(text, ".")
	if idx < 0 {
		return text
	}
	return "**" + text[:idx+1] + "**" + text[idx+1:]
}

var anchorPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// LinkPostscript turns every [anchor] in ps into the Markdown link
// [anchor](url).
func LinkPostscript(ps, url string) string {
	return anchorPattern.ReplaceAllStringFunc(ps, func(match string) string {
		return match + "(" + url + ")"
	})
}
