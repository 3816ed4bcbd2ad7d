package textutil

import "strings"

var whitespaceReplacer = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")

// Snippet collapses whitespace and truncates to limit runes for log output.
func Snippet(content string, limit int) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(whitespaceReplacer.Replace(trimmed)), " ")
	runes := []rune(clean)
	if limit > 0 && len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
