package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ligatureReplacer covers letters that do not decompose under NFD.
var ligatureReplacer = strings.NewReplacer(
	"œ", "oe",
	"Œ", "OE",
	"æ", "ae",
	"Æ", "AE",
	"ß", "ss",
)

var frenchLower = cases.Lower(language.French)

// FoldAccents strips combining marks so "Lâcher" becomes "Lacher".
func FoldAccents(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, ligatureReplacer.Replace(value))
	if err != nil {
		return value
	}
	return folded
}

// Slugify converts text to a lowercase file-name token: accents are folded,
// every run of characters outside [a-z0-9] becomes one dash, and leading or
// trailing dashes are trimmed. Text that slugs to nothing yields fallback.
func Slugify(value, fallback string) string {
	folded := frenchLower.String(FoldAccents(strings.TrimSpace(value)))
	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
