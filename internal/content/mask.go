package content

import (
	"context"
	"unicode/utf8"

	"subpost/internal/logging"
)

// MaskRune is the character the redaction prompt asks the model to use.
const MaskRune = '_'

// MaskReport summarizes a redacted translation against its original.
type MaskReport struct {
	TranslationRunes int
	RedactedRunes    int
	// LongestRun is the longest contiguous run of MaskRune.
	LongestRun int
}

// HasMask reports whether any masking happened.
func (r MaskReport) HasMask() bool { return r.LongestRun > 0 }

// LengthMatches reports whether masking preserved the character count.
func (r MaskReport) LengthMatches() bool { return r.TranslationRunes == r.RedactedRunes }

// OK reports whether the redaction looks plausible.
func (r MaskReport) OK() bool { return r.HasMask() && r.LengthMatches() }

// CheckMask compares a redacted translation with the original. It never
// alters either string.
func CheckMask(translation, redacted string) MaskReport {
	report := MaskReport{
		TranslationRunes: utf8.RuneCountInString(translation),
		RedactedRunes:    utf8.RuneCountInString(redacted),
	}
	run := 0
	for _, r := range redacted {
		if r == MaskRune {
			run++
			report.LongestRun = max(report.LongestRun, run)
			continue
		}
		run = 0
	}
	return report
}

// ReportMask runs CheckMask and logs a warning when the redaction looks off.
// The page is still written with the model's output.
func (p *Pipeline) ReportMask(ctx context.Context, translation, redacted string) MaskReport {
	report := CheckMask(translation, redacted)
	if report.OK() {
		return report
	}
	p.log(ctx).Warn("redaction may not line up with the translation",
		logging.String("translation", translation),
		logging.String("redacted", redacted),
		logging.Bool("has_mask", report.HasMask()),
		logging.Int("translation_chars", report.TranslationRunes),
		logging.Int("redacted_chars", report.RedactedRunes),
		logging.String(logging.FieldEventType, "redaction_mismatch"),
		logging.String(logging.FieldImpact, "check the hidden translation box before posting"),
	)
	return report
}
