package content

import (
	"context"
	"fmt"
	"strings"

	"subpost/internal/logging"
	"subpost/internal/services"
	"subpost/internal/services/llm"
	"subpost/internal/textutil"
)

// TargetKind says whether the vocabulary target is one word or a fixed
// expression. It changes the redaction and explanation prompts.
type TargetKind string

const (
	KindWord       TargetKind = "word"
	KindExpression TargetKind = "expression"
)

// TranslationStyle selects the translation prompt.
type TranslationStyle string

const (
	StyleNatural TranslationStyle = "natural"
	StyleLiteral TranslationStyle = "literal"
)

// UnknownSourceTitle replaces a source title the model could not read.
const UnknownSourceTitle = "Unknown Movie"

// ExtractSubtitle reads the French subtitle text off a screenshot. A failed
// request or an empty reply is fatal for the run.
func (p *Pipeline) ExtractSubtitle(ctx context.Context, img llm.Image) (string, error) {
	const step = "extract subtitle"
	reply, err := p.generate(ctx, step, llm.Request{
		Model:  p.models.Vision,
		Images: []llm.Image{img},
	}, "subtitle", nil)
	if err != nil {
		return "", err
	}
	text := Clean(reply)
	if text == "" {
		return "", services.Wrap(services.ErrEmptyResponse, step, "", "no subtitle text detected; check the screenshot", nil)
	}
	p.log(ctx).Info("subtitle extracted", logging.String("text", text))
	return text, nil
}

// ExtractSourceTitle reads the "Movie Name (Year)" watermark. Any failure
// degrades to UnknownSourceTitle with a warning.
func (p *Pipeline) ExtractSourceTitle(ctx context.Context, img llm.Image) string {
	reply, err := p.generate(ctx, "extract source title", llm.Request{
		Model:  p.models.Vision,
		Images: []llm.Image{img},
	}, "source_title", nil)
	if err == nil {
		if title := Clean(reply); title != "" {
			p.log(ctx).Info("source title extracted", logging.String("title", title))
			return title
		}
	}
	logging.WarnDegraded(p.log(ctx), "source title unavailable", "source_title_degraded",
		logging.String("placeholder", UnknownSourceTitle),
		logging.Error(err),
	)
	return UnknownSourceTitle
}

// Translate renders a French subtitle in English.
func (p *Pipeline) Translate(ctx context.Context, text string, style TranslationStyle) (string, error) {
	prompt := "translate_natural"
	if style == StyleLiteral {
		prompt = "translate_literal"
	}
	reply, err := p.generate(ctx, "translate", llm.Request{
		Model:       p.models.Text,
		Temperature: llm.Temperature(0),
	}, prompt, struct{ Text string }{text})
	if err != nil {
		return "", err
	}
	translation := Clean(reply)
	if translation == "" {
		return "", services.Wrap(services.ErrEmptyResponse, "translate", "", "empty translation", nil)
	}
	p.log(ctx).Info("subtitle translated",
		logging.String("style", string(style)),
		logging.String("translation", translation),
	)
	return translation, nil
}

type redactPrompt struct {
	Source      string
	Translation string
	Target      string
	Label       string
	LabelLower  string
}

// Redact asks the model to mask the part of translation that corresponds to
// target. The reply is used as-is apart from trimming; see CheckMask for the
// optional sanity report.
func (p *Pipeline) Redact(ctx context.Context, source, translation, target string, kind TargetKind) (string, error) {
	label := "Mot"
	if kind == KindExpression {
		label = "Expression"
	}
	reply, err := p.generate(ctx, "redact", llm.Request{
		Model:       p.models.Precise,
		Temperature: llm.Temperature(0),
	}, "redact", redactPrompt{
		Source:      source,
		Translation: translation,
		Target:      target,
		Label:       label,
		LabelLower:  strings.ToLower(label),
	})
	if err != nil {
		return "", err
	}
	redacted := Clean(reply)
	if redacted == "" {
		return "", services.Wrap(services.ErrEmptyResponse, "redact", "", "empty redaction", nil)
	}
	return redacted, nil
}

// Explain produces the English explanation of a word or expression.
func (p *Pipeline) Explain(ctx context.Context, target string, kind TargetKind) (string, error) {
	prompt := "explain_word"
	if kind == KindExpression {
		prompt = "explain_expression"
	}
	reply, err := p.generate(ctx, "explain", llm.Request{
		Model:       p.models.Text,
		System:      systemPlainText,
		Temperature: llm.Temperature(0),
	}, prompt, struct{ Target string }{target})
	if err != nil {
		return "", err
	}
	p.log(ctx).Info("explanation generated",
		logging.String("target", target),
		logging.String("preview", textutil.Snippet(reply, 80)),
	)
	return reply, nil
}

// ParseTargetKind accepts "word" or "expression".
func ParseTargetKind(value string) (TargetKind, error) {
	switch TargetKind(value) {
	case KindWord, KindExpression:
		return TargetKind(value), nil
	default:
		return "", fmt.Errorf("%w: unknown target kind %q", services.ErrValidation, value)
	}
}
