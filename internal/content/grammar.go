package content

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"subpost/internal/logging"
	"subpost/internal/services"
	"subpost/internal/services/llm"
)

const creativeTemperature = 1.2

// GrammarRule is one proposed exercise: a rule name, three candidate
// sentences, and the 1-based index of the correct one.
type GrammarRule struct {
	Rule    string
	Context string
	Options [3]string
	Correct int
}

// CorrectOption returns the text of the correct sentence.
func (g GrammarRule) CorrectOption() string {
	if g.Correct < 1 || g.Correct > len(g.Options) {
		return ""
	}
	return g.Options[g.Correct-1]
}

// Incorrect returns the wrong sentences in option order.
func (g GrammarRule) Incorrect() []string {
	out := make([]string, 0, len(g.Options)-1)
	for i, opt := range g.Options {
		if i+1 != g.Correct {
			out = append(out, opt)
		}
	}
	return out
}

var errUnparseableProposal = errors.New("grammar proposal missing fields")

func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?mi)^[ \t*#>-]*` + label + `[ \t*]*:[ \t*]*(.*?)[ \t*]*$`)
}

var (
	rulePattern    = labelPattern("RULE")
	contextPattern = labelPattern("CONTEXT")
	optionPatterns = [3]*regexp.Regexp{labelPattern("OPTION1"), labelPattern("OPTION2"), labelPattern("OPTION3")}
	correctPattern = regexp.MustCompile(`(?mi)^[ \t*#>-]*CORRECT[ \t*]*:[ \t*]*(\d)`)
)

type proposalJSON struct {
	Rule    string `json:"rule"`
	Context string `json:"context"`
	Option1 string `json:"option1"`
	Option2 string `json:"option2"`
	Option3 string `json:"option3"`
	Correct int    `json:"correct"`
}

// ParseGrammarRule reads the RULE/CONTEXT/OPTION1-3/CORRECT reply format.
// A JSON object with the same keys is accepted too. CONTEXT may be empty.
func ParseGrammarRule(reply string) (GrammarRule, error) {
	if rule, ok := parseLabelled(reply); ok {
		return rule, nil
	}
	var payload proposalJSON
	if err := llm.DecodeLLMJSON(reply, &payload); err == nil {
		rule := GrammarRule{
			Rule:    strings.TrimSpace(payload.Rule),
			Context: strings.TrimSpace(payload.Context),
			Options: [3]string{
				strings.TrimSpace(payload.Option1),
				strings.TrimSpace(payload.Option2),
				strings.TrimSpace(payload.Option3),
			},
			Correct: payload.Correct,
		}
		if rule.valid() {
			return rule, nil
		}
	}
	return GrammarRule{}, errUnparseableProposal
}

func parseLabelled(reply string) (GrammarRule, bool) {
	var rule GrammarRule
	m := rulePattern.FindStringSubmatch(reply)
	if m == nil {
		return rule, false
	}
	rule.Rule = strings.TrimSpace(m[1])
	if m := contextPattern.FindStringSubmatch(reply); m != nil {
		rule.Context = strings.TrimSpace(m[1])
	}
	for i, pattern := range optionPatterns {
		m := pattern.FindStringSubmatch(reply)
		if m == nil {
			return rule, false
		}
		rule.Options[i] = strings.TrimSpace(m[1])
	}
	m = correctPattern.FindStringSubmatch(reply)
	if m == nil {
		return rule, false
	}
	rule.Correct, _ = strconv.Atoi(m[1])
	return rule, rule.valid()
}

func (g GrammarRule) valid() bool {
	if g.Rule == "" || g.Correct < 1 || g.Correct > 3 {
		return false
	}
	for _, opt := range g.Options {
		if opt == "" {
			return false
		}
	}
	return true
}

// ProposeGrammarRule asks the creative model for a new exercise. Replies
// that cannot be parsed are re-requested, up to the configured attempt
// count. avoid lists rules the operator already turned down.
func (p *Pipeline) ProposeGrammarRule(ctx context.Context, avoid []string) (GrammarRule, error) {
	const step = "propose grammar rule"
	data := struct{ Avoid []string }{avoid}
	for attempt := 1; attempt <= p.proposalAttempts; attempt++ {
		reply, err := p.generate(ctx, step, llm.Request{
			Model:       p.models.Creative,
			System:      systemGrammarProposer,
			Temperature: llm.Temperature(creativeTemperature),
		}, "grammar_propose", data)
		if err != nil {
			return GrammarRule{}, err
		}
		rule, err := ParseGrammarRule(reply)
		if err == nil {
			p.log(ctx).Info("grammar rule proposed",
				logging.String("rule", rule.Rule),
				logging.Int("correct", rule.Correct),
				logging.Int("attempt", attempt),
			)
			return rule, nil
		}
		p.log(ctx).Warn("grammar proposal unparseable; asking again",
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", p.proposalAttempts),
			logging.String(logging.FieldEventType, "grammar_proposal_unparseable"),
		)
	}
	return GrammarRule{}, services.Wrap(services.ErrEmptyResponse, step, "parse",
		fmt.Sprintf("no usable proposal after %d attempts", p.proposalAttempts), errUnparseableProposal)
}

type grammarExplainPrompt struct {
	Rule        string
	Correct     int
	CorrectText string
	Incorrect   []string
}

// ExplainGrammar writes the answer explanation for an accepted rule.
func (p *Pipeline) ExplainGrammar(ctx context.Context, rule GrammarRule) (string, error) {
	return p.generate(ctx, "explain grammar", llm.Request{
		Model:       p.models.Text,
		System:      systemGrammarExplain,
		Temperature: llm.Temperature(0),
	}, "grammar_explain", grammarExplainPrompt{
		Rule:        rule.Rule,
		Correct:     rule.Correct,
		CorrectText: rule.CorrectOption(),
		Incorrect:   rule.Incorrect(),
	})
}

// ReviseGrammar rewrites an explanation following an operator instruction.
func (p *Pipeline) ReviseGrammar(ctx context.Context, current, instruction string) (string, error) {
	return p.generate(ctx, "revise grammar", llm.Request{
		Model:       p.models.Text,
		System:      systemGrammarRevise,
		Temperature: llm.Temperature(0),
	}, "grammar_revise", revisePrompt{Current: current, Instruction: instruction})
}
