package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"subpost/internal/services"
)

const wellFormedProposal = `RULE: si + imparfait
CONTEXT: hypothetical situations
OPTION1: Si j'avais le temps, je voyagerais.
OPTION2: Si j'aurais le temps, je voyagerais.
OPTION3: Si j'ai eu le temps, je voyagerais.
CORRECT: 1`

func TestParseGrammarRule(t *testing.T) {
	want := GrammarRule{
		Rule:    "si + imparfait",
		Context: "hypothetical situations",
		Options: [3]string{
			"Si j'avais le temps, je voyagerais.",
			"Si j'aurais le temps, je voyagerais.",
			"Si j'ai eu le temps, je voyagerais.",
		},
		Correct: 1,
	}
	tests := []struct {
		name  string
		reply string
	}{
		{"strict format", wellFormedProposal},
		{"markdown bold labels", strings.NewReplacer("RULE:", "**RULE:**", "CORRECT:", "**CORRECT:**").Replace(wellFormedProposal)},
		{"json", `{"rule":"si + imparfait","context":"hypothetical situations","option1":"Si j'avais le temps, je voyagerais.","option2":"Si j'aurais le temps, je voyagerais.","option3":"Si j'ai eu le temps, je voyagerais.","correct":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGrammarRule(tt.reply)
			if err != nil {
				t.Fatalf("ParseGrammarRule: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("rule mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseGrammarRuleEmptyContextDoesNotSwallowNextLine(t *testing.T) {
	reply := strings.Replace(wellFormedProposal, "CONTEXT: hypothetical situations", "CONTEXT:", 1)
	got, err := ParseGrammarRule(reply)
	if err != nil {
		t.Fatalf("ParseGrammarRule: %v", err)
	}
	if got.Context != "" || got.Options[0] != "Si j'avais le temps, je voyagerais." {
		t.Fatalf("unexpected parse %+v", got)
	}
}

func TestParseGrammarRuleRejectsIncomplete(t *testing.T) {
	for _, reply := range []string{
		"RULE: x\nOPTION1: a\nOPTION2: b\nCORRECT: 1",
		strings.Replace(wellFormedProposal, "CORRECT: 1", "CORRECT: 4", 1),
		"Sorry, I cannot help with that.",
	} {
		if _, err := ParseGrammarRule(reply); err == nil {
			t.Errorf("expected parse failure for %q", reply)
		}
	}
}

func TestGrammarRuleAccessors(t *testing.T) {
	rule := GrammarRule{Options: [3]string{"a", "b", "c"}, Correct: 2}
	if rule.CorrectOption() != "b" {
		t.Fatalf("unexpected correct option %q", rule.CorrectOption())
	}
	if diff := cmp.Diff([]string{"a", "c"}, rule.Incorrect()); diff != "" {
		t.Fatalf("incorrect mismatch (-want +got):\n%s", diff)
	}
}

func TestProposeGrammarRuleRetriesUnparseable(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"garbage", wellFormedProposal}}
	p := New(gen, testModels, WithProposalAttempts(3))
	rule, err := p.ProposeGrammarRule(context.Background(), []string{"accord du participe passé"})
	if err != nil {
		t.Fatalf("ProposeGrammarRule: %v", err)
	}
	if rule.Rule != "si + imparfait" || len(gen.requests) != 2 {
		t.Fatalf("unexpected rule %+v after %d requests", rule, len(gen.requests))
	}
	req := gen.requests[0]
	if req.Model != "creative" || req.Temperature == nil || *req.Temperature != creativeTemperature {
		t.Fatalf("unexpected request settings %+v", req)
	}
	if !strings.Contains(req.Prompt, "accord du participe passé") || !strings.Contains(req.Prompt, "déjà écartées") {
		t.Fatalf("expected rejected rules in prompt: %q", req.Prompt)
	}
}

func TestProposeGrammarRuleGivesUp(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"a", "b", "c", wellFormedProposal}}
	p := New(gen, testModels, WithProposalAttempts(2))
	_, err := p.ProposeGrammarRule(context.Background(), nil)
	if !errors.Is(err, services.ErrEmptyResponse) {
		t.Fatalf("expected empty response error, got %v", err)
	}
	if len(gen.requests) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(gen.requests))
	}
	if strings.Contains(gen.requests[0].Prompt, "déjà écartées") {
		t.Fatal("avoid line should be omitted when nothing was rejected")
	}
}

func TestExplainGrammarPrompt(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"The correct version is option 1"}}
	p := New(gen, testModels)
	rule, _ := ParseGrammarRule(wellFormedProposal)
	if _, err := p.ExplainGrammar(context.Background(), rule); err != nil {
		t.Fatalf("ExplainGrammar: %v", err)
	}
	prompt := gen.requests[0].Prompt
	if !strings.Contains(prompt, `"The correct version is option 1: 'Si j'avais le temps, je voyagerais.'"`) {
		t.Fatalf("prompt missing opening line: %q", prompt)
	}
	if !strings.Contains(prompt, "Si j'aurais le temps, je voyagerais. | Si j'ai eu le temps, je voyagerais.") {
		t.Fatalf("prompt missing incorrect options: %q", prompt)
	}
}

func TestReviseAndMemeRequests(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"r1", "r2", "r3"}}
	p := New(gen, testModels)
	if _, err := p.ReviseGrammar(context.Background(), "old", "shorter"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AnalyzeMeme(context.Background(), testImage()); err != nil {
		t.Fatal(err)
	}
	if _, err := p.ReviseMeme(context.Background(), "desc", "add context"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gen.requests[0].Prompt, `L'utilisateur demande : "shorter"`) {
		t.Fatalf("unexpected grammar revise prompt %q", gen.requests[0].Prompt)
	}
	if len(gen.requests[1].Images) != 1 || gen.requests[1].System != systemMemeAnalyst {
		t.Fatalf("unexpected meme request %+v", gen.requests[1])
	}
	if !strings.Contains(gen.requests[2].Prompt, `The user requests: "add context"`) {
		t.Fatalf("unexpected meme revise prompt %q", gen.requests[2].Prompt)
	}
}
