package workflow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"subpost/internal/content"
	"subpost/internal/textutil"
)

// Verdict is the operator's answer to a generated text.
type Verdict int

const (
	VerdictAccept Verdict = iota
	VerdictModify
	VerdictRegenerate
)

// Review is a verdict plus the change request for VerdictModify.
type Review struct {
	Verdict     Verdict
	Instruction string
}

// Reviewer makes the interactive decisions of a run.
type Reviewer interface {
	// ReviewRule reports whether a proposed grammar rule deserves a post.
	ReviewRule(ctx context.Context, rule content.GrammarRule) (bool, error)
	// ReviewText shows a generated text and asks what to do with it.
	ReviewText(ctx context.Context, label, text string) (Review, error)
	// AskTitle asks for a short file title. Empty means "use the fallback".
	AskTitle(ctx context.Context) (string, error)
	// AskAnother reports whether to generate another post of the same kind.
	AskAnother(ctx context.Context) (bool, error)
}

// AutoReviewer accepts every proposal and never asks for more. It is used
// with --yes and whenever stdin is not a terminal.
type AutoReviewer struct {
	// Title answers AskTitle.
	Title string
}

func (AutoReviewer) ReviewRule(context.Context, content.GrammarRule) (bool, error) { return true, nil }

func (AutoReviewer) ReviewText(context.Context, string, string) (Review, error) {
	return Review{Verdict: VerdictAccept}, nil
}

func (a AutoReviewer) AskTitle(context.Context) (string, error) { return a.Title, nil }

func (AutoReviewer) AskAnother(context.Context) (bool, error) { return false, nil }

// ErrInputClosed reports that the operator's input ended mid-review.
var ErrInputClosed = errors.New("review input closed")

const separator = "────────────────────────────────────────────────────────────"

// ConsoleReviewer asks the operator on a terminal, in French.
type ConsoleReviewer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleReviewer reads answers from in and writes prompts to out.
func NewConsoleReviewer(in io.Reader, out io.Writer) *ConsoleReviewer {
	return &ConsoleReviewer{in: bufio.NewReader(in), out: out}
}

func (c *ConsoleReviewer) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	switch {
	case err == nil, errors.Is(err, io.EOF) && line != "":
		return strings.TrimSpace(line), nil
	case errors.Is(err, io.EOF):
		return "", ErrInputClosed
	default:
		return "", fmt.Errorf("read answer: %w", err)
	}
}

// choose repeats prompt until the answer is one of options. Accents and case
// are ignored, so "regenerer" matches "régénérer".
func (c *ConsoleReviewer) choose(ctx context.Context, prompt string, options ...string) (string, error) {
	for {
		answer, err := c.ask(ctx, prompt)
		if err != nil {
			return "", err
		}
		folded := strings.ToLower(textutil.FoldAccents(answer))
		for _, opt := range options {
			if folded == strings.ToLower(textutil.FoldAccents(opt)) {
				return opt, nil
			}
		}
		quoted := make([]string, len(options))
		for i, opt := range options {
			quoted[i] = "'" + opt + "'"
		}
		fmt.Fprintf(c.out, "⚠️  Réponse invalide. Tapez %s.\n", strings.Join(quoted, ", "))
	}
}

func (c *ConsoleReviewer) ReviewRule(ctx context.Context, rule content.GrammarRule) (bool, error) {
	fmt.Fprintf(c.out, "\n💡 PROPOSITION DE RÈGLE DE GRAMMAIRE\n\nRègle : %s\n", rule.Rule)
	if rule.Context != "" {
		fmt.Fprintf(c.out, "Contexte : %s\n", rule.Context)
	}
	fmt.Fprintln(c.out, "\nExemples :")
	for i, opt := range rule.Options {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintf(c.out, "\n✓ Option correcte : %d\n\n", rule.Correct)
	answer, err := c.choose(ctx, "Est-ce que cette règle mérite un post ? (oui/non/autre) : ", "oui", "non", "autre")
	if err != nil {
		return false, err
	}
	return answer == "oui", nil
}

func (c *ConsoleReviewer) ReviewText(ctx context.Context, label, text string) (Review, error) {
	for {
		fmt.Fprintf(c.out, "\n%s\n📝 %s :\n\n%s\n%s\n", separator, strings.ToUpper(label), text, separator)
		answer, err := c.choose(ctx, "\nC'est bon ? (oui/modifier/régénérer) : ", "oui", "modifier", "régénérer")
		if err != nil {
			return Review{}, err
		}
		switch answer {
		case "oui":
			return Review{Verdict: VerdictAccept}, nil
		case "régénérer":
			return Review{Verdict: VerdictRegenerate}, nil
		}
		instruction, err := c.ask(ctx, "\nQu'est-ce que tu veux changer ? : ")
		if err != nil {
			return Review{}, err
		}
		if instruction != "" {
			return Review{Verdict: VerdictModify, Instruction: instruction}, nil
		}
	}
}

func (c *ConsoleReviewer) AskTitle(ctx context.Context) (string, error) {
	fmt.Fprintf(c.out, "\n%s\n", separator)
	return c.ask(ctx, "Donne un titre court pour le fichier (ex: 'la-pilule', 'monument', etc.) : ")
}

func (c *ConsoleReviewer) AskAnother(ctx context.Context) (bool, error) {
	answer, err := c.ask(ctx, "\nGénérer un autre post ? (oui/non) : ")
	if errors.Is(err, ErrInputClosed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "oui"), nil
}

// refine loops a generated text through the reviewer until it is accepted.
func (r *Runner) refine(ctx context.Context, label, text string,
	regenerate func(context.Context) (string, error),
	revise func(ctx context.Context, current, instruction string) (string, error),
) (string, error) {
	for {
		review, err := r.reviewer.ReviewText(ctx, label, text)
		if err != nil {
			return "", err
		}
		switch review.Verdict {
		case VerdictAccept:
			return text, nil
		case VerdictRegenerate:
			text, err = regenerate(ctx)
		case VerdictModify:
			text, err = revise(ctx, text, review.Instruction)
		default:
			return "", fmt.Errorf("unknown review verdict %d", review.Verdict)
		}
		if err != nil {
			return "", err
		}
	}
}
