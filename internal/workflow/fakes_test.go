package workflow

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"subpost/internal/config"
	"subpost/internal/content"
	"subpost/internal/services/llm"
	"subpost/internal/services/shortlink"
	"subpost/internal/textutil"
)

// fakeGenerator answers by matching a distinctive phrase of each prompt.
type fakeGenerator struct {
	mu       sync.Mutex
	replies  map[string][]string
	failOn   string
	requests []llm.Request
}

func newFakeGenerator(replies map[string][]string) *fakeGenerator {
	return &fakeGenerator{replies: replies}
}

func (g *fakeGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	for marker, queue := range g.replies {
		if !strings.Contains(req.Prompt, marker) {
			continue
		}
		if g.failOn == marker {
			return "", errors.New("model unavailable")
		}
		if len(queue) == 0 {
			return "", nil
		}
		reply := queue[0]
		if len(queue) > 1 {
			g.replies[marker] = queue[1:]
		}
		return reply, nil
	}
	return "", errors.New("unexpected prompt: " + textutil.Snippet(req.Prompt, 60))
}

func (g *fakeGenerator) prompts(marker string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, req := range g.requests {
		if strings.Contains(req.Prompt, marker) {
			out = append(out, req.Prompt)
		}
	}
	return out
}

const (
	markerSourceTitle = "movie title"
	markerSubtitle    = "texte français des sous-titres"
	markerTranslate   = "Traduis cette phrase"
	markerRedact      = "cacher la partie"
	markerExplain     = "Explique en anglais"
	markerPropose     = "Propose UNE règle"
	markerGrammarExpl = "explication pédagogique"
	markerGrammarRev  = "L'utilisateur demande"
	markerMeme        = "Analyze this French meme"
	markerMemeRevise  = "The user requests"
)

func vocabReplies() map[string][]string {
	return map[string][]string{
		markerSourceTitle: {"Amélie (2001)"},
		markerSubtitle:    {`"Il pleut"`},
		markerTranslate:   {"It rains"},
		markerRedact:      {"It _____"},
		markerExplain:     {`"Pleuvoir" means "to rain". It is impersonal.`},
	}
}

type recordingCreator struct {
	mu     sync.Mutex
	titles []string
}

func (c *recordingCreator) Create(_ context.Context, title string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.titles = append(c.titles, title)
	return "https://ablink.io/" + textutil.Slugify(title, "x"), nil
}

// scriptedReviewer replays fixed answers.
type scriptedReviewer struct {
	rules   []bool
	texts   []Review
	title   string
	another []bool
	seen    []string
}

func (s *scriptedReviewer) ReviewRule(_ context.Context, rule content.GrammarRule) (bool, error) {
	s.seen = append(s.seen, rule.Rule)
	if len(s.rules) == 0 {
		return true, nil
	}
	ok := s.rules[0]
	s.rules = s.rules[1:]
	return ok, nil
}

func (s *scriptedReviewer) ReviewText(_ context.Context, _ string, text string) (Review, error) {
	s.seen = append(s.seen, text)
	if len(s.texts) == 0 {
		return Review{Verdict: VerdictAccept}, nil
	}
	review := s.texts[0]
	s.texts = s.texts[1:]
	return review, nil
}

func (s *scriptedReviewer) AskTitle(context.Context) (string, error) { return s.title, nil }

func (s *scriptedReviewer) AskAnother(context.Context) (bool, error) {
	if len(s.another) == 0 {
		return false, nil
	}
	more := s.another[0]
	s.another = s.another[1:]
	return more, nil
}

var fixedNow = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }

func testRunner(cfg *config.Config, gen content.Generator, creator shortlink.Creator, opts ...Option) *Runner {
	opts = append([]Option{WithClock(fixedNow), WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	return New(cfg, gen, creator, opts...)
}
