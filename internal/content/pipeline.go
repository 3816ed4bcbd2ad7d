package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"subpost/internal/logging"
	"subpost/internal/services"
	"subpost/internal/services/llm"
)

// Generator is the text/vision model capability the pipeline consumes.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

// Models names the model used for each class of request.
type Models struct {
	// Vision reads subtitles and source titles off screenshots.
	Vision string
	// Text handles translation and explanations.
	Text string
	// Precise handles redaction and meme analysis.
	Precise string
	// Creative proposes grammar rules.
	Creative string
}

const defaultProposalAttempts = 3

// Pipeline runs the individual content steps against a Generator. Every
// step is one blocking request; nothing is cached or retried.
type Pipeline struct {
	gen              Generator
	models           Models
	logger           *slog.Logger
	proposalAttempts int
}

// Option customizes the pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithProposalAttempts bounds how many unparseable grammar proposals are
// tolerated before giving up.
func WithProposalAttempts(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.proposalAttempts = n
		}
	}
}

// New constructs a pipeline.
func New(gen Generator, models Models, opts ...Option) *Pipeline {
	p := &Pipeline{
		gen:              gen,
		models:           models,
		logger:           logging.NewNop(),
		proposalAttempts: defaultProposalAttempts,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "content")
	return p
}

func (p *Pipeline) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, p.logger)
}

// generate renders the named prompt and sends it. Empty replies are errors.
func (p *Pipeline) generate(ctx context.Context, step string, req llm.Request, prompt string, data any) (string, error) {
	text, err := renderPrompt(prompt, data)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, step, "render prompt", prompt, err)
	}
	req.Prompt = text
	reply, err := p.gen.Generate(services.WithStep(ctx, step), req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", step, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", services.Wrap(services.ErrEmptyResponse, step, "generate", "model returned no text", nil)
	}
	return reply, nil
}
