package content

import (
	"context"

	"subpost/internal/services/llm"
)

type revisePrompt struct {
	Current     string
	Instruction string
}

// AnalyzeMeme writes the translation and joke explanation for a meme image.
func (p *Pipeline) AnalyzeMeme(ctx context.Context, img llm.Image) (string, error) {
	return p.generate(ctx, "analyze meme", llm.Request{
		Model:       p.models.Precise,
		System:      systemMemeAnalyst,
		Images:      []llm.Image{img},
		Temperature: llm.Temperature(0),
	}, "meme_analyze", nil)
}

// ReviseMeme rewrites a meme description following an operator instruction.
func (p *Pipeline) ReviseMeme(ctx context.Context, current, instruction string) (string, error) {
	return p.generate(ctx, "revise meme", llm.Request{
		Model:       p.models.Precise,
		System:      systemMemeRevise,
		Temperature: llm.Temperature(0),
	}, "meme_revise", revisePrompt{Current: current, Instruction: instruction})
}
