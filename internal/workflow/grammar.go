package workflow

import (
	"context"
	"fmt"
	"path/filepath"

	"subpost/internal/config"
	"subpost/internal/content"
	"subpost/internal/logging"
	"subpost/internal/page"
	"subpost/internal/textutil"
	"subpost/internal/tracker"
)

// Grammar runs the grammar quiz loop: propose a rule, let the reviewer
// accept it or ask for another, refine the explanation, write the page, and
// repeat while the reviewer wants more posts.
func (r *Runner) Grammar(ctx context.Context) ([]Result, error) {
	var results []Result
	for {
		result, err := r.grammarPost(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		more, err := r.reviewer.AskAnother(ctx)
		if err != nil {
			return results, err
		}
		if !more {
			return results, nil
		}
	}
}

func (r *Runner) grammarPost(ctx context.Context) (result Result, err error) {
	rn, err := r.begin(ctx, config.KindGrammar)
	if err != nil {
		return Result{}, err
	}
	defer func() { r.finish(rn, err) }()
	ctx = rn.ctx

	var (
		rule     content.GrammarRule
		rejected []string
	)
	for {
		if rule, err = r.pipeline.ProposeGrammarRule(ctx, rejected); err != nil {
			return Result{}, err
		}
		ok, err := r.reviewer.ReviewRule(ctx, rule)
		if err != nil {
			return Result{}, err
		}
		if ok {
			break
		}
		rn.logger.Info("grammar rule rejected", logging.String("rule", rule.Rule))
		rejected = append(rejected, rule.Rule)
	}

	explanation, err := r.pipeline.ExplainGrammar(ctx, rule)
	if err != nil {
		return Result{}, err
	}
	explanation, err = r.refine(ctx, "explication générée", explanation,
		func(ctx context.Context) (string, error) { return r.pipeline.ExplainGrammar(ctx, rule) },
		r.pipeline.ReviseGrammar,
	)
	if err != nil {
		return Result{}, err
	}

	slug := textutil.Slugify(rule.Rule, "grammar-post")
	pagePath := filepath.Join(r.cfg.Paths.PostsDir, config.KindGrammar, fmt.Sprintf("%s-%s.html", slug, rn.date))
	result = Result{Kind: config.KindGrammar, Title: rule.Rule, Path: pagePath}

	board, links, err := r.board(rn, r.cfg.Publish.Grammar, linkTitle(rule.Rule))
	if err != nil {
		return Result{}, err
	}
	result.Links = links

	html, err := page.RenderGrammar(page.Grammar{
		Frame:       r.frame(tracker.StorageKey(config.KindGrammar, slug, rn.date), board),
		Rule:        rule.Rule,
		Options:     rule.Options,
		Explanation: explanation,
	})
	if err != nil {
		return Result{}, err
	}
	if err := r.writePage(rn, pagePath, html); err != nil {
		return Result{}, err
	}
	return result, nil
}
