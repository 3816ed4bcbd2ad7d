package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"subpost/internal/config"
	"subpost/internal/content"
	"subpost/internal/fileutil"
	"subpost/internal/imaging"
	"subpost/internal/logging"
	"subpost/internal/page"
	"subpost/internal/services"
	"subpost/internal/services/llm"
	"subpost/internal/textutil"
	"subpost/internal/tracker"
)

// VocabRequest names the target and the two source screenshots of a vocab
// post.
type VocabRequest struct {
	Target string
	Kind   content.TargetKind
	Images [2]string
}

type vocabScene struct {
	source     string
	image      llm.Image
	title      string
	subtitle   string
	translated string
	redacted   string
}

// Vocab generates a word or expression post.
func (r *Runner) Vocab(ctx context.Context, req VocabRequest) (result Result, err error) {
	target := strings.TrimSpace(req.Target)
	if target == "" {
		return Result{}, services.Wrap(services.ErrValidation, config.KindVocab, "", "target word or expression is required", nil)
	}
	if _, err := content.ParseTargetKind(string(req.Kind)); err != nil {
		return Result{}, err
	}
	rn, err := r.begin(ctx, config.KindVocab)
	if err != nil {
		return Result{}, err
	}
	defer func() { r.finish(rn, err) }()
	ctx = rn.ctx

	var scenes [2]vocabScene
	for i, path := range req.Images {
		img, err := llm.LoadImage(path)
		if err != nil {
			return Result{}, services.Wrap(services.ErrNotFound, "load image", "", path, err)
		}
		scenes[i] = vocabScene{source: path, image: img}
	}
	for i := range scenes {
		scenes[i].title = r.pipeline.ExtractSourceTitle(ctx, scenes[i].image)
	}
	for i := range scenes {
		if scenes[i].subtitle, err = r.pipeline.ExtractSubtitle(ctx, scenes[i].image); err != nil {
			return Result{}, err
		}
	}
	style := content.TranslationStyle(r.cfg.Vocab.TranslationStyle)
	for i := range scenes {
		if scenes[i].translated, err = r.pipeline.Translate(ctx, scenes[i].subtitle, style); err != nil {
			return Result{}, err
		}
	}
	for i := range scenes {
		s := &scenes[i]
		if s.redacted, err = r.pipeline.Redact(ctx, s.subtitle, s.translated, target, req.Kind); err != nil {
			return Result{}, err
		}
		if r.cfg.Vocab.VerifyRedaction {
			r.pipeline.ReportMask(ctx, s.translated, s.redacted)
		}
	}
	explanation, err := r.pipeline.Explain(ctx, target, req.Kind)
	if err != nil {
		return Result{}, err
	}
	explanation = content.BoldFirstSentence(explanation)

	slug := textutil.Slugify(target, "post")
	postsDir := r.cfg.Paths.PostsDir
	pagePath := filepath.Join(postsDir, fmt.Sprintf("%s-%s.html", slug, rn.date))
	result = Result{Kind: config.KindVocab, Title: target, Path: pagePath}

	var pageScenes [2]page.Scene
	for i, s := range scenes {
		dst := filepath.Join(r.cfg.Paths.ImagesDir, fmt.Sprintf("%s-%s-scene%d.png", slug, rn.date, i+1))
		if _, err := imaging.CropBottom(rn.logger, s.source, dst, r.cfg.Images.CropBottomPx); err != nil {
			return Result{}, services.Wrap(services.ErrExternal, "prepare image", "", s.source, err)
		}
		rn.written = append(rn.written, dst)
		result.Images = append(result.Images, dst)
		pageScenes[i] = page.Scene{
			ImagePath:   relativeTo(postsDir, dst),
			SourceTitle: s.title,
			Translation: s.translated,
			Redacted:    s.redacted,
		}
	}

	board, links, err := r.board(rn, r.cfg.Publish.Vocab, linkTitle(target))
	if err != nil {
		return Result{}, err
	}
	result.Links = links

	html, err := page.RenderVocab(page.Vocab{
		Frame:       r.frame(tracker.StorageKey(target, rn.date), board),
		Target:      target,
		Scenes:      pageScenes,
		Explanation: explanation,
	})
	if err != nil {
		return Result{}, err
	}
	if err := r.writePage(rn, pagePath, html); err != nil {
		return Result{}, err
	}

	if r.cfg.Images.DeleteSources {
		for _, s := range scenes {
			if rmErr := fileutil.RemoveIfExists(s.source); rmErr != nil {
				logging.WarnDegraded(rn.logger, "source image not deleted", "source_cleanup_failed",
					logging.String("path", s.source), logging.Error(rmErr))
			}
		}
	}
	return result, nil
}
