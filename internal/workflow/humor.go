package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subpost/internal/config"
	"subpost/internal/fileutil"
	"subpost/internal/page"
	"subpost/internal/services"
	"subpost/internal/services/llm"
	"subpost/internal/textutil"
	"subpost/internal/tracker"
)

const humorFallbackSlug = "humor-post"

// HumorRequest names the meme image and, optionally, its short title. An
// empty title is asked from the reviewer after the description is settled.
type HumorRequest struct {
	Image string
	Title string
}

// Humor generates a meme explanation post.
func (r *Runner) Humor(ctx context.Context, req HumorRequest) (result Result, err error) {
	rn, err := r.begin(ctx, config.KindHumor)
	if err != nil {
		return Result{}, err
	}
	defer func() { r.finish(rn, err) }()
	ctx = rn.ctx

	img, err := llm.LoadImage(req.Image)
	if err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "load image", "", req.Image, err)
	}
	description, err := r.pipeline.AnalyzeMeme(ctx, img)
	if err != nil {
		return Result{}, err
	}
	description, err = r.refine(ctx, "description générée", description,
		func(ctx context.Context) (string, error) { return r.pipeline.AnalyzeMeme(ctx, img) },
		r.pipeline.ReviseMeme,
	)
	if err != nil {
		return Result{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		if title, err = r.reviewer.AskTitle(ctx); err != nil {
			return Result{}, err
		}
		title = strings.TrimSpace(title)
	}
	slug := textutil.Slugify(title, humorFallbackSlug)

	imageDst := filepath.Join(r.cfg.Paths.ImagesDir, config.KindHumor,
		fmt.Sprintf("%s-%s%s", slug, rn.date, strings.ToLower(filepath.Ext(req.Image))))
	if err := os.MkdirAll(filepath.Dir(imageDst), 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrExternal, "copy image", "", imageDst, err)
	}
	if err := fileutil.CopyFile(req.Image, imageDst); err != nil {
		return Result{}, services.Wrap(services.ErrExternal, "copy image", "", req.Image, err)
	}
	rn.written = append(rn.written, imageDst)

	pagePath := filepath.Join(r.cfg.Paths.PostsDir, config.KindHumor, fmt.Sprintf("%s-%s.html", slug, rn.date))
	result = Result{Kind: config.KindHumor, Title: title, Path: pagePath, Images: []string{imageDst}}

	board, links, err := r.board(rn, r.cfg.Publish.Humor, linkTitle("Humor "+slug))
	if err != nil {
		return Result{}, err
	}
	result.Links = links

	html, err := page.RenderHumor(page.Humor{
		Frame:       r.frame(tracker.StorageKey(config.KindHumor, slug, rn.date), board),
		Title:       title,
		ImagePath:   relativeTo(filepath.Dir(pagePath), imageDst),
		Description: description,
	})
	if err != nil {
		return Result{}, err
	}
	if err := r.writePage(rn, pagePath, html); err != nil {
		return Result{}, err
	}
	return result, nil
}
