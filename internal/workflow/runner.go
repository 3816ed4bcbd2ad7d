package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"subpost/internal/config"
	"subpost/internal/content"
	"subpost/internal/fileutil"
	"subpost/internal/logging"
	"subpost/internal/page"
	"subpost/internal/services"
	"subpost/internal/services/shortlink"
	"subpost/internal/tracker"
)

const dateLayout = "2006-01-02"

// Link is the short link created for one destination.
type Link struct {
	Destination string
	URL         string
	Placeholder bool
}

// Result describes the files one generated post produced.
type Result struct {
	Kind   string
	Title  string
	Path   string
	Images []string
	Links  []Link
}

// Degraded reports whether any link fell back to a placeholder.
func (r Result) Degraded() bool {
	for _, l := range r.Links {
		if l.Placeholder {
			return true
		}
	}
	return false
}

// Runner executes post generation runs.
type Runner struct {
	cfg      *config.Config
	gen      content.Generator
	pipeline *content.Pipeline
	links    shortlink.Creator
	reviewer Reviewer
	logger   *slog.Logger
	now      func() time.Time
	perm     func(n int) []int
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithReviewer sets the decision maker for interactive steps. The default
// accepts every proposal.
func WithReviewer(reviewer Reviewer) Option {
	return func(r *Runner) {
		if reviewer != nil {
			r.reviewer = reviewer
		}
	}
}

// WithClock overrides the time source used for file dates.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRand sets the random source used to assign postscripts.
func WithRand(rng *rand.Rand) Option {
	return func(r *Runner) {
		if rng != nil {
			r.perm = rng.Perm
		}
	}
}

// New constructs a Runner over a generator and a short-link creator.
func New(cfg *config.Config, gen content.Generator, links shortlink.Creator, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		gen:      gen,
		links:    links,
		reviewer: AutoReviewer{},
		logger:   logging.NewNop(),
		now:      time.Now,
		perm:     rand.Perm,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "workflow")
	r.pipeline = content.New(gen, content.Models{
		Vision:   cfg.LLM.VisionModel,
		Text:     cfg.LLM.TextModel,
		Precise:  cfg.LLM.PreciseModel,
		Creative: cfg.LLM.CreativeModel,
	}, content.WithLogger(r.logger), content.WithProposalAttempts(cfg.Grammar.MaxProposalAttempts))
	return r
}

// run is the per-invocation state shared by the steps of one post.
type run struct {
	ctx     context.Context
	logger  *slog.Logger
	date    string
	lock    *fileutil.DirLock
	written []string
}

// begin checks credentials, prepares output directories, and takes the
// posts directory lock.
func (r *Runner) begin(ctx context.Context, kind string) (*run, error) {
	if err := r.cfg.RequireLLM(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, kind, "credentials", "", err)
	}
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, kind, "prepare directories", "", err)
	}
	lock, err := fileutil.Lock(r.cfg.Paths.PostsDir)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, kind, "lock posts directory", "", err)
	}
	ctx = services.WithRunID(ctx, uuid.NewString())
	ctx = services.WithKind(ctx, kind)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("run started", logging.String(logging.FieldEventType, "run_start"))
	return &run{
		ctx:    ctx,
		logger: logger,
		date:   r.now().Format(dateLayout),
		lock:   lock,
	}, nil
}

// finish releases the lock. When the run failed, files it already wrote are
// removed so a fatal error leaves no partial output.
func (r *Runner) finish(rn *run, err error) {
	if err != nil {
		for _, path := range rn.written {
			if rmErr := fileutil.RemoveIfExists(path); rmErr != nil {
				rn.logger.Warn("failed to remove partial output", logging.String("path", path), logging.Error(rmErr))
			}
		}
		rn.logger.Error("run failed", logging.Error(err), logging.String(logging.FieldEventType, "run_failed"))
	}
	if unlockErr := rn.lock.Unlock(); unlockErr != nil {
		rn.logger.Warn("failed to release posts lock", logging.Error(unlockErr))
	}
}

// postscripts draws one postscript per destination without replacement.
func (r *Runner) postscripts(n int) ([]string, error) {
	pool := r.cfg.Publish.Postscripts
	if n > len(pool) {
		return nil, services.Wrap(services.ErrConfiguration, "postscripts", "", fmt.Sprintf("need %d postscripts, pool has %d", n, len(pool)), nil)
	}
	order := r.perm(len(pool))
	out := make([]string, n)
	for i := range n {
		out[i] = pool[order[i]]
	}
	return out, nil
}

// board creates a short link per destination and binds it into that
// destination's postscript.
func (r *Runner) board(rn *run, channel config.Channel, title func(config.Destination) string) (tracker.Board, []Link, error) {
	pool, err := r.postscripts(len(channel.Destinations))
	if err != nil {
		return tracker.Board{}, nil, err
	}
	board := tracker.Board{PromoLine: channel.PromoLine}
	links := make([]Link, 0, len(channel.Destinations))
	for i, dest := range channel.Destinations {
		url := shortlink.Link(services.WithStep(rn.ctx, "shortlink"), r.links, r.logger, title(dest))
		links = append(links, Link{Destination: dest.Name, URL: url, Placeholder: shortlink.IsPlaceholder(url)})
		board.Destinations = append(board.Destinations, tracker.Destination{Name: dest.Name, URL: dest.URL})
		board.Postscripts = append(board.Postscripts, content.LinkPostscript(pool[i], url))
	}
	return board, links, nil
}

func (r *Runner) frame(storageKey string, board tracker.Board) page.Frame {
	return page.Frame{StorageKey: storageKey, Board: board, Signature: r.cfg.Publish.Signature}
}

// writePage atomically writes a rendered page and records it for cleanup.
func (r *Runner) writePage(rn *run, path string, html []byte) error {
	if err := fileutil.WriteFileAtomic(path, html, 0o644); err != nil {
		return services.Wrap(services.ErrExternal, "write page", "", path, err)
	}
	rn.written = append(rn.written, path)
	rn.logger.Info("page written", logging.String("path", path), logging.String(logging.FieldEventType, "page_written"))
	return nil
}

// relativeTo returns target relative to the directory dir, with forward
// slashes for use in HTML.
func relativeTo(dir, target string) string {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

func linkTitle(subject string) func(config.Destination) string {
	return func(dest config.Destination) string {
		return strings.TrimSpace(subject) + " - " + dest.Name
	}
}
