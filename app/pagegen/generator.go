package pagegen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lysyi3m/episode-pages/app/database"
	"github.com/lysyi3m/episode-pages/app/episode"
	"github.com/lysyi3m/episode-pages/app/locale"
	"github.com/lysyi3m/episode-pages/app/render"
	"github.com/lysyi3m/episode-pages/app/upstream"
)

const DefaultRevalidateInterval = 24 * time.Hour

type Options struct {
	Locale             locale.Locale
	Location           *time.Location
	RevalidateInterval time.Duration
	Observer           Observer
	Now                func() time.Time
}

type Generator struct {
	fetcher  EpisodeFetcher
	renderer *render.Renderer
	repo     database.PageRepository
	opts     Options

	group singleflight.Group

	mu          sync.Mutex
	pending     map[string]struct{}
	revalidator Revalidator
}

func NewGenerator(fetcher EpisodeFetcher, renderer *render.Renderer, repo database.PageRepository, opts Options) *Generator {
	if opts.RevalidateInterval <= 0 {
		opts.RevalidateInterval = DefaultRevalidateInterval
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Locale.Months[0] == "" {
		opts.Locale = locale.English
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Generator{
		fetcher:  fetcher,
		renderer: renderer,
		repo:     repo,
		opts:     opts,
		pending:  make(map[string]struct{}),
	}
}

// SetRevalidator wires the background queue used for stale pages.
// Without one, stale pages are regenerated in a goroutine.
func (g *Generator) SetRevalidator(revalidator Revalidator) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.revalidator = revalidator
}

func (g *Generator) Locale() locale.Locale {
	return g.opts.Locale
}

func (g *Generator) RevalidateInterval() time.Duration {
	return g.opts.RevalidateInterval
}

// Serve returns the cached page for slug, generating it on a miss and
// scheduling a background regeneration when it is stale.
func (g *Generator) Serve(ctx context.Context, slug string) Result {
	page, err := g.repo.GetPage(slug)
	if err != nil {
		slog.Error("Database error", "operation", "get_page", "slug", slug, "error", err)
		page = nil
	}

	if page != nil {
		if !page.IsStale(g.opts.Now()) {
			g.observeCacheLookup(CacheHit)
			return Result{Outcome: OutcomeOK, Cache: CacheHit, Page: page}
		}

		g.observeCacheLookup(CacheStale)
		g.scheduleRegeneration(slug)
		return Result{Outcome: OutcomeOK, Cache: CacheStale, Page: page}
	}

	g.observeCacheLookup(CacheMiss)
	result := g.Generate(ctx, slug)
	result.Cache = CacheMiss
	return result
}

// Generate fetches, transforms, renders and stores the page for slug.
// Concurrent calls for the same slug share one generation.
func (g *Generator) Generate(ctx context.Context, slug string) Result {
	// The shared generation must not fail because the first caller went away
	ctx = context.WithoutCancel(ctx)

	value, _, _ := g.group.Do(slug, func() (any, error) {
		result := g.generate(ctx, slug)
		g.observeGeneration(result.Outcome)
		return result, nil
	})

	result := value.(Result)
	if result.Page != nil {
		page := *result.Page
		result.Page = &page
	}
	return result
}

func (g *Generator) generate(ctx context.Context, slug string) Result {
	start := g.opts.Now()

	raw, err := g.fetcher.GetEpisode(ctx, slug)
	if errors.Is(err, upstream.ErrNotFound) {
		slog.Info("Episode not found upstream", "slug", slug)
		if err := g.repo.DeletePage(slug); err != nil {
			slog.Error("Database error", "operation", "delete_page", "slug", slug, "error", err)
		}
		return Result{Outcome: OutcomeNotFound, Err: err}
	}
	if err != nil {
		slog.Error("Failed to fetch episode", "slug", slug, "error", err)
		return Result{Outcome: OutcomeUpstreamError, Err: fmt.Errorf("failed to fetch episode: %w", err)}
	}

	ep, err := episode.Transform(raw, episode.TransformOptions{
		Locale:   g.opts.Locale,
		Location: g.opts.Location,
	})
	if err != nil {
		slog.Error("Malformed episode from upstream", "slug", slug, "error", err)
		return Result{Outcome: OutcomeUpstreamError, Err: fmt.Errorf("failed to transform episode: %w", err)}
	}

	html, err := g.renderer.Episode(slug, ep, g.opts.Locale)
	if err != nil {
		slog.Error("Page rendering error", "slug", slug, "error", err)
		return Result{Outcome: OutcomeUpstreamError, Err: fmt.Errorf("failed to render page: %w", err)}
	}

	now := g.opts.Now().UTC()
	page := database.Page{
		Slug:         slug,
		Episode:      ep,
		HTML:         html,
		ContentHash:  contentHash(html),
		GeneratedAt:  now,
		RevalidateAt: now.Add(g.opts.RevalidateInterval),
	}

	if err := g.repo.UpsertPage(page); err != nil {
		slog.Error("Database error", "operation", "upsert_page", "slug", slug, "error", err)
	}

	slog.Info("Page generated",
		"slug", slug,
		"duration", g.opts.Now().Sub(start),
		"bytes", len(html),
		"revalidate_at", page.RevalidateAt)

	return Result{Outcome: OutcomeOK, Page: &page}
}

// Regenerate rebuilds the page in the background. Upstream failures are
// returned so the caller can retry; the stale page stays in place and the
// slug stays pending until Abandon is called.
func (g *Generator) Regenerate(ctx context.Context, slug string) error {
	result := g.Generate(ctx, slug)
	switch result.Outcome {
	case OutcomeOK, OutcomeNotFound:
		g.clearPending(slug)
		return nil
	default:
		return result.Err
	}
}

// Abandon releases a slug whose regeneration will not be retried.
func (g *Generator) Abandon(slug string) {
	slog.Warn("Regeneration abandoned", "slug", slug)
	g.clearPending(slug)
}

// Revalidate queues a regeneration for slug regardless of freshness.
func (g *Generator) Revalidate(slug string) error {
	if !g.markPending(slug) {
		return nil
	}

	revalidator := g.getRevalidator()
	if revalidator == nil {
		go func() {
			if err := g.Regenerate(context.Background(), slug); err != nil {
				g.Abandon(slug)
			}
		}()
		return nil
	}

	if err := revalidator.EnqueueRegeneration(slug); err != nil {
		g.clearPending(slug)
		return fmt.Errorf("failed to enqueue regeneration: %w", err)
	}
	return nil
}

func (g *Generator) scheduleRegeneration(slug string) {
	if err := g.Revalidate(slug); err != nil {
		slog.Warn("Failed to schedule regeneration", "slug", slug, "error", err)
	}
}

func (g *Generator) markPending(slug string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.pending[slug]; ok {
		return false
	}
	g.pending[slug] = struct{}{}
	return true
}

func (g *Generator) clearPending(slug string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, slug)
}

func (g *Generator) getRevalidator() Revalidator {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.revalidator
}

func (g *Generator) observeGeneration(outcome Outcome) {
	if g.opts.Observer != nil {
		g.opts.Observer.ObserveGeneration(string(outcome))
	}
}

func (g *Generator) observeCacheLookup(status CacheStatus) {
	if g.opts.Observer != nil {
		g.opts.Observer.ObserveCacheLookup(strings.ToLower(string(status)))
	}
}

func contentHash(html []byte) string {
	sum := sha256.Sum256(html)
	return hex.EncodeToString(sum[:])
}
