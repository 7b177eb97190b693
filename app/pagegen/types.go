package pagegen

import (
	"context"

	"github.com/lysyi3m/episode-pages/app/database"
	"github.com/lysyi3m/episode-pages/app/episode"
)

type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeNotFound      Outcome = "not_found"
	OutcomeUpstreamError Outcome = "upstream_error"
)

type CacheStatus string

const (
	CacheHit   CacheStatus = "HIT"
	CacheStale CacheStatus = "STALE"
	CacheMiss  CacheStatus = "MISS"
)

// Result is the outcome of serving or generating one page. Page is set
// whenever there is something to serve, including a stale page.
type Result struct {
	Outcome Outcome
	Cache   CacheStatus
	Page    *database.Page
	Err     error
}

type EpisodeFetcher interface {
	GetEpisode(ctx context.Context, slug string) (episode.RawEpisode, error)
}

// Revalidator queues a background regeneration for a slug.
type Revalidator interface {
	EnqueueRegeneration(slug string) error
}

type Observer interface {
	ObserveGeneration(outcome string)
	ObserveCacheLookup(result string)
}
