package api

import (
	"context"
	"time"

	"github.com/lysyi3m/episode-pages/app/database"
	"github.com/lysyi3m/episode-pages/app/locale"
	"github.com/lysyi3m/episode-pages/app/pagegen"
	"github.com/lysyi3m/episode-pages/app/render"
	"github.com/lysyi3m/episode-pages/app/tasks"
)

type PageServerInterface interface {
	Serve(ctx context.Context, slug string) pagegen.Result
	Revalidate(slug string) error
	Locale() locale.Locale
	RevalidateInterval() time.Duration
}

var _ PageServerInterface = (*pagegen.Generator)(nil)

type Handler struct {
	pages     PageServerInterface
	pageRepo  database.PageRepository
	renderer  *render.Renderer
	scheduler tasks.TaskSchedulerInterface
	version   string
	startedAt time.Time
}
