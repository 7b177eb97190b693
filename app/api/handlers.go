package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/episode-pages/app/database"
	"github.com/lysyi3m/episode-pages/app/pagegen"
	"github.com/lysyi3m/episode-pages/app/render"
	"github.com/lysyi3m/episode-pages/app/tasks"
)

func NewHandler(pages PageServerInterface, pageRepo database.PageRepository,
	renderer *render.Renderer, scheduler tasks.TaskSchedulerInterface, version string) *Handler {
	return &Handler{
		pages:     pages,
		pageRepo:  pageRepo,
		renderer:  renderer,
		scheduler: scheduler,
		version:   version,
		startedAt: time.Now(),
	}
}

func (h *Handler) GetEpisodePage(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	result := h.pages.Serve(c.Request.Context(), slug)

	switch result.Outcome {
	case pagegen.OutcomeOK:
		page := result.Page
		etag := fmt.Sprintf("%q", page.ContentHash)

		c.Header("Cache-Control", h.cacheControl())
		c.Header("X-Cache", string(result.Cache))
		c.Header("ETag", etag)
		c.Header("Last-Modified", page.GeneratedAt.UTC().Format(http.TimeFormat))

		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}

		c.Data(http.StatusOK, "text/html; charset=utf-8", page.HTML)

	case pagegen.OutcomeNotFound:
		h.renderStatusPage(c, http.StatusNotFound, result.Cache)

	default:
		slog.Error("Page generation failed", "slug", slug, "error", result.Err)
		h.renderStatusPage(c, http.StatusBadGateway, result.Cache)
	}
}

func (h *Handler) renderStatusPage(c *gin.Context, status int, cache pagegen.CacheStatus) {
	l := h.pages.Locale()

	var (
		body []byte
		err  error
	)
	if status == http.StatusNotFound {
		body, err = h.renderer.NotFound(l)
	} else {
		body, err = h.renderer.Unavailable(l)
	}
	if err != nil {
		slog.Error("Page rendering error", "status", status, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Cache-Control", "no-cache")
	if cache != "" {
		c.Header("X-Cache", string(cache))
	}
	c.Data(status, "text/html; charset=utf-8", body)
}

func (h *Handler) cacheControl() string {
	seconds := int(h.pages.RevalidateInterval() / time.Second)
	return fmt.Sprintf("s-maxage=%d, stale-while-revalidate", seconds)
}

func (h *Handler) APIGetEpisode(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing episode slug parameter"})
		return
	}

	result := h.pages.Serve(c.Request.Context(), slug)

	switch result.Outcome {
	case pagegen.OutcomeOK:
		c.Header("Cache-Control", h.cacheControl())
		c.Header("X-Cache", string(result.Cache))
		c.JSON(http.StatusOK, gin.H{
			"episode":       result.Page.Episode,
			"generated_at":  result.Page.GeneratedAt,
			"revalidate_at": result.Page.RevalidateAt,
		})

	case pagegen.OutcomeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Episode not found"})

	default:
		slog.Error("Page generation failed", "slug", slug, "error", result.Err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Episode API unavailable"})
	}
}

func (h *Handler) APIRevalidateEpisode(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing episode slug parameter"})
		return
	}

	if err := h.pages.Revalidate(slug); err != nil {
		slog.Error("Error enqueueing regeneration", "slug", slug, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue regeneration",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Regeneration enqueued",
		"slug":    slug,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if pageCount, err := h.pageRepo.GetPageCount(); err == nil {
		health["pages"] = pageCount
	} else {
		slog.Error("Database error", "operation", "get_page_count", "error", err)
		health["status"] = "degraded"
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"version":            h.version,
		"uptime":             time.Since(h.startedAt).Round(time.Second).String(),
		"locale":             h.pages.Locale().Lang(),
		"revalidate_seconds": int(h.pages.RevalidateInterval() / time.Second),
	}

	if pageCount, err := h.pageRepo.GetPageCount(); err == nil {
		stats["pages"] = pageCount
	}
	if staleCount, err := h.pageRepo.GetStalePageCount(time.Now()); err == nil {
		stats["stale_pages"] = staleCount
	}
	if h.scheduler != nil {
		stats["queue_length"] = h.scheduler.QueueLength()
	}

	c.JSON(http.StatusOK, stats)
}
