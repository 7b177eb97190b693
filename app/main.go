package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/lysyi3m/episode-pages/app/api"
	"github.com/lysyi3m/episode-pages/app/cfg"
	"github.com/lysyi3m/episode-pages/app/database"
	"github.com/lysyi3m/episode-pages/app/locale"
	"github.com/lysyi3m/episode-pages/app/metrics"
	"github.com/lysyi3m/episode-pages/app/pagegen"
	"github.com/lysyi3m/episode-pages/app/render"
	"github.com/lysyi3m/episode-pages/app/site"
	"github.com/lysyi3m/episode-pages/app/tasks"
	"github.com/lysyi3m/episode-pages/app/upstream"
)

func main() {
	config, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if config == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if config.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting Episode Pages server", "version", config.Version)

	siteConfig, err := site.Load(config.SiteConfigPath)
	if err != nil {
		slog.Error("Failed to load site configuration", "path", config.SiteConfigPath, "error", err)
		os.Exit(1)
	}
	pageLocale := locale.Resolve(siteConfig.Locale)
	slog.Info("Site configuration loaded",
		"title", siteConfig.Title,
		"locale", pageLocale.Lang(),
		"revalidate_seconds", siteConfig.RevalidateSeconds,
		"prerender", len(siteConfig.Prerender))

	appMetrics := metrics.New()

	httpClient := &http.Client{
		Timeout: time.Duration(config.RequestTimeout) * time.Second,
	}
	client, err := upstream.NewClient(config.APIBaseURL, httpClient, upstream.Options{
		Timeout:   time.Duration(config.RequestTimeout) * time.Second,
		UserAgent: config.UserAgent,
		RateLimit: rate.Limit(config.RateLimit),
		RateBurst: config.RateBurst,
		Observer:  appMetrics,
	})
	if err != nil {
		slog.Error("Failed to create upstream client", "error", err)
		os.Exit(1)
	}

	renderer, err := render.NewRenderer(render.Options{
		SiteTitle: siteConfig.Title,
		HomeURL:   siteConfig.HomeURL,
		BaseURL:   config.BaseUrl,
	})
	if err != nil {
		slog.Error("Failed to initialize renderer", "error", err)
		os.Exit(1)
	}

	var pageRepo database.PageRepository
	switch {
	case config.RedisAddr != "":
		redisRepo, err := database.NewRedisPageRepository(database.RedisOptions{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		if err != nil {
			slog.Error("Failed to connect to Redis", "addr", config.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer redisRepo.Close()
		pageRepo = redisRepo
		slog.Info("Page cache backed by Redis", "addr", config.RedisAddr)

	case config.DBPath != "":
		db, err := database.NewConnection(config.DBPath)
		if err != nil {
			slog.Error("Failed to connect to database", "path", config.DBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pageRepo = database.NewSQLitePageRepository(db)
		slog.Info("Page cache backed by SQLite", "path", config.DBPath)

	default:
		pageRepo = database.NewMemoryPageRepository()
		slog.Info("Page cache kept in memory")
	}

	generator := pagegen.NewGenerator(client, renderer, pageRepo, pagegen.Options{
		Locale:             pageLocale,
		Location:           config.Location(),
		RevalidateInterval: siteConfig.RevalidateInterval(),
		Observer:           appMetrics,
	})

	scheduler := tasks.NewScheduler(generator, tasks.Options{
		WorkerCount: config.WorkerCount,
		Prerender:   siteConfig.Prerender,
		Observer:    appMetrics,
	})
	generator.SetRevalidator(scheduler)

	slog.Info("Starting background workers", "count", config.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(generator, pageRepo, renderer, scheduler, config.Version)
	server := api.NewServer(handler, config.APIAccessKey, appMetrics.Handler())

	httpServer := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", config.Port, "base_url", config.BaseUrl)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Episode Pages server shutdown complete")
}
