package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Upstream configuration
	APIBaseURL     string  `long:"api-base-url" env:"API_BASE_URL" description:"Base URL of the upstream episode API (e.g., https://api.example.com)"`
	RequestTimeout int     `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"10" description:"Upstream request timeout in seconds"`
	RateLimit      float64 `long:"rate-limit" env:"RATE_LIMIT" default:"10" description:"Maximum upstream requests per second (0 disables limiting)"`
	RateBurst      int     `long:"rate-burst" env:"RATE_BURST" default:"20" description:"Upstream request burst size"`

	// Application configuration
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl        string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://podcast.example.com)"`
	SiteConfigPath string `long:"site-config" env:"SITE_CONFIG" default:"./site.yml" description:"Path to the YAML site configuration (optional)"`
	DBPath         string `long:"db-path" env:"DB_PATH" description:"SQLite file for the page cache (in-memory cache when empty)"`
	RedisAddr      string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for a page cache shared between instances (e.g., localhost:6379)"`
	RedisPassword  string `long:"redis-password" env:"REDIS_PASSWORD" description:"Redis password (optional)"`
	RedisDB        int    `long:"redis-db" env:"REDIS_DB" default:"0" description:"Redis database number"`
	WorkerCount    int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for page regeneration"`
	APIAccessKey   string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for on-demand revalidation (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Episode Pages/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for publish dates (e.g., UTC, America/Sao_Paulo)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses the given arguments instead of os.Args when args is non-nil.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.APIBaseURL == "" {
		return nil, fmt.Errorf("API base URL is required (--api-base-url or API_BASE_URL)")
	}
	if raw.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", raw.WorkerCount)
	}
	if raw.DBPath != "" && raw.RedisAddr != "" {
		return nil, fmt.Errorf("only one page cache backend can be configured (--db-path or --redis-addr)")
	}
	if raw.RequestTimeout < 1 {
		return nil, fmt.Errorf("request timeout must be at least 1 second, got %d", raw.RequestTimeout)
	}

	cfg := &Cfg{
		APIBaseURL:     raw.APIBaseURL,
		RequestTimeout: raw.RequestTimeout,
		RateLimit:      raw.RateLimit,
		RateBurst:      raw.RateBurst,
		Port:           raw.Port,
		BaseUrl:        raw.BaseUrl,
		SiteConfigPath: raw.SiteConfigPath,
		DBPath:         raw.DBPath,
		RedisAddr:      raw.RedisAddr,
		RedisPassword:  raw.RedisPassword,
		RedisDB:        raw.RedisDB,
		WorkerCount:    raw.WorkerCount,
		APIAccessKey:   raw.APIAccessKey,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Location returns the configured timezone, falling back to UTC when it cannot be loaded.
func (c *Cfg) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using UTC: %v\n", c.Timezone, err)
		return time.UTC
	}
	return loc
}
