package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/lysyi3m/episode-pages/app/episode"
)

var (
	ErrNotFound = errors.New("episode not found")
	ErrUpstream = errors.New("upstream unavailable")
)

const maxBodySize = 4 << 20

// Observer receives the outcome of every upstream request.
type Observer interface {
	ObserveUpstreamRequest(status string, duration time.Duration)
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
	RateLimit rate.Limit
	RateBurst int
	Observer  Observer
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	userAgent  string
	observer   Observer
}

func NewClient(baseURL string, httpClient *http.Client, opts Options) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme must be http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: host is required", baseURL)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(opts.RateLimit, max(opts.RateBurst, 1))
	}

	return &Client{
		baseURL:    parsed,
		httpClient: httpClient,
		limiter:    limiter,
		timeout:    opts.Timeout,
		userAgent:  opts.UserAgent,
		observer:   opts.Observer,
	}, nil
}

// EpisodeURL returns the lookup URL for slug.
func (c *Client) EpisodeURL(slug string) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/episodes/" + slug
	u.RawPath = c.baseURL.EscapedPath() + "/episodes/" + url.PathEscape(slug)
	return u.String()
}

// GetEpisode issues a single GET for the episode identified by slug.
// Empty and dot-segment slugs are reported as not found without a request.
func (c *Client) GetEpisode(ctx context.Context, slug string) (episode.RawEpisode, error) {
	if slug == "" || slug == "." || slug == ".." {
		return episode.RawEpisode{}, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}

	start := time.Now()
	raw, status, err := c.getEpisode(ctx, slug)
	if c.observer != nil {
		c.observer.ObserveUpstreamRequest(status, time.Since(start))
	}
	return raw, err
}

func (c *Client) getEpisode(ctx context.Context, slug string) (episode.RawEpisode, string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return episode.RawEpisode{}, "rate_limited", fmt.Errorf("%w: rate limiter: %v", ErrUpstream, err)
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.EpisodeURL(slug)
	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return episode.RawEpisode{}, "error", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return episode.RawEpisode{}, "error", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	status := fmt.Sprintf("%d", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return episode.RawEpisode{}, status, fmt.Errorf("%w: %s", ErrNotFound, slug)
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		slog.Debug("Upstream request failed", "url", endpoint, "status", resp.StatusCode, "body", string(snippet))
		return episode.RawEpisode{}, status, fmt.Errorf("%w: HTTP error: %d %s", ErrUpstream, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return episode.RawEpisode{}, status, fmt.Errorf("%w: failed to read response body: %v", ErrUpstream, err)
	}

	var raw episode.RawEpisode
	if err := json.Unmarshal(data, &raw); err != nil {
		if errors.Is(err, episode.ErrMalformed) {
			return episode.RawEpisode{}, status, err
		}
		return episode.RawEpisode{}, status, fmt.Errorf("%w: failed to decode response: %v", episode.ErrMalformed, err)
	}

	return raw, status, nil
}
