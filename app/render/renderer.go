package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/lysyi3m/episode-pages/app/episode"
	"github.com/lysyi3m/episode-pages/app/locale"
)

//go:embed templates/*.html
var templateFS embed.FS

type Options struct {
	SiteTitle string
	HomeURL   string
	// BaseURL is the public origin used for canonical links. Empty omits them.
	BaseURL string
}

type Renderer struct {
	templates *template.Template
	sanitizer *Sanitizer
	siteTitle string
	homeURL   string
	baseURL   string
}

type episodeView struct {
	Lang         string
	CanonicalURL string
	SiteTitle   string
	HomeURL     string
	BackLabel   string
	PlayLabel   string
	Episode     episode.Episode
	Description template.HTML
}

type statusView struct {
	Lang      string
	SiteTitle string
	HomeURL   string
	BackLabel string
	Title     string
}

func NewRenderer(opts Options) (*Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	if opts.HomeURL == "" {
		opts.HomeURL = "/"
	}

	return &Renderer{
		templates: templates,
		sanitizer: NewSanitizer(),
		siteTitle: opts.SiteTitle,
		homeURL:   opts.HomeURL,
		baseURL:   strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
	}, nil
}

// Episode renders the full page document. The description is sanitized
// before it is embedded as markup.
func (r *Renderer) Episode(slug string, ep episode.Episode, l locale.Locale) ([]byte, error) {
	view := episodeView{
		Lang:         l.Lang(),
		CanonicalURL: r.CanonicalURL(slug),
		SiteTitle:   r.siteTitle,
		HomeURL:     r.homeURL,
		BackLabel:   l.BackLabel,
		PlayLabel:   l.PlayLabel,
		Episode:     ep,
		Description: template.HTML(r.sanitizer.Run(ep.Description)),
	}
	return r.execute("episode.html", view)
}

// CanonicalURL returns the public page URL for slug, or "" without a base URL.
func (r *Renderer) CanonicalURL(slug string) string {
	if r.baseURL == "" {
		return ""
	}
	return r.baseURL + "/episodes/" + url.PathEscape(slug)
}

func (r *Renderer) NotFound(l locale.Locale) ([]byte, error) {
	return r.status(l, l.NotFoundTitle)
}

func (r *Renderer) Unavailable(l locale.Locale) ([]byte, error) {
	return r.status(l, l.UnavailableTitle)
}

func (r *Renderer) status(l locale.Locale, title string) ([]byte, error) {
	view := statusView{
		Lang:      l.Lang(),
		SiteTitle: r.siteTitle,
		HomeURL:   r.homeURL,
		BackLabel: l.BackLabel,
		Title:     title,
	}
	return r.execute("status.html", view)
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
