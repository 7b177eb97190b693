package database

import (
	"time"

	"github.com/lysyi3m/episode-pages/app/episode"
)

// Page is one generated version of an episode page.
type Page struct {
	Slug         string
	Episode      episode.Episode
	HTML         []byte
	ContentHash  string // sha256 of HTML, hex encoded
	GeneratedAt  time.Time
	RevalidateAt time.Time
}

// IsStale reports whether the page is due for regeneration at now.
func (p *Page) IsStale(now time.Time) bool {
	return !now.Before(p.RevalidateAt)
}
