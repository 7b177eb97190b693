package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lysyi3m/episode-pages/app/episode"
)

var _ PageRepository = (*SQLitePageRepository)(nil)

// SQLitePageRepository persists generated pages so restarts keep serving them.
type SQLitePageRepository struct {
	db *DB
}

func NewSQLitePageRepository(db *DB) *SQLitePageRepository {
	return &SQLitePageRepository{db: db}
}

func (r *SQLitePageRepository) GetPage(slug string) (*Page, error) {
	var (
		page         Page
		episodeJSON  string
		generatedAt  int64
		revalidateAt int64
	)

	err := r.db.QueryRow(`
		SELECT slug, episode, html, content_hash, generated_at, revalidate_at
		FROM pages
		WHERE slug = ?
	`, slug).Scan(&page.Slug, &episodeJSON, &page.HTML, &page.ContentHash, &generatedAt, &revalidateAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	var ep episode.Episode
	if err := json.Unmarshal([]byte(episodeJSON), &ep); err != nil {
		return nil, fmt.Errorf("failed to decode stored episode: %w", err)
	}
	page.Episode = ep
	page.GeneratedAt = time.UnixMilli(generatedAt).UTC()
	page.RevalidateAt = time.UnixMilli(revalidateAt).UTC()

	return &page, nil
}

func (r *SQLitePageRepository) GetPageCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return count, nil
}

func (r *SQLitePageRepository) GetStalePageCount(now time.Time) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM pages WHERE revalidate_at <= ?", now.UnixMilli()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get stale page count: %w", err)
	}
	return count, nil
}

func (r *SQLitePageRepository) UpsertPage(page Page) error {
	episodeJSON, err := json.Marshal(page.Episode)
	if err != nil {
		return fmt.Errorf("failed to encode episode: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO pages (slug, episode, html, content_hash, generated_at, revalidate_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (slug) DO UPDATE SET
			episode = excluded.episode,
			html = excluded.html,
			content_hash = excluded.content_hash,
			generated_at = excluded.generated_at,
			revalidate_at = excluded.revalidate_at
	`, page.Slug, string(episodeJSON), page.HTML, page.ContentHash,
		page.GeneratedAt.UnixMilli(), page.RevalidateAt.UnixMilli())

	if err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}

	return nil
}

func (r *SQLitePageRepository) DeletePage(slug string) error {
	_, err := r.db.Exec("DELETE FROM pages WHERE slug = ?", slug)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	return nil
}
