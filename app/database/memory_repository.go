package database

import (
	"sync"
	"time"
)

var _ PageRepository = (*MemoryPageRepository)(nil)

// MemoryPageRepository keeps pages for the lifetime of the process.
type MemoryPageRepository struct {
	mu    sync.RWMutex
	pages map[string]Page
}

func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{
		pages: make(map[string]Page),
	}
}

func (r *MemoryPageRepository) GetPage(slug string) (*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, ok := r.pages[slug]
	if !ok {
		return nil, nil
	}

	page.HTML = append([]byte(nil), page.HTML...)
	return &page, nil
}

func (r *MemoryPageRepository) GetPageCount() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages), nil
}

func (r *MemoryPageRepository) GetStalePageCount(now time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, page := range r.pages {
		if page.IsStale(now) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryPageRepository) UpsertPage(page Page) error {
	page.HTML = append([]byte(nil), page.HTML...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[page.Slug] = page
	return nil
}

func (r *MemoryPageRepository) DeletePage(slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, slug)
	return nil
}
