package database

import (
	"time"
)

type PageRepository interface {
	GetPage(slug string) (*Page, error)
	GetPageCount() (int, error)
	GetStalePageCount(now time.Time) (int, error)

	UpsertPage(page Page) error
	DeletePage(slug string) error
}
