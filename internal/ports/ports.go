package ports

import (
	"context"
	"time"

	"PostScraper/internal/domain"
)

// Fetcher retrieves a remote document with the configured identity and timeout.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*domain.RawDocument, error)
}

// ContentStore is the external system of record for articles and media.
type ContentStore interface {
	// FindArticle looks up an article by its (title, publishedAt) natural key.
	FindArticle(ctx context.Context, title string, publishedAt time.Time) (int64, bool, error)
	CreateArticle(ctx context.Context, title string, publishedAt time.Time, body string) (int64, error)
	// ImportMedia stores raw bytes into the media library, unattached to any
	// article; the mime type is inferred from the suggested filename.
	ImportMedia(ctx context.Context, data []byte, filename string) (*domain.StoredMediaRef, error)
	SetCoverImage(ctx context.Context, articleID, mediaID int64) error
}

// MediaImporter downloads a media element and places it into the content store.
type MediaImporter interface {
	Import(ctx context.Context, item domain.MediaItem) (*domain.StoredMediaRef, error)
}

// Scheduler controls when crawl runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
