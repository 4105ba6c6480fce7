package domain

import "time"

// MediaKind classifies an embedded media element.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaItem is one embedded media unit extracted from an article body.
type MediaItem struct {
	Kind      MediaKind
	SourceURL string
	Caption   string
}

// StoredMediaRef points at a media entry imported into the content store.
type StoredMediaRef struct {
	ID       int64
	MimeType string
}

// ListingPage is the parsed form of one paginated index page.
// An empty NextURL marks the end of pagination.
type ListingPage struct {
	ArticleURLs []string
	NextURL     string
}

// ArticleDocument is the normalized form of one article page.
//
// BodyMarkup carries an indexed placeholder comment per entry of MediaItems,
// scoped by MediaToken; the orchestrator splices imported media references
// into those slots. Each source URL appears at most once in MediaItems;
// figures repeating a URL share the first occurrence's slot.
// The pair (Title, PublishedAt) is the deduplication key. It is a weak
// natural key: identical titles with colliding second-precision timestamps
// are indistinguishable.
type ArticleDocument struct {
	Title         string
	PublishedAt   time.Time
	BodyMarkup    string
	MediaToken    string
	MediaItems    []MediaItem
	FeaturedMedia *MediaItem
}

// RawDocument is a fetched page body plus the URL it resolved to after redirects.
type RawDocument struct {
	Body     string
	FinalURL string
}

// StopReason names the condition that ended a crawl run.
type StopReason string

const (
	StopLimitReached        StopReason = "limit_reached"
	StopPaginationExhausted StopReason = "pagination_exhausted"
	StopDuplicateFound      StopReason = "duplicate_found"
	StopListingFailed       StopReason = "listing_failed"
	StopGateFailed          StopReason = "gate_failed"
)

// RunReport summarizes a finished crawl run for operator logs.
type RunReport struct {
	RunID      string
	Scraped    int
	Skipped    int
	Reason     StopReason
	StartedAt  time.Time
	FinishedAt time.Time
}
