package scraper

import (
	"context"
	"fmt"
	"time"

	"PostScraper/internal/ports"
)

// DuplicateGate is the single query point for "have we already stored this
// article". It is a pure query over the content store's natural key; a
// positive answer is the sole trigger for the crawl's duplicate latch.
type DuplicateGate struct {
	store ports.ContentStore
}

// NewDuplicateGate wires the content store.
func NewDuplicateGate(store ports.ContentStore) *DuplicateGate {
	return &DuplicateGate{store: store}
}

// Exists reports whether an article with the exact title and publish
// timestamp is already stored. A query failure is run-fatal: duplicate
// detection cannot be assumed correct without an answer.
func (g *DuplicateGate) Exists(ctx context.Context, title string, publishedAt time.Time) (bool, error) {
	if g.store == nil {
		return false, fmt.Errorf("content store is not configured")
	}

	_, found, err := g.store.FindArticle(ctx, title, publishedAt)
	if err != nil {
		return false, fmt.Errorf("query duplicate: %w", err)
	}

	return found, nil
}
