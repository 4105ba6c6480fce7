package scraper

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"PostScraper/internal/domain"
	"PostScraper/internal/infrastructure/parser"
	"PostScraper/internal/ports"
)

// RunConfig carries the crawl parameters for one invocation. It is an
// explicit value threaded through the run; there is no ambient options
// state.
type RunConfig struct {
	ListingURL string
	PostLimit  int
}

// CrawlerDeps wires all driven adapters into the crawl orchestration.
type CrawlerDeps struct {
	Fetcher  ports.Fetcher
	Store    ports.ContentStore
	Importer ports.MediaImporter
	Gate     *DuplicateGate
	Logger   *slog.Logger
	Now      func() time.Time
}

// Crawler walks the paginated listing, extracts each article, and commits
// new ones to the content store. Traversal is strictly sequential: the
// stopping conditions (article limit, duplicate latch) depend on observing
// each article's outcome in document order.
type Crawler struct {
	fetcher  ports.Fetcher
	store    ports.ContentStore
	importer ports.MediaImporter
	gate     *DuplicateGate
	logger   *slog.Logger
	now      func() time.Time
}

// crawlState is owned solely by one Run invocation, never shared.
type crawlState struct {
	scraped        int
	skipped        int
	duplicateFound bool
	nextURL        string
}

// NewCrawler constructs the orchestration component.
func NewCrawler(deps CrawlerDeps) *Crawler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Crawler{
		fetcher:  deps.Fetcher,
		store:    deps.Store,
		importer: deps.Importer,
		gate:     deps.Gate,
		logger:   deps.Logger,
		now:      now,
	}
}

// Run executes one crawl from the configured listing URL. The run ends when
// pagination is exhausted, the article limit is reached, a duplicate has
// been seen (the current page is still finished, but no further page is
// requested), or a listing fetch fails. No error escapes the run; the
// report names the stop reason for operator logs.
func (c *Crawler) Run(ctx context.Context, cfg RunConfig) domain.RunReport {
	started := c.now()
	state := crawlState{nextURL: cfg.ListingURL}
	reason := domain.StopPaginationExhausted

	limit := cfg.PostLimit

loop:
	for {
		switch {
		case state.nextURL == "":
			reason = domain.StopPaginationExhausted
			break loop
		case state.duplicateFound:
			reason = domain.StopDuplicateFound
			break loop
		case state.scraped >= limit:
			reason = domain.StopLimitReached
			break loop
		}

		raw, err := c.fetcher.Fetch(ctx, state.nextURL)
		if err != nil {
			c.warn("abort run on listing fetch", "url", state.nextURL, "error", err)
			reason = domain.StopListingFailed
			break
		}

		page := parser.ParseListing(raw.Body)
		c.debug("listing parsed", "url", state.nextURL, "articles", len(page.ArticleURLs), "has_next", page.NextURL != "")

		if err := c.processArticles(ctx, page.ArticleURLs, limit, &state); err != nil {
			c.warn("abort run on duplicate gate", "error", err)
			reason = domain.StopGateFailed
			break
		}

		state.nextURL = page.NextURL
	}

	report := domain.RunReport{
		Scraped:    state.scraped,
		Skipped:    state.skipped,
		Reason:     reason,
		StartedAt:  started,
		FinishedAt: c.now(),
	}
	c.debug("run finished", "scraped", report.Scraped, "skipped", report.Skipped, "reason", report.Reason)
	return report
}

// processArticles walks one listing page's article URLs in document order.
// Per-article failures skip the unit; only a gate query failure propagates.
func (c *Crawler) processArticles(ctx context.Context, urls []string, limit int, state *crawlState) error {
	for _, articleURL := range urls {
		if state.scraped >= limit {
			return nil
		}

		raw, err := c.fetcher.Fetch(ctx, articleURL)
		if err != nil {
			c.warn("skip article on fetch", "url", articleURL, "error", err)
			state.skipped++
			continue
		}

		doc, err := parser.ParseArticle(raw.Body, c.now())
		if err != nil {
			if !errors.Is(err, parser.ErrArticleStructure) {
				return fmt.Errorf("parse article %s: %w", articleURL, err)
			}
			c.warn("skip article on structure", "url", articleURL, "error", err)
			state.skipped++
			continue
		}

		duplicate, err := c.gate.Exists(ctx, doc.Title, doc.PublishedAt)
		if err != nil {
			return fmt.Errorf("article %s: %w", articleURL, err)
		}
		if duplicate {
			// Latch: finish this page's remaining articles, then stop
			// requesting new pages.
			state.duplicateFound = true
			state.skipped++
			c.debug("duplicate found", "url", articleURL, "title", doc.Title)
			continue
		}

		if err := c.commitArticle(ctx, doc); err != nil {
			c.warn("skip article on store write", "url", articleURL, "error", err)
			state.skipped++
			continue
		}
		state.scraped++
	}

	return nil
}

// commitArticle imports the document's media, splices the imported
// references into the body markup, writes the article, and associates the
// cover image. Media failures drop the single item, never the article.
func (c *Crawler) commitArticle(ctx context.Context, doc *domain.ArticleDocument) error {
	body := doc.BodyMarkup
	for i, item := range doc.MediaItems {
		// A deduplicated source URL may own several identical slots.
		placeholder := parser.MediaPlaceholder(doc.MediaToken, i)

		ref, err := c.importer.Import(ctx, item)
		if err != nil {
			c.warn("drop media item", "source", item.SourceURL, "error", err)
			body = strings.ReplaceAll(body, placeholder, "")
			continue
		}

		body = strings.ReplaceAll(body, placeholder, mediaFigureHTML(item, ref))
	}

	articleID, err := c.store.CreateArticle(ctx, doc.Title, doc.PublishedAt, body)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}

	// Only image covers are supported; featured videos are imported into
	// the library but not attached.
	if doc.FeaturedMedia != nil {
		ref, err := c.importer.Import(ctx, *doc.FeaturedMedia)
		if err != nil {
			c.warn("drop featured media", "source", doc.FeaturedMedia.SourceURL, "error", err)
			return nil
		}
		if doc.FeaturedMedia.Kind == domain.MediaImage {
			if err := c.store.SetCoverImage(ctx, articleID, ref.ID); err != nil {
				c.warn("leave article without cover", "article_id", articleID, "error", err)
			}
		}
	}

	return nil
}

// mediaFigureHTML renders the stored-media replacement for an extracted
// figure.
func mediaFigureHTML(item domain.MediaItem, ref *domain.StoredMediaRef) string {
	var caption string
	if item.Caption != "" {
		caption = fmt.Sprintf("<figcaption>%s</figcaption>", html.EscapeString(item.Caption))
	}

	if item.Kind == domain.MediaVideo {
		return fmt.Sprintf(`<figure class="element element-video"><video data-media-id="%d" data-mime-type=%q></video>%s</figure>`,
			ref.ID, ref.MimeType, caption)
	}
	return fmt.Sprintf(`<figure class="element element-image"><picture><img data-media-id="%d" data-mime-type=%q/></picture>%s</figure>`,
		ref.ID, ref.MimeType, caption)
}

func (c *Crawler) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Crawler) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
