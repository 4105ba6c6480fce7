package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"PostScraper/internal/domain"
)

// ErrArticleStructure is returned when a mandatory page container is
// missing. Callers skip the article and continue the run.
var ErrArticleStructure = errors.New("article page structure not recognized")

const (
	articleContainerSel = "#article"
	titleSel            = "header h1"
	dateSel             = `.js-content-meta time[itemprop="datePublished"]`
	articleBodySel      = ".content__main-column--article .content__article-body"
	featuredFigureSel   = ".content__main-column--article > figure"

	imageMarker = "element-image"
	videoMarker = "element-video"
)

// MediaPlaceholder is the slot written into the body markup in place of the
// n-th extracted media figure; the orchestrator splices the imported
// reference back into it. The token is unique per parsed document so that
// comments already present in the source markup cannot collide with a slot.
func MediaPlaceholder(token string, n int) string {
	return fmt.Sprintf("<!-- media:%s:%d -->", token, n)
}

// ParseArticle extracts title, publish timestamp, body markup, and media
// elements from one article page. A missing body fragment, article
// container, or body column is a structure error; a missing title or date
// node is tolerated. The date falls back to now when the page carries no
// usable timestamp.
func ParseArticle(html string, now time.Time) (*domain.ArticleDocument, error) {
	fragment, ok := bodyFragment(html)
	if !ok {
		return nil, fmt.Errorf("body fragment: %w", ErrArticleStructure)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", ErrArticleStructure)
	}

	container := doc.Find(articleContainerSel).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("article container: %w", ErrArticleStructure)
	}

	title := strings.TrimSpace(container.Find(titleSel).First().Text())
	publishedAt := parsePublishDate(container, now)

	body := container.Find(articleBodySel).First()
	if body.Length() == 0 {
		return nil, fmt.Errorf("article body column: %w", ErrArticleStructure)
	}

	body.Find("aside").Remove()

	featured := extractFigure(container.Find(featuredFigureSel).First())

	token := uuid.NewString()

	var items []domain.MediaItem
	seen := map[string]int{}
	body.Find("figure").Each(func(_ int, figure *goquery.Selection) {
		item := extractFigure(figure)
		if item == nil {
			return
		}
		// A source URL is collected once per article; repeated figures
		// share the first occurrence's slot.
		idx, dup := seen[item.SourceURL]
		if !dup {
			idx = len(items)
			seen[item.SourceURL] = idx
			items = append(items, *item)
		}
		figure.ReplaceWithHtml(MediaPlaceholder(token, idx))
	})

	markup, err := body.Html()
	if err != nil {
		return nil, fmt.Errorf("render body markup: %w", ErrArticleStructure)
	}

	return &domain.ArticleDocument{
		Title:         title,
		PublishedAt:   publishedAt,
		BodyMarkup:    markup,
		MediaToken:    token,
		MediaItems:    items,
		FeaturedMedia: featured,
	}, nil
}

// parsePublishDate reads the millisecond-epoch attribute off the date node.
// Absent or malformed values fall back to now at second precision.
func parsePublishDate(container *goquery.Selection, now time.Time) time.Time {
	fallback := now.UTC().Truncate(time.Second)

	node := container.Find(dateSel).First()
	if node.Length() == 0 {
		return fallback
	}

	raw, exists := node.Attr("data-timestamp")
	if !exists {
		return fallback
	}

	millis, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fallback
	}

	return time.Unix(millis/1000, 0).UTC()
}

// extractFigure classifies a figure element by its class markers and pulls
// out the media source and caption. Figures matching neither marker yield
// nil and are left in place.
func extractFigure(figure *goquery.Selection) *domain.MediaItem {
	if figure == nil || figure.Length() == 0 {
		return nil
	}

	class, _ := figure.Attr("class")

	var kind domain.MediaKind
	switch {
	case strings.Contains(class, imageMarker):
		kind = domain.MediaImage
	case strings.Contains(class, videoMarker):
		kind = domain.MediaVideo
	default:
		return nil
	}

	source := figure.Find("picture source").First()
	srcset, exists := source.Attr("srcset")
	srcset = strings.TrimSpace(srcset)
	if !exists || srcset == "" {
		return nil
	}

	caption := strings.TrimSpace(figure.Find("figcaption").First().Text())

	return &domain.MediaItem{Kind: kind, SourceURL: srcset, Caption: caption}
}
