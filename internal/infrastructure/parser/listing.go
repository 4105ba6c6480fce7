package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"PostScraper/internal/domain"
)

var bodyExpr = regexp.MustCompile(`(?is)<body[^>]*>(.*?)</body>`)

// bodyFragment slices the content between the outermost body tags.
func bodyFragment(html string) (string, bool) {
	match := bodyExpr.FindStringSubmatch(html)
	if len(match) < 2 {
		return "", false
	}
	return match[1], true
}

// ParseListing extracts the ordered article links and the next-page link
// from one index page. Malformed or unexpected markup degrades to fewer or
// zero results, never to an error.
func ParseListing(html string) domain.ListingPage {
	fragment, ok := bodyFragment(html)
	if !ok {
		return domain.ListingPage{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return domain.ListingPage{}
	}

	container := doc.Find("div.index-page").First()
	if container.Length() == 0 {
		return domain.ListingPage{}
	}

	var urls []string
	container.Find("section .fc-item__container .fc-item__content a").Each(func(_ int, link *goquery.Selection) {
		if href, exists := link.Attr("href"); exists {
			urls = append(urls, href)
		}
	})

	var next string
	pagination := container.Find(".fc-container__pagination .pagination__list [rel=next]").First()
	if pagination.Length() > 0 {
		next, _ = pagination.Attr("href")
	}

	return domain.ListingPage{ArticleURLs: urls, NextURL: next}
}
