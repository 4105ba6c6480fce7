package parser

import (
	"fmt"
	"strings"
	"testing"
)

func listingHTML(links []string, next string) string {
	var items strings.Builder
	for _, link := range links {
		fmt.Fprintf(&items, `
		  <div class="fc-item__container">
		    <div class="fc-item__content"><a href="%s">headline</a></div>
		  </div>`, link)
	}

	var pagination string
	if next != "" {
		pagination = fmt.Sprintf(`
		  <div class="fc-container__pagination">
		    <ul class="pagination__list"><li><a rel="next" href="%s">next</a></li></ul>
		  </div>`, next)
	}

	return fmt.Sprintf(`<html><head><title>index</title></head><body>
	  <div class="index-page">
	    <section>%s</section>
	    %s
	  </div>
	</body></html>`, items.String(), pagination)
}

func TestParseListing(t *testing.T) {
	t.Parallel()

	links := []string{
		"https://news.example.org/2024/flood-season",
		"/2024/quake-report",
		"https://news.example.org/2024/wildfire-update",
	}
	html := listingHTML(links, "https://news.example.org/page/2")

	page := ParseListing(html)

	if len(page.ArticleURLs) != len(links) {
		t.Fatalf("expected %d urls, got %d", len(links), len(page.ArticleURLs))
	}
	for i, want := range links {
		if page.ArticleURLs[i] != want {
			t.Fatalf("url %d: expected %s, got %s", i, want, page.ArticleURLs[i])
		}
	}
	if page.NextURL != "https://news.example.org/page/2" {
		t.Fatalf("unexpected next url: %s", page.NextURL)
	}
}

func TestParseListingNoNextLink(t *testing.T) {
	t.Parallel()

	page := ParseListing(listingHTML([]string{"/only-article"}, ""))

	if len(page.ArticleURLs) != 1 {
		t.Fatalf("expected 1 url, got %d", len(page.ArticleURLs))
	}
	if page.NextURL != "" {
		t.Fatalf("expected empty next url, got %s", page.NextURL)
	}
}

func TestParseListingMissingBody(t *testing.T) {
	t.Parallel()

	page := ParseListing(`<html><div class="index-page"><a href="/x">x</a></div></html>`)

	if len(page.ArticleURLs) != 0 {
		t.Fatalf("expected no urls, got %d", len(page.ArticleURLs))
	}
	if page.NextURL != "" {
		t.Fatalf("expected empty next url, got %s", page.NextURL)
	}
}

func TestParseListingMissingContainer(t *testing.T) {
	t.Parallel()

	page := ParseListing(`<html><body><div class="unrelated"><a href="/x">x</a></div></body></html>`)

	if len(page.ArticleURLs) != 0 {
		t.Fatalf("expected no urls, got %d", len(page.ArticleURLs))
	}
	if page.NextURL != "" {
		t.Fatalf("expected empty next url, got %s", page.NextURL)
	}
}
