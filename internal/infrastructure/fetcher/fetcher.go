package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"PostScraper/internal/domain"
	"PostScraper/internal/ports"
)

// ErrorKind separates network-level failures from HTTP status failures.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindHTTP      ErrorKind = "http"
)

// Error describes a failed document fetch.
type Error struct {
	Kind   ErrorKind
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options configures the request identity and transport policy.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	// InsecureSkipVerify disables TLS certificate verification. The
	// upstream site requires it in the reference setup; override to
	// restore verification.
	InsecureSkipVerify bool
}

// HTTPFetcher issues GET requests with a fixed identity and timeout.
// Redirects are always followed; there is no internal retry loop.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

var _ ports.Fetcher = (*HTTPFetcher)(nil)

// New builds a fetcher; a nil client gets one derived from opts.
func New(client *http.Client, opts Options) *HTTPFetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if client == nil {
		client = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify},
			},
		}
	}
	return &HTTPFetcher{client: client, userAgent: opts.UserAgent}
}

// Fetch retrieves the document at url and returns its body text together
// with the URL it resolved to after redirects.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*domain.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{Kind: KindHTTP, URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &domain.RawDocument{Body: string(body), FinalURL: finalURL}, nil
}
