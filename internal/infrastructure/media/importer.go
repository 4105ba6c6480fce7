package media

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"PostScraper/internal/domain"
	"PostScraper/internal/ports"
)

// ErrorKind separates download failures from content-store rejections.
type ErrorKind string

const (
	KindDownload ErrorKind = "download"
	KindStore    ErrorKind = "store"
)

// ImportError describes a failed media import. Both kinds are non-fatal to
// the owning article: the caller drops the media item and continues.
type ImportError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import media %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Importer downloads media assets into a temp directory and moves their
// bytes into the content store's media library.
type Importer struct {
	fetcher ports.Fetcher
	store   ports.ContentStore
	tempDir string
	logger  *slog.Logger
}

var _ ports.MediaImporter = (*Importer)(nil)

// NewImporter wires the shared fetcher transport and content store.
func NewImporter(fetcher ports.Fetcher, store ports.ContentStore, tempDir string, logger *slog.Logger) *Importer {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Importer{fetcher: fetcher, store: store, tempDir: tempDir, logger: logger}
}

// Import downloads the item's source, stages it under the temp directory,
// and imports the bytes into the content store unattached to any article.
// The staged file is removed after a successful import and best-effort
// removed on failure.
func (i *Importer) Import(ctx context.Context, item domain.MediaItem) (*domain.StoredMediaRef, error) {
	filename := suggestedFilename(item.SourceURL)

	raw, err := i.fetcher.Fetch(ctx, item.SourceURL)
	if err != nil {
		return nil, &ImportError{Kind: KindDownload, URL: item.SourceURL, Err: err}
	}

	tempPath := filepath.Join(i.tempDir, uuid.NewString()+"-"+filename)
	if err := os.WriteFile(tempPath, []byte(raw.Body), 0o644); err != nil {
		return nil, &ImportError{Kind: KindDownload, URL: item.SourceURL, Err: fmt.Errorf("stage file: %w", err)}
	}
	defer func() {
		if removeErr := os.Remove(tempPath); removeErr != nil && i.logger != nil {
			i.logger.Warn("leave temp file behind", "path", tempPath, "error", removeErr)
		}
	}()

	data, err := os.ReadFile(tempPath)
	if err != nil {
		return nil, &ImportError{Kind: KindDownload, URL: item.SourceURL, Err: fmt.Errorf("read staged file: %w", err)}
	}

	ref, err := i.store.ImportMedia(ctx, data, filename)
	if err != nil {
		return nil, &ImportError{Kind: KindStore, URL: item.SourceURL, Err: err}
	}

	return ref, nil
}

// suggestedFilename derives the store filename from the URL's final path
// segment; the extension drives mime-type inference downstream.
func suggestedFilename(sourceURL string) string {
	parsed, err := url.Parse(sourceURL)
	if err != nil || parsed.Path == "" {
		return "media"
	}
	base := path.Base(parsed.Path)
	if base == "." || base == "/" || base == "" {
		return "media"
	}
	return base
}
