package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"PostScraper/internal/domain"
	"PostScraper/internal/ports"
)

// PostgresStore persists articles and media into Postgres.
//
// Expected schema:
//
//	posts(id bigserial, title text, published_at timestamptz, body text, cover_media_id bigint)
//	media(id bigserial, filename text, mime_type text, bytes bytea)
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ContentStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects to Postgres using the provided DSN and verifies the
// connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// FindArticle looks up an article by exact title and publish timestamp.
func (s *PostgresStore) FindArticle(ctx context.Context, title string, publishedAt time.Time) (int64, bool, error) {
	if s.db == nil {
		return 0, false, fmt.Errorf("store is not connected")
	}

	query, args, err := s.builder.
		Select("id").
		From("posts").
		Where(sq.Eq{"title": title, "published_at": publishedAt}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build find query: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query article: %w", err)
	}

	return id, true, nil
}

// CreateArticle inserts a new article and returns its id.
func (s *PostgresStore) CreateArticle(ctx context.Context, title string, publishedAt time.Time, body string) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("store is not connected")
	}

	query, args, err := s.builder.
		Insert("posts").
		Columns("title", "published_at", "body").
		Values(title, publishedAt, body).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert query: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert article: %w", err)
	}

	return id, nil
}

// ImportMedia stores raw media bytes unattached to any article. The mime
// type is inferred from the suggested filename's extension.
func (s *PostgresStore) ImportMedia(ctx context.Context, data []byte, filename string) (*domain.StoredMediaRef, error) {
	if s.db == nil {
		return nil, fmt.Errorf("store is not connected")
	}

	mimeType := mimeFromFilename(filename)

	query, args, err := s.builder.
		Insert("media").
		Columns("filename", "mime_type", "bytes").
		Values(filename, mimeType, data).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build media insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert media: %w", err)
	}

	return &domain.StoredMediaRef{ID: id, MimeType: mimeType}, nil
}

// SetCoverImage associates an imported media entry as the article's cover.
func (s *PostgresStore) SetCoverImage(ctx context.Context, articleID, mediaID int64) error {
	if s.db == nil {
		return fmt.Errorf("store is not connected")
	}

	query, args, err := s.builder.
		Update("posts").
		Set("cover_media_id", mediaID).
		Where(sq.Eq{"id": articleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build cover update: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set cover image: %w", err)
	}

	return nil
}

func mimeFromFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
