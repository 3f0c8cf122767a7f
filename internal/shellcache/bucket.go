package shellcache

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pierrec/lz4"
)

// Entry is one cached response: status, headers and body for an exact
// request path.
type Entry struct {
	Path        string
	Status      int
	ContentType string
	Header      http.Header
	Body        []byte
	CachedAt    time.Time
}

// bucketStore persists cache generations in the shared sqlite database.
// Bodies are stored lz4-compressed.
type bucketStore struct {
	db *sql.DB
}

func (b *bucketStore) get(ctx context.Context, bucket, path string) (*Entry, error) {
	row := b.db.QueryRowContext(ctx, `
		SELECT path, status, content_type, headers, body, cached_at
		FROM shell_cache WHERE bucket = ? AND path = ?
	`, bucket, path)

	var e Entry
	var contentType, headers sql.NullString
	var body []byte
	var cachedAtStr string
	err := row.Scan(&e.Path, &e.Status, &contentType, &headers, &body, &cachedAtStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cache entry: %w", err)
	}
	if contentType.Valid {
		e.ContentType = contentType.String
	}
	if headers.Valid {
		_ = json.Unmarshal([]byte(headers.String), &e.Header)
	}
	e.Body, err = decompressLZ4(body)
	if err != nil {
		return nil, fmt.Errorf("decompress cache body: %w", err)
	}
	e.CachedAt, _ = time.Parse(time.RFC3339Nano, cachedAtStr)
	return &e, nil
}

func (b *bucketStore) put(ctx context.Context, bucket string, e Entry) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache put: %w", err)
	}
	if err := putEntry(ctx, tx, bucket, e); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache put: %w", err)
	}
	return nil
}

// putAll writes every entry in one transaction so a partially fetched
// shell never becomes a visible generation.
func (b *bucketStore) putAll(ctx context.Context, bucket string, entries []Entry) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache install: %w", err)
	}
	for _, e := range entries {
		if err := putEntry(ctx, tx, bucket, e); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache install: %w", err)
	}
	return nil
}

func putEntry(ctx context.Context, tx *sql.Tx, bucket string, e Entry) error {
	headersJSON, err := json.Marshal(e.Header)
	if err != nil {
		return fmt.Errorf("encode cache headers: %w", err)
	}
	body, err := compressLZ4(e.Body)
	if err != nil {
		return fmt.Errorf("compress cache body: %w", err)
	}
	cachedAt := e.CachedAt
	if cachedAt.IsZero() {
		cachedAt = time.Now().UTC()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO shell_cache (bucket, path, status, content_type, headers, body, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, bucket, e.Path, e.Status, e.ContentType, string(headersJSON), body, cachedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

func (b *bucketStore) names(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT DISTINCT bucket FROM shell_cache`)
	if err != nil {
		return nil, fmt.Errorf("list cache buckets: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan cache bucket: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache buckets: %w", err)
	}
	return out, nil
}

func (b *bucketStore) drop(ctx context.Context, bucket string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM shell_cache WHERE bucket = ?`, bucket); err != nil {
		return fmt.Errorf("drop cache bucket %q: %w", bucket, err)
	}
	return nil
}

func compressLZ4(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := lz4.NewWriter(&buf)
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressLZ4(data []byte) ([]byte, error) {
	reader := lz4.NewReader(bytes.NewReader(data))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
