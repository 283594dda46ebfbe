package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/serroba/linkshare/internal/shortener"
)

// entryRow is the SQL row shape shared by the SQL backends.
type entryRow struct {
	Namespace string    `db:"namespace"`
	Key       string    `db:"entry_key"`
	TargetURL string    `db:"target_url"`
	CreatedAt time.Time `db:"created_at"`
}

func (r entryRow) entry() *shortener.Entry {
	return &shortener.Entry{
		Key:       shortener.Key(r.Key),
		Namespace: shortener.Namespace(r.Namespace),
		TargetURL: r.TargetURL,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// SQLiteStore is a SQLite implementation of shortener.Repository.
type SQLiteStore struct {
	db        *sqlx.DB
	allocator *shortener.Allocator
}

// NewSQLiteStore creates a SQLite-backed entry store. The schema must already be migrated.
func NewSQLiteStore(db *sqlx.DB, allocator *shortener.Allocator) *SQLiteStore {
	return &SQLiteStore{
		db:        db,
		allocator: allocator,
	}
}

func (s *SQLiteStore) PutIfAbsent(ctx context.Context, ns shortener.Namespace, targetURL string) (*shortener.Entry, bool, error) {
	urlHash := shortener.HashURL(targetURL)

	existing, err := s.getByHash(ctx, ns, urlHash)
	if err == nil {
		return existing, false, nil
	}

	if !errors.Is(err, shortener.ErrNotFound) {
		return nil, false, err
	}

	return s.allocator.Allocate(ctx, ns, targetURL, func(ctx context.Context, key shortener.Key) (*shortener.Entry, bool, error) {
		now := time.Now().UTC()

		res, err := s.db.ExecContext(ctx, `
			INSERT INTO entries (namespace, entry_key, target_url, url_hash, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, string(ns), string(key), targetURL, urlHash, now)
		if err != nil {
			return nil, false, err
		}

		inserted, err := res.RowsAffected()
		if err != nil {
			return nil, false, err
		}

		if inserted == 1 {
			return &shortener.Entry{Key: key, Namespace: ns, TargetURL: targetURL, CreatedAt: now}, true, nil
		}

		return s.resolveConflict(ctx, ns, urlHash)
	})
}

func (s *SQLiteStore) Get(ctx context.Context, ns shortener.Namespace, key shortener.Key) (*shortener.Entry, error) {
	var row entryRow

	err := s.db.GetContext(ctx, &row, `
		SELECT namespace, entry_key, target_url, created_at
		FROM entries
		WHERE namespace = ? AND entry_key = ?
	`, string(ns), string(key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shortener.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return row.entry(), nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Shutdown closes the database.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

func (s *SQLiteStore) getByHash(ctx context.Context, ns shortener.Namespace, urlHash string) (*shortener.Entry, error) {
	var row entryRow

	err := s.db.GetContext(ctx, &row, `
		SELECT namespace, entry_key, target_url, created_at
		FROM entries
		WHERE namespace = ? AND url_hash = ?
	`, string(ns), urlHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shortener.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return row.entry(), nil
}

// resolveConflict decides what a no-op insert collided with: the same URL
// stored concurrently (reuse it) or a key held by another URL (try the next).
func (s *SQLiteStore) resolveConflict(ctx context.Context, ns shortener.Namespace, urlHash string) (*shortener.Entry, bool, error) {
	existing, err := s.getByHash(ctx, ns, urlHash)
	if errors.Is(err, shortener.ErrNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

var _ shortener.Repository = (*SQLiteStore)(nil)
