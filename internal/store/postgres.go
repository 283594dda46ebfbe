package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/linkshare/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool      *pgxpool.Pool
	allocator *shortener.Allocator
}

// NewPostgresStore creates a new PostgreSQL-backed entry store. The schema must already be migrated.
func NewPostgresStore(pool *pgxpool.Pool, allocator *shortener.Allocator) *PostgresStore {
	return &PostgresStore{
		pool:      pool,
		allocator: allocator,
	}
}

func (p *PostgresStore) PutIfAbsent(ctx context.Context, ns shortener.Namespace, targetURL string) (*shortener.Entry, bool, error) {
	urlHash := shortener.HashURL(targetURL)

	existing, err := p.getByHash(ctx, ns, urlHash)
	if err == nil {
		return existing, false, nil
	}

	if !errors.Is(err, shortener.ErrNotFound) {
		return nil, false, err
	}

	return p.allocator.Allocate(ctx, ns, targetURL, func(ctx context.Context, key shortener.Key) (*shortener.Entry, bool, error) {
		now := time.Now().UTC().Truncate(time.Microsecond)

		query := `
			INSERT INTO entries (namespace, entry_key, target_url, url_hash, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT DO NOTHING
		`

		tag, err := p.pool.Exec(ctx, query, string(ns), string(key), targetURL, urlHash, now)
		if err != nil {
			return nil, false, err
		}

		if tag.RowsAffected() == 1 {
			return &shortener.Entry{Key: key, Namespace: ns, TargetURL: targetURL, CreatedAt: now}, true, nil
		}

		existing, err := p.getByHash(ctx, ns, urlHash)
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, false, nil
		}

		if err != nil {
			return nil, false, err
		}

		return existing, false, nil
	})
}

func (p *PostgresStore) Get(ctx context.Context, ns shortener.Namespace, key shortener.Key) (*shortener.Entry, error) {
	query := `
		SELECT namespace, entry_key, target_url, created_at
		FROM entries
		WHERE namespace = $1 AND entry_key = $2
	`

	return p.scanEntry(p.pool.QueryRow(ctx, query, string(ns), string(key)))
}

// Ping checks the pool connection.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown is a no-op for PostgresStore (pool managed externally).
func (p *PostgresStore) Shutdown() error {
	return nil
}

func (p *PostgresStore) getByHash(ctx context.Context, ns shortener.Namespace, urlHash string) (*shortener.Entry, error) {
	query := `
		SELECT namespace, entry_key, target_url, created_at
		FROM entries
		WHERE namespace = $1 AND url_hash = $2
	`

	return p.scanEntry(p.pool.QueryRow(ctx, query, string(ns), urlHash))
}

func (p *PostgresStore) scanEntry(row pgx.Row) (*shortener.Entry, error) {
	var r entryRow

	err := row.Scan(&r.Namespace, &r.Key, &r.TargetURL, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return r.entry(), nil
}

var _ shortener.Repository = (*PostgresStore)(nil)
