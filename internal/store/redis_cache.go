package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/linkshare/internal/shortener"
)

// RedisCacheRepository wraps a Repository with Redis caching for reads.
// The wrapped store stays the authority for PutIfAbsent.
type RedisCacheRepository struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "cache:",
		ttl:    ttl,
	}
}

// PutIfAbsent stores through the underlying store and updates the cache.
func (r *RedisCacheRepository) PutIfAbsent(ctx context.Context, ns shortener.Namespace, targetURL string) (*shortener.Entry, bool, error) {
	entry, created, err := r.store.PutIfAbsent(ctx, ns, targetURL)
	if err != nil {
		return nil, false, err
	}

	// Write-through
	r.cacheEntry(ctx, entry)

	return entry, created, nil
}

// Get retrieves an entry, checking the cache first.
func (r *RedisCacheRepository) Get(ctx context.Context, ns shortener.Namespace, key shortener.Key) (*shortener.Entry, error) {
	if entry, err := r.getFromCache(ctx, ns, key); err == nil {
		return entry, nil
	}

	// Cache miss - fetch from store
	entry, err := r.store.Get(ctx, ns, key)
	if err != nil {
		return nil, err
	}

	r.cacheEntry(ctx, entry)

	return entry, nil
}

// Ping checks both the cache and the underlying store when it can be pinged.
func (r *RedisCacheRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return err
	}

	if p, ok := r.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}

	return nil
}

// Shutdown shuts the wrapped store down; the client is managed externally.
func (r *RedisCacheRepository) Shutdown() error {
	if s, ok := r.store.(interface{ Shutdown() error }); ok {
		return s.Shutdown()
	}

	return nil
}

func (r *RedisCacheRepository) cacheKey(ns shortener.Namespace, key shortener.Key) string {
	return r.prefix + string(ns) + ":" + string(key)
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, ns shortener.Namespace, key shortener.Key) (*shortener.Entry, error) {
	result, err := r.client.HGetAll(ctx, r.cacheKey(ns, key)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	return entryFromHash(result)
}

func (r *RedisCacheRepository) cacheEntry(ctx context.Context, entry *shortener.Entry) {
	pipe := r.client.Pipeline()
	key := r.cacheKey(entry.Namespace, entry.Key)

	pipe.HSet(ctx, key, map[string]interface{}{
		"namespace":  string(entry.Namespace),
		"key":        string(entry.Key),
		"target_url": entry.TargetURL,
		"created_at": entry.CreatedAt.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
