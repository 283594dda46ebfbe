package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/linkshare/internal/shortener"
)

const (
	claimExisting  = 0
	claimCreated   = 1
	claimCollision = 2
)

// claimScript binds a key to a URL in one round trip. It answers with the key
// already stored for the URL, the newly created key, or a collision marker when
// the candidate key belongs to a different URL.
var claimScript = redis.NewScript(`
local existing = redis.call('HGET', KEYS[1], ARGV[1])
if existing then
  return {0, existing}
end
if redis.call('EXISTS', KEYS[2]) == 1 then
  return {2, ''}
end
redis.call('HSET', KEYS[2], 'namespace', ARGV[2], 'key', ARGV[3], 'target_url', ARGV[4], 'created_at', ARGV[5])
redis.call('HSET', KEYS[1], ARGV[1], ARGV[3])
return {1, ARGV[3]}
`)

// RedisStore is a Redis implementation of shortener.Repository.
// Keys of one namespace share a hash tag so the claim script stays cluster safe.
type RedisStore struct {
	client    *redis.Client
	allocator *shortener.Allocator
	prefix    string
}

// NewRedisStore creates a new Redis-backed entry store.
func NewRedisStore(client *redis.Client, allocator *shortener.Allocator) *RedisStore {
	return &RedisStore{
		client:    client,
		allocator: allocator,
		prefix:    "ns:",
	}
}

func (r *RedisStore) PutIfAbsent(ctx context.Context, ns shortener.Namespace, targetURL string) (*shortener.Entry, bool, error) {
	urlHash := shortener.HashURL(targetURL)

	return r.allocator.Allocate(ctx, ns, targetURL, func(ctx context.Context, key shortener.Key) (*shortener.Entry, bool, error) {
		now := time.Now().UTC()

		res, err := claimScript.Run(ctx, r.client,
			[]string{r.urlsKey(ns), r.entryKey(ns, key)},
			urlHash, string(ns), string(key), targetURL, now.UnixNano(),
		).Slice()
		if err != nil {
			return nil, false, err
		}

		status, stored, err := parseClaim(res)
		if err != nil {
			return nil, false, err
		}

		switch status {
		case claimCreated:
			return &shortener.Entry{Key: key, Namespace: ns, TargetURL: targetURL, CreatedAt: now}, true, nil
		case claimExisting:
			entry, err := r.Get(ctx, ns, shortener.Key(stored))

			return entry, false, err
		default:
			return nil, false, nil
		}
	})
}

func (r *RedisStore) Get(ctx context.Context, ns shortener.Namespace, key shortener.Key) (*shortener.Entry, error) {
	fields, err := r.client.HGetAll(ctx, r.entryKey(ns, key)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, shortener.ErrNotFound
	}

	return entryFromHash(fields)
}

// Ping checks the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Shutdown is a no-op for RedisStore (client managed externally).
func (r *RedisStore) Shutdown() error {
	return nil
}

func (r *RedisStore) urlsKey(ns shortener.Namespace) string {
	return r.prefix + "{" + string(ns) + "}:urls"
}

func (r *RedisStore) entryKey(ns shortener.Namespace, key shortener.Key) string {
	return r.prefix + "{" + string(ns) + "}:entry:" + string(key)
}

var errClaimReply = errors.New("unexpected claim script reply")

func parseClaim(res []interface{}) (int64, string, error) {
	if len(res) != 2 {
		return 0, "", fmt.Errorf("%w: %v", errClaimReply, res)
	}

	status, ok := res[0].(int64)
	if !ok {
		return 0, "", fmt.Errorf("%w: status %v", errClaimReply, res[0])
	}

	key, ok := res[1].(string)
	if !ok {
		return 0, "", fmt.Errorf("%w: key %v", errClaimReply, res[1])
	}

	return status, key, nil
}

func entryFromHash(fields map[string]string) (*shortener.Entry, error) {
	nanos, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &shortener.Entry{
		Key:       shortener.Key(fields["key"]),
		Namespace: shortener.Namespace(fields["namespace"]),
		TargetURL: fields["target_url"],
		CreatedAt: time.Unix(0, nanos).UTC(),
	}, nil
}

var _ shortener.Repository = (*RedisStore)(nil)
