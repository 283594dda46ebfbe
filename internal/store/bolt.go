package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serroba/linkshare/internal/shortener"
	"github.com/vmihailenco/msgpack"
	bolt "go.etcd.io/bbolt"
)

var (
	keysBucket = []byte("keys")
	urlsBucket = []byte("urls")
)

// boltEntry is the msgpack value stored under keys/<key>.
type boltEntry struct {
	TargetURL string    `msgpack:"target_url"`
	CreatedAt time.Time `msgpack:"created_at"`
}

// BoltStore is a bbolt implementation of shortener.Repository. Each namespace
// is a top-level bucket holding a "keys" and a "urls" (url hash -> key) bucket.
type BoltStore struct {
	db        *bolt.DB
	allocator *shortener.Allocator
}

// OpenBolt opens the Bolt database file at path.
func OpenBolt(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %q: %w", path, err)
	}

	return db, nil
}

// NewBoltStore creates a Bolt-backed entry store.
func NewBoltStore(db *bolt.DB, allocator *shortener.Allocator) *BoltStore {
	return &BoltStore{
		db:        db,
		allocator: allocator,
	}
}

func (s *BoltStore) PutIfAbsent(ctx context.Context, ns shortener.Namespace, targetURL string) (*shortener.Entry, bool, error) {
	var (
		entry   *shortener.Entry
		created bool
	)

	urlHash := []byte(shortener.HashURL(targetURL))

	err := s.db.Update(func(tx *bolt.Tx) error {
		keys, urls, err := ensureNamespace(tx, ns)
		if err != nil {
			return err
		}

		if key := urls.Get(urlHash); key != nil {
			entry, err = decodeEntry(ns, shortener.Key(key), keys.Get(key))

			return err
		}

		entry, created, err = s.allocator.Allocate(ctx, ns, targetURL,
			func(_ context.Context, key shortener.Key) (*shortener.Entry, bool, error) {
				if keys.Get([]byte(key)) != nil {
					return nil, false, nil
				}

				stored := boltEntry{TargetURL: targetURL, CreatedAt: time.Now().UTC()}

				value, err := msgpack.Marshal(&stored)
				if err != nil {
					return nil, false, err
				}

				if err := keys.Put([]byte(key), value); err != nil {
					return nil, false, fmt.Errorf("could not put key %q: %w", key, err)
				}

				if err := urls.Put(urlHash, []byte(key)); err != nil {
					return nil, false, fmt.Errorf("could not index key %q: %w", key, err)
				}

				return &shortener.Entry{Key: key, Namespace: ns, TargetURL: targetURL, CreatedAt: stored.CreatedAt}, true, nil
			})

		return err
	})
	if err != nil {
		return nil, false, err
	}

	return entry, created, nil
}

func (s *BoltStore) Get(_ context.Context, ns shortener.Namespace, key shortener.Key) (*shortener.Entry, error) {
	var entry *shortener.Entry

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ns))
		if bucket == nil {
			return shortener.ErrNotFound
		}

		value := bucket.Bucket(keysBucket).Get([]byte(key))
		if value == nil {
			return shortener.ErrNotFound
		}

		var err error

		entry, err = decodeEntry(ns, key, value)

		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Ping reports whether the database is still open.
func (s *BoltStore) Ping(context.Context) error {
	return s.db.View(func(*bolt.Tx) error { return nil })
}

// Shutdown closes the database file.
func (s *BoltStore) Shutdown() error {
	return s.db.Close()
}

var errCorruptEntry = errors.New("corrupt entry")

func ensureNamespace(tx *bolt.Tx, ns shortener.Namespace) (keys, urls *bolt.Bucket, err error) {
	bucket, err := tx.CreateBucketIfNotExists([]byte(ns))
	if err != nil {
		return nil, nil, fmt.Errorf("could not ensure bucket %q exists: %w", ns, err)
	}

	if keys, err = bucket.CreateBucketIfNotExists(keysBucket); err != nil {
		return nil, nil, err
	}

	if urls, err = bucket.CreateBucketIfNotExists(urlsBucket); err != nil {
		return nil, nil, err
	}

	return keys, urls, nil
}

func decodeEntry(ns shortener.Namespace, key shortener.Key, value []byte) (*shortener.Entry, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: %s/%s has no value", errCorruptEntry, ns, key)
	}

	var stored boltEntry
	if err := msgpack.Unmarshal(value, &stored); err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", errCorruptEntry, ns, key, err)
	}

	return &shortener.Entry{
		Key:       key,
		Namespace: ns,
		TargetURL: stored.TargetURL,
		CreatedAt: stored.CreatedAt.UTC(),
	}, nil
}

var _ shortener.Repository = (*BoltStore)(nil)
