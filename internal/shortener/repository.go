package shortener

import "context"

// Repository is the Namespace Store contract. Implementations must make
// PutIfAbsent atomic per (namespace, target URL) and per (namespace, key).
type Repository interface {
	// PutIfAbsent returns the existing entry for (ns, targetURL) with created=false,
	// or allocates a key, stores a new entry and returns it with created=true.
	PutIfAbsent(ctx context.Context, ns Namespace, targetURL string) (entry *Entry, created bool, err error)

	// Get returns ErrNotFound if the namespace or key is unknown.
	Get(ctx context.Context, ns Namespace, key Key) (*Entry, error)
}
