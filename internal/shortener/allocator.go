package shortener

import (
	"context"
	"fmt"
)

// DefaultKeyAttempts is the number of candidate keys tried before giving up.
const DefaultKeyAttempts = 5

// ClaimFunc atomically binds key to the target URL being shared.
// It returns the stored entry and whether this call created it, or a nil
// entry when key already belongs to a different URL.
type ClaimFunc func(ctx context.Context, key Key) (entry *Entry, created bool, err error)

// Allocator walks the candidate keys of a KeyGenerator until a backend claim
// succeeds. Backends own atomicity; the allocator owns the retry bound.
type Allocator struct {
	generator KeyGenerator
	attempts  int
}

// NewAllocator creates an allocator. Non-positive attempts use DefaultKeyAttempts.
func NewAllocator(generator KeyGenerator, attempts int) *Allocator {
	if attempts <= 0 {
		attempts = DefaultKeyAttempts
	}

	return &Allocator{
		generator: generator,
		attempts:  attempts,
	}
}

// Allocate derives keys for (ns, targetURL) and hands each to claim.
func (a *Allocator) Allocate(ctx context.Context, ns Namespace, targetURL string, claim ClaimFunc) (*Entry, bool, error) {
	for attempt := range a.attempts {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		key := a.generator.Key(ns, targetURL, attempt)

		entry, created, err := claim(ctx, key)
		if err != nil {
			return nil, false, err
		}

		if entry != nil {
			return entry, created, nil
		}
	}

	return nil, false, fmt.Errorf("%w: namespace %q after %d attempts", ErrKeySpaceExhausted, ns, a.attempts)
}
