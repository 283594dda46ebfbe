package shortener

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// KeyAlphabet is the URL-safe alphabet keys are drawn from.
const KeyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	// DefaultKeyLength is the key length used when none is configured.
	DefaultKeyLength = 8
	// MaxKeyLength bounds configured key lengths.
	MaxKeyLength = 32
	// MinKeyLength bounds configured key lengths.
	MinKeyLength = 4
)

var errKeyLength = fmt.Errorf("key length must be between %d and %d", MinKeyLength, MaxKeyLength)

// KeyGenerator derives the candidate key for a (namespace, target URL) pair.
// attempt starts at 0 and grows by one each time the previous candidate was
// already held by a different URL.
type KeyGenerator interface {
	Key(ns Namespace, targetURL string, attempt int) Key
}

// HashKeyGenerator derives keys deterministically from a SHA256 digest of the
// namespace, the target URL and the attempt counter.
type HashKeyGenerator struct {
	length int
}

// NewHashKeyGenerator creates a deterministic key generator.
func NewHashKeyGenerator(length int) (*HashKeyGenerator, error) {
	if length < MinKeyLength || length > MaxKeyLength {
		return nil, errKeyLength
	}

	return &HashKeyGenerator{length: length}, nil
}

func (g *HashKeyGenerator) Key(ns Namespace, targetURL string, attempt int) Key {
	h := sha256.New()
	h.Write([]byte(ns))
	h.Write([]byte{0})
	h.Write([]byte(targetURL))
	h.Write([]byte{0})

	var counter [8]byte

	binary.BigEndian.PutUint64(counter[:], uint64(attempt))
	h.Write(counter[:])

	sum := h.Sum(nil)
	key := make([]byte, g.length)

	for i := range key {
		key[i] = KeyAlphabet[int(sum[i])%len(KeyAlphabet)]
	}

	return Key(key)
}

// TokenKeyGenerator draws random nanoid keys and ignores its inputs.
// Stores still deduplicate on the target URL, so re-shares stay idempotent.
type TokenKeyGenerator struct {
	generate func() string
}

// NewTokenKeyGenerator creates a random key generator over KeyAlphabet.
func NewTokenKeyGenerator(length int) (*TokenKeyGenerator, error) {
	if length < MinKeyLength || length > MaxKeyLength {
		return nil, errKeyLength
	}

	generate, err := nanoid.CustomASCII(KeyAlphabet, length)
	if err != nil {
		return nil, err
	}

	return &TokenKeyGenerator{generate: generate}, nil
}

func (g *TokenKeyGenerator) Key(Namespace, string, int) Key {
	return Key(g.generate())
}

// Strategy names a key generation scheme.
type Strategy string

const (
	StrategyHash  Strategy = "hash"
	StrategyToken Strategy = "token"
)

var errUnknownStrategy = errors.New("unknown key strategy")

// NewKeyGenerator builds the generator for the named strategy.
func NewKeyGenerator(strategy Strategy, length int) (KeyGenerator, error) {
	switch strategy {
	case StrategyHash, "":
		return NewHashKeyGenerator(length)
	case StrategyToken:
		return NewTokenKeyGenerator(length)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownStrategy, strategy)
	}
}
