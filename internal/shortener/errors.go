package shortener

import "errors"

var (
	// ErrMissingURL is returned when a share request carries no URL at all.
	ErrMissingURL = errors.New("missing url")

	// ErrInvalidURL is returned when a URL fails parsing or validation.
	ErrInvalidURL = errors.New("invalid url")

	// ErrInvalidNamespace is returned for empty, oversized or malformed namespaces.
	ErrInvalidNamespace = errors.New("invalid namespace")

	// ErrNotFound is returned when no entry exists for a (namespace, key) pair.
	ErrNotFound = errors.New("entry not found")

	// ErrKeySpaceExhausted is returned when no free key was found within the
	// configured number of attempts.
	ErrKeySpaceExhausted = errors.New("key space exhausted")

	// ErrUnknownFormat is returned for formats outside the supported set.
	ErrUnknownFormat = errors.New("unknown format")
)
