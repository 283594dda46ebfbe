package shortener

import (
	"context"
	"fmt"
)

// Format selects how an entry is rendered.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatRSS  Format = "rss"
)

// Rendered is an entry encoded in one format.
type Rendered struct {
	Entry       *Entry
	Format      Format
	ContentType string
	Body        []byte
}

// Renderer encodes entries. Implementations must be pure.
type Renderer interface {
	Render(format Format, entry *Entry) (*Rendered, error)
}

// ShowService looks entries up and renders them. It never writes.
type ShowService struct {
	store    Repository
	renderer Renderer
}

// NewShowService creates a show service.
func NewShowService(store Repository, renderer Renderer) *ShowService {
	return &ShowService{
		store:    store,
		renderer: renderer,
	}
}

// Show renders the entry stored under (namespace, key).
// Unknown or malformed namespaces and keys yield ErrNotFound.
func (s *ShowService) Show(ctx context.Context, namespace, key string, format Format) (*Rendered, error) {
	switch format {
	case FormatJSON, FormatHTML, FormatRSS:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	ns, err := ParseNamespace(namespace)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if key == "" || len(key) > MaxKeyLength {
		return nil, ErrNotFound
	}

	entry, err := s.store.Get(ctx, ns, Key(key))
	if err != nil {
		return nil, err
	}

	return s.renderer.Render(format, entry)
}
