// Package render encodes stored entries as JSON, HTML fragments or RSS.
package render

import (
	"fmt"
	"html/template"
	"time"

	"github.com/serroba/linkshare/internal/shortener"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeRSS  = "application/rss+xml; charset=utf-8"
)

// TimestampLayout is the ISO-8601 layout shared by the JSON and HTML renderings.
const TimestampLayout = time.RFC3339

// Renderer dispatches to the per-format encoders. It is safe for concurrent use.
type Renderer struct {
	html *template.Template
}

// New creates a renderer.
func New() *Renderer {
	return &Renderer{html: entryTemplate}
}

// Render encodes entry in format.
func (r *Renderer) Render(format shortener.Format, entry *shortener.Entry) (*shortener.Rendered, error) {
	var (
		body        []byte
		contentType string
		err         error
	)

	switch format {
	case shortener.FormatJSON:
		body, err = JSON(entry)
		contentType = ContentTypeJSON
	case shortener.FormatHTML:
		body, err = r.HTML(entry)
		contentType = ContentTypeHTML
	case shortener.FormatRSS:
		body, err = RSS(entry)
		contentType = ContentTypeRSS
	default:
		return nil, fmt.Errorf("%w: %q", shortener.ErrUnknownFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	return &shortener.Rendered{
		Entry:       entry,
		Format:      format,
		ContentType: contentType,
		Body:        body,
	}, nil
}

var _ shortener.Renderer = (*Renderer)(nil)
