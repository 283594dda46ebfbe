package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkshare/internal/shortener"
)

// RegisterRoutes registers the share and show routes.
func RegisterRoutes(api huma.API, links *LinkHandler) {
	shareResponses := map[string]*huma.Response{
		"204": {Description: "No url supplied, nothing was stored"},
	}

	// GET /k/share/get/{table}?url= - Share a URL
	huma.Register(api, huma.Operation{
		OperationID:   "share-url",
		Method:        http.MethodGet,
		Path:          "/k/share/get/{table}",
		Summary:       "Share URL",
		Description:   "Stores the URL under the namespace and returns its key. Sharing the same URL again returns the same key.",
		Tags:          []string{"Share"},
		DefaultStatus: http.StatusCreated,
		Responses:     shareResponses,
	}, links.Share)

	// GET /k/share/json/{table}?url= - Alias kept for older browser extensions
	huma.Register(api, huma.Operation{
		OperationID:   "share-url-json",
		Method:        http.MethodGet,
		Path:          "/k/share/json/{table}",
		Summary:       "Share URL (legacy alias)",
		Description:   "Same as /k/share/get/{table}; kept for older browser extensions.",
		Tags:          []string{"Share"},
		DefaultStatus: http.StatusCreated,
		Responses:     shareResponses,
		Deprecated:    true,
	}, links.Share)

	shows := []struct {
		segment string
		format  shortener.Format
		summary string
		content string
	}{
		{segment: "json", format: shortener.FormatJSON, summary: "Show entry as JSON", content: "application/json"},
		{segment: "www", format: shortener.FormatHTML, summary: "Show entry as HTML", content: "text/html"},
		{segment: "rss", format: shortener.FormatRSS, summary: "Show entry as RSS", content: "application/rss+xml"},
	}

	for _, s := range shows {
		huma.Register(api, huma.Operation{
			OperationID: "show-" + s.segment,
			Method:      http.MethodGet,
			Path:        "/k/show/" + s.segment + "/{table}/{key}",
			Summary:     s.summary,
			Tags:        []string{"Show"},
			Responses: map[string]*huma.Response{
				"200": {
					Description: s.summary,
					Content:     map[string]*huma.MediaType{s.content: {}},
				},
			},
		}, links.Show(s.format))
	}
}
