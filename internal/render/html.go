package render

import (
	"bytes"
	"html/template"

	"github.com/serroba/linkshare/internal/shortener"
)

const humanLayout = "January 2, 2006 at 15:04:05 UTC"

var entryTemplate = template.Must(template.New("entry").Parse(
	`<div class="entry" data-namespace="{{.Namespace}}" data-key="{{.Key}}">` +
		`<a href="{{.TargetURL}}" rel="nofollow noopener">{{.TargetURL}}</a> ` +
		`<time datetime="{{.Timestamp}}">{{.Human}}</time>` +
		`</div>` + "\n",
))

type htmlEntry struct {
	Namespace string
	Key       string
	TargetURL string
	Timestamp string
	Human     string
}

// HTML encodes entry as a self-contained HTML fragment. Every value is
// escaped for its context by html/template.
func (r *Renderer) HTML(entry *shortener.Entry) ([]byte, error) {
	created := entry.CreatedAt.UTC()

	var buf bytes.Buffer

	err := r.html.Execute(&buf, htmlEntry{
		Namespace: string(entry.Namespace),
		Key:       string(entry.Key),
		TargetURL: entry.TargetURL,
		Timestamp: created.Format(TimestampLayout),
		Human:     created.Format(humanLayout),
	})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
