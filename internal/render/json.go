package render

import (
	"bytes"
	"encoding/json"

	"github.com/serroba/linkshare/internal/shortener"
)

// EntryJSON is the JSON shape of an entry.
type EntryJSON struct {
	Key       string `json:"key"`
	Namespace string `json:"namespace"`
	TargetURL string `json:"target_url"`
	CreatedAt string `json:"created_at"`
}

// JSON encodes entry as a JSON object.
func JSON(entry *shortener.Entry) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	err := enc.Encode(EntryJSON{
		Key:       string(entry.Key),
		Namespace: string(entry.Namespace),
		TargetURL: entry.TargetURL,
		CreatedAt: entry.CreatedAt.UTC().Format(TimestampLayout),
	})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
