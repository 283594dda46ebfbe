package render

import (
	"fmt"

	"github.com/gorilla/feeds"
	"github.com/serroba/linkshare/internal/shortener"
)

// RSS encodes entry as an RSS 2.0 document holding a single item.
func RSS(entry *shortener.Entry) ([]byte, error) {
	created := entry.CreatedAt.UTC()

	feed := &feeds.Feed{
		Title:       string(entry.Namespace),
		Link:        &feeds.Link{Href: entry.TargetURL},
		Description: fmt.Sprintf("Links shared in %s", entry.Namespace),
		Created:     created,
		Items: []*feeds.Item{
			{
				Title:       string(entry.Key),
				Link:        &feeds.Link{Href: entry.TargetURL},
				Description: fmt.Sprintf("%s/%s", entry.Namespace, entry.Key),
				Id:          entry.TargetURL,
				Created:     created,
			},
		},
	}

	rss, err := feed.ToRss()
	if err != nil {
		return nil, err
	}

	return []byte(rss), nil
}
