package analytics

import "time"

const (
	TopicEntryShared = "entry.shared"
	TopicEntryViewed = "entry.viewed"
)

// EntrySharedEvent is emitted after every successful share, including repeats.
type EntrySharedEvent struct {
	Namespace string    `json:"namespace"`
	Key       string    `json:"key"`
	TargetURL string    `json:"targetUrl"`
	Created   bool      `json:"created"`
	SharedAt  time.Time `json:"sharedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}

// EntryViewedEvent is emitted after an entry is rendered.
type EntryViewedEvent struct {
	Namespace string    `json:"namespace"`
	Key       string    `json:"key"`
	Format    string    `json:"format"`
	ViewedAt  time.Time `json:"viewedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
}
