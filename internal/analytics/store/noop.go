package store

import (
	"context"

	"github.com/serroba/linkshare/internal/analytics"
	"go.uber.org/zap"
)

// Noop is a no-op implementation of analytics.Store that logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveEntryShared(_ context.Context, event *analytics.EntrySharedEvent) error {
	n.logger.Info("entry shared event received",
		zap.String("namespace", event.Namespace),
		zap.String("key", event.Key),
		zap.String("targetUrl", event.TargetURL),
		zap.Bool("created", event.Created),
		zap.Time("sharedAt", event.SharedAt),
	)

	return nil
}

func (n *Noop) SaveEntryViewed(_ context.Context, event *analytics.EntryViewedEvent) error {
	n.logger.Info("entry viewed event received",
		zap.String("namespace", event.Namespace),
		zap.String("key", event.Key),
		zap.String("format", event.Format),
		zap.Time("viewedAt", event.ViewedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}
