package analytics

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/linkshare/internal/messaging"
	"go.uber.org/zap"
)

// Store defines the interface for persisting analytics events.
type Store interface {
	SaveEntryShared(ctx context.Context, event *EntrySharedEvent) error
	SaveEntryViewed(ctx context.Context, event *EntryViewedEvent) error
}

// RegisterConsumers adds one consumer per analytics topic to group, each
// persisting into store.
func RegisterConsumers(group *messaging.ConsumerGroup, subscriber message.Subscriber, store Store, logger *zap.Logger) {
	group.Add(messaging.NewConsumer[EntrySharedEvent](subscriber, TopicEntryShared, store.SaveEntryShared, logger))
	group.Add(messaging.NewConsumer[EntryViewedEvent](subscriber, TopicEntryViewed, store.SaveEntryViewed, logger))
}
