package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/samber/do"
	"github.com/serroba/linkshare/internal/analytics"
	analyticsstore "github.com/serroba/linkshare/internal/analytics/store"
	"github.com/serroba/linkshare/internal/messaging"
	"go.uber.org/zap"
)

// Events holds the typed publishers for analytics events.
type Events struct {
	Shared messaging.Publish[analytics.EntrySharedEvent]
	Viewed messaging.Publish[analytics.EntryViewedEvent]

	// Analytics tallies delivered events when they are consumed in process.
	Analytics *analyticsstore.Memory

	publishers *messaging.PublisherGroup
	consumers  *messaging.ConsumerGroup
}

// Shutdown stops in-process consumers and closes the publisher.
func (e *Events) Shutdown() error {
	var errs []error

	if e.consumers != nil {
		errs = append(errs, e.consumers.Shutdown())
	}

	if e.publishers != nil {
		errs = append(errs, e.publishers.Shutdown())
	}

	return errors.Join(errs...)
}

// EventsPackage provides *Events according to Options.Events.
func EventsPackage(i *do.Injector) {
	do.Provide(i, NewEvents)
}

// NewEvents wires the publishers. "none" discards events, "memory" delivers
// them to in-process consumers that tally them, "redis" publishes to Redis
// streams for cmd/consumer.
func NewEvents(i *do.Injector) (*Events, error) {
	opts := do.MustInvoke[*Options](i)
	logger := do.MustInvoke[*zap.Logger](i)

	switch opts.Events {
	case EventsNone, "":
		return &Events{
			Shared: messaging.Discard[analytics.EntrySharedEvent](),
			Viewed: messaging.Discard[analytics.EntryViewedEvent](),
		}, nil
	case EventsMemory:
		pubSub := messaging.NewMemoryPubSub(logger)
		tally := analyticsstore.NewMemory()

		group := messaging.NewConsumerGroup(pubSub, logger)
		analytics.RegisterConsumers(group, pubSub, tally, logger)

		if err := group.Start(context.Background()); err != nil {
			return nil, fmt.Errorf("start in-process consumers: %w", err)
		}

		events := newEvents(pubSub)
		events.consumers = group
		events.Analytics = tally

		return events, nil
	case EventsRedis:
		client := do.MustInvoke[*RedisClient](i)

		publisher, err := messaging.NewRedisPublisher(client.Client, logger)
		if err != nil {
			return nil, fmt.Errorf("create redis publisher: %w", err)
		}

		return newEvents(publisher), nil
	default:
		return nil, fmt.Errorf("unknown events mode %q", opts.Events)
	}
}

func newEvents(publisher message.Publisher) *Events {
	return &Events{
		Shared:     messaging.NewPublishFunc[analytics.EntrySharedEvent](publisher, analytics.TopicEntryShared),
		Viewed:     messaging.NewPublishFunc[analytics.EntryViewedEvent](publisher, analytics.TopicEntryViewed),
		publishers: messaging.NewPublisherGroup(publisher),
	}
}

// ConsumerGroupPackage provides the Redis-backed analytics consumer group
// run by cmd/consumer.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*ConsumerOptions](i)
		client := do.MustInvoke[*RedisClient](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := messaging.NewRedisSubscriber(client.Client, opts.ConsumerGroup, logger)
		if err != nil {
			return nil, fmt.Errorf("create redis subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		analytics.RegisterConsumers(group, subscriber, analyticsstore.NewNoop(logger), logger)

		return group, nil
	})
}
