package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Metadata keys set on every published message.
const (
	MetadataTopic     = "topic"
	MetadataRequestID = "request_id"
)

// Publish sends one typed event.
type Publish[T any] func(ctx context.Context, event *T) error

// NewPublishFunc returns a Publish that JSON-encodes events onto topic. The
// request ID found in ctx, if any, travels in the message metadata.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(ctx context.Context, event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", topic, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set(MetadataTopic, topic)

		if id := chimw.GetReqID(ctx); id != "" {
			msg.Metadata.Set(MetadataRequestID, id)
		}

		msg.SetContext(ctx)

		return publisher.Publish(topic, msg)
	}
}

// Discard returns a Publish that drops every event.
func Discard[T any]() Publish[T] {
	return func(context.Context, *T) error { return nil }
}

// PublisherGroup owns the publisher shared by every Publish of a process.
type PublisherGroup struct {
	publisher message.Publisher
}

// NewPublisherGroup wraps publisher.
func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

// Shutdown closes the publisher.
func (g *PublisherGroup) Shutdown() error {
	return g.publisher.Close()
}
