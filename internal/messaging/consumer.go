package messaging

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/linkshare/internal/metrics"
	"go.uber.org/zap"
)

// Outcome labels recorded per consumed message.
const (
	ResultHandled   = "handled"
	ResultFailed    = "failed"
	ResultMalformed = "malformed"
)

// Handler processes a single decoded event.
type Handler[T any] func(ctx context.Context, event *T) error

// Consumer decodes JSON messages from one topic into T and hands them to a Handler.
// Handler errors nack the message for redelivery. Payloads that do not decode
// are acked and dropped, since redelivery cannot fix them.
type Consumer[T any] struct {
	subscriber message.Subscriber
	topic      string
	handler    Handler[T]
	logger     *zap.Logger

	stop   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

// NewConsumer creates a consumer of topic.
func NewConsumer[T any](subscriber message.Subscriber, topic string, handler Handler[T], logger *zap.Logger) *Consumer[T] {
	return &Consumer[T]{
		subscriber: subscriber,
		topic:      topic,
		handler:    handler,
		logger:     logger.With(zap.String("topic", topic)),
		done:       make(chan struct{}),
	}
}

// Topic returns the topic this consumer reads.
func (c *Consumer[T]) Topic() string {
	return c.topic
}

// Start subscribes and processes messages in the background until ctx is
// cancelled, the subscription closes or Shutdown is called.
func (c *Consumer[T]) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	msgs, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		cancel()

		return err
	}

	c.cancel = cancel

	go func() {
		defer close(c.done)

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				c.process(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *Consumer[T]) process(ctx context.Context, msg *message.Message) {
	log := c.logger.With(zap.String("message_id", msg.UUID))

	event := new(T)
	if err := json.Unmarshal(msg.Payload, event); err != nil {
		log.Warn("dropping malformed event", zap.Error(err))
		metrics.EventsConsumedTotal.WithLabelValues(c.topic, ResultMalformed).Inc()
		msg.Ack()

		return
	}

	if err := c.handler(ctx, event); err != nil {
		log.Error("event handler failed", zap.Error(err))
		metrics.EventsConsumedTotal.WithLabelValues(c.topic, ResultFailed).Inc()
		msg.Nack()

		return
	}

	msg.Ack()
	metrics.EventsConsumedTotal.WithLabelValues(c.topic, ResultHandled).Inc()
	log.Debug("event handled")
}

// Shutdown stops consuming and waits for the message in flight. It is safe to
// call more than once, and a no-op on a consumer that never started.
func (c *Consumer[T]) Shutdown() error {
	if c.cancel == nil {
		return nil
	}

	c.stop.Do(c.cancel)
	<-c.done

	return nil
}
