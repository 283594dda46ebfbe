package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/linkshare/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConsumer struct {
	topic       string
	startErr    error
	shutdownErr error
	running     bool
	stopped     bool
}

func (f *fakeConsumer) Topic() string { return f.topic }

func (f *fakeConsumer) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}

	f.running = true

	return nil
}

func (f *fakeConsumer) Shutdown() error {
	f.running = false
	f.stopped = true

	return f.shutdownErr
}

func TestConsumerGroup(t *testing.T) {
	t.Run("starts consumers in order", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newChanSubscriber(), zap.NewNop())
		shared := &fakeConsumer{topic: "entry.shared"}
		viewed := &fakeConsumer{topic: "entry.viewed"}

		group.Add(shared)
		group.Add(viewed)

		require.NoError(t, group.Start(context.Background()))
		assert.True(t, shared.running)
		assert.True(t, viewed.running)
		assert.Equal(t, []string{"entry.shared", "entry.viewed"}, group.Topics())
	})

	t.Run("failed start stops the consumers already running", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newChanSubscriber(), zap.NewNop())
		shared := &fakeConsumer{topic: "entry.shared"}
		viewed := &fakeConsumer{topic: "entry.viewed", startErr: errors.New("boom")}

		group.Add(shared)
		group.Add(viewed)

		err := group.Start(context.Background())

		require.ErrorContains(t, err, "entry.viewed")
		assert.True(t, shared.stopped)
		assert.False(t, shared.running)
		assert.False(t, viewed.stopped)
	})

	t.Run("shutdown stops everyone and joins errors", func(t *testing.T) {
		sub := newChanSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		first := &fakeConsumer{topic: "a", shutdownErr: errors.New("first failed")}
		second := &fakeConsumer{topic: "b", shutdownErr: errors.New("second failed")}

		group.Add(first)
		group.Add(second)
		require.NoError(t, group.Start(context.Background()))

		err := group.Shutdown()

		require.Error(t, err)
		assert.ErrorContains(t, err, "first failed")
		assert.ErrorContains(t, err, "second failed")
		assert.True(t, first.stopped)
		assert.True(t, second.stopped)

		_, open := <-sub.msgs
		assert.False(t, open, "subscriber closed")
	})
}
