package handlers_test

import (
	"context"
	"testing"

	"github.com/serroba/linkshare/internal/handlers"
	"github.com/stretchr/testify/assert"
)

func TestRequestMetaContext(t *testing.T) {
	t.Run("round-trips metadata", func(t *testing.T) {
		meta := handlers.RequestMeta{ClientIP: "10.0.0.1", UserAgent: "agent", Referrer: "https://ref.example"}

		ctx := handlers.ContextWithRequestMeta(context.Background(), meta)

		assert.Equal(t, meta, handlers.RequestMetaFromContext(ctx))
	})

	t.Run("empty when absent", func(t *testing.T) {
		assert.Equal(t, handlers.RequestMeta{}, handlers.RequestMetaFromContext(context.Background()))
	})
}
