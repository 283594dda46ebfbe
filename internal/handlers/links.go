package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkshare/internal/analytics"
	"github.com/serroba/linkshare/internal/messaging"
	"github.com/serroba/linkshare/internal/metrics"
	"github.com/serroba/linkshare/internal/shortener"
	"go.uber.org/zap"
)

// LinkHandler translates HTTP requests into share and show calls.
type LinkHandler struct {
	share         *shortener.ShareService
	show          *shortener.ShowService
	publishShared messaging.Publish[analytics.EntrySharedEvent]
	publishViewed messaging.Publish[analytics.EntryViewedEvent]
	logger        *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	share *shortener.ShareService,
	show *shortener.ShowService,
	publishShared messaging.Publish[analytics.EntrySharedEvent],
	publishViewed messaging.Publish[analytics.EntryViewedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		share:         share,
		show:          show,
		publishShared: publishShared,
		publishViewed: publishViewed,
		logger:        logger,
	}
}

func (h *LinkHandler) Share(ctx context.Context, req *ShareRequest) (*ShareResponse, error) {
	res, err := h.share.Share(ctx, req.Table, req.URL)
	if err != nil {
		return h.shareError(err)
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.EntrySharedEvent{
		Namespace: string(res.Entry.Namespace),
		Key:       string(res.Entry.Key),
		TargetURL: res.Entry.TargetURL,
		Created:   res.Created,
		SharedAt:  time.Now().UTC(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publishShared(ctx, event); err != nil {
		metrics.EventPublishErrorsTotal.WithLabelValues(analytics.TopicEntryShared).Inc()
		h.logger.Error("failed to publish analytics event",
			zap.String("namespace", event.Namespace),
			zap.String("key", event.Key),
			zap.Error(err),
		)
	}

	resp := &ShareResponse{
		Status: http.StatusOK,
		Body: &ShareBody{
			Status:  "success",
			Key:     string(res.Entry.Key),
			Created: res.Created,
		},
	}

	if res.Created {
		resp.Status = http.StatusCreated

		metrics.SharesTotal.WithLabelValues("created").Inc()
	} else {
		metrics.SharesTotal.WithLabelValues("existing").Inc()
	}

	return resp, nil
}

func (h *LinkHandler) shareError(err error) (*ShareResponse, error) {
	switch {
	case errors.Is(err, shortener.ErrMissingURL):
		metrics.SharesTotal.WithLabelValues("missing_url").Inc()

		return &ShareResponse{Status: http.StatusNoContent}, nil
	case errors.Is(err, shortener.ErrInvalidURL):
		metrics.SharesTotal.WithLabelValues("invalid_url").Inc()

		return nil, huma.Error400BadRequest("invalid url", err)
	case errors.Is(err, shortener.ErrInvalidNamespace):
		metrics.SharesTotal.WithLabelValues("invalid_namespace").Inc()

		return nil, huma.Error400BadRequest("invalid namespace", err)
	case errors.Is(err, shortener.ErrKeySpaceExhausted):
		metrics.SharesTotal.WithLabelValues("exhausted").Inc()
		metrics.KeySpaceExhaustedTotal.Inc()

		return nil, huma.Error503ServiceUnavailable("no free key for this url, try again later")
	default:
		metrics.SharesTotal.WithLabelValues("error").Inc()
		h.logger.Error("share failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to share url")
	}
}

// Show returns the huma handler rendering entries in format.
func (h *LinkHandler) Show(format shortener.Format) func(context.Context, *ShowRequest) (*ShowResponse, error) {
	return func(ctx context.Context, req *ShowRequest) (*ShowResponse, error) {
		out, err := h.show.Show(ctx, req.Table, req.Key, format)
		if err != nil {
			if errors.Is(err, shortener.ErrNotFound) {
				metrics.ShowsTotal.WithLabelValues(string(format), "not_found").Inc()

				return nil, huma.Error404NotFound("entry not found")
			}

			metrics.ShowsTotal.WithLabelValues(string(format), "error").Inc()
			h.logger.Error("show failed",
				zap.String("namespace", req.Table),
				zap.String("key", req.Key),
				zap.String("format", string(format)),
				zap.Error(err),
			)

			return nil, huma.Error500InternalServerError("failed to render entry")
		}

		metrics.ShowsTotal.WithLabelValues(string(format), "ok").Inc()

		meta := RequestMetaFromContext(ctx)
		event := &analytics.EntryViewedEvent{
			Namespace: string(out.Entry.Namespace),
			Key:       string(out.Entry.Key),
			Format:    string(format),
			ViewedAt:  time.Now().UTC(),
			ClientIP:  meta.ClientIP,
			UserAgent: meta.UserAgent,
			Referrer:  meta.Referrer,
		}

		if err := h.publishViewed(ctx, event); err != nil {
			metrics.EventPublishErrorsTotal.WithLabelValues(analytics.TopicEntryViewed).Inc()
			h.logger.Error("failed to publish access event",
				zap.String("namespace", event.Namespace),
				zap.String("key", event.Key),
				zap.Error(err),
			)
		}

		return &ShowResponse{
			ContentType: out.ContentType,
			Body:        out.Body,
		}, nil
	}
}
