package shortener

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ShareResult reports the outcome of a successful share.
type ShareResult struct {
	Entry   *Entry
	Created bool
}

// ShareService validates and stores shared URLs. It is the only writer.
type ShareService struct {
	store  Repository
	logger *zap.Logger
}

// NewShareService creates a share service over store.
func NewShareService(store Repository, logger *zap.Logger) *ShareService {
	return &ShareService{
		store:  store,
		logger: logger,
	}
}

// Share stores rawURL under the namespace. An empty rawURL yields ErrMissingURL,
// an unparsable one ErrInvalidURL.
func (s *ShareService) Share(ctx context.Context, namespace, rawURL string) (*ShareResult, error) {
	ns, err := ParseNamespace(namespace)
	if err != nil {
		return nil, err
	}

	if rawURL == "" {
		s.logger.Info("share without url", zap.String("namespace", string(ns)))

		return nil, ErrMissingURL
	}

	targetURL, err := NormalizeURL(rawURL)
	if err != nil {
		s.logger.Debug("rejected url",
			zap.String("namespace", string(ns)),
			zap.String("url", rawURL),
			zap.Error(err),
		)

		return nil, err
	}

	entry, created, err := s.store.PutIfAbsent(ctx, ns, targetURL)
	if err != nil {
		if errors.Is(err, ErrKeySpaceExhausted) {
			s.logger.Error("key space exhausted",
				zap.String("namespace", string(ns)),
				zap.String("url", targetURL),
				zap.Error(err),
			)
		}

		return nil, err
	}

	s.logger.Info("sharing url",
		zap.String("namespace", string(ns)),
		zap.String("key", string(entry.Key)),
		zap.String("url", entry.TargetURL),
		zap.Bool("created", created),
	)

	return &ShareResult{Entry: entry, Created: created}, nil
}
