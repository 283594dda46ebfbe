package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/do"
	"github.com/serroba/linkshare/internal/handlers"
	"github.com/serroba/linkshare/internal/health"
	"github.com/serroba/linkshare/internal/metrics"
	"github.com/serroba/linkshare/internal/middleware"
	"github.com/serroba/linkshare/internal/shortener"
	"go.uber.org/zap"
)

// HTTPPackage provides the router, the huma API and the link handler.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, NewRouter)
	do.Provide(i, NewLinkHandler)
	do.Provide(i, NewAPI)
}

// NewRouter creates the chi router with its middleware stack.
func NewRouter(i *do.Injector) (*chi.Mux, error) {
	logger := do.MustInvoke[*zap.Logger](i)

	router := chi.NewMux()
	router.Use(chimw.RequestID)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimw.Recoverer)

	return router, nil
}

// NewLinkHandler wires the share and show handlers to their services and publishers.
func NewLinkHandler(i *do.Injector) (*handlers.LinkHandler, error) {
	events := do.MustInvoke[*Events](i)

	return handlers.NewLinkHandler(
		do.MustInvoke[*shortener.ShareService](i),
		do.MustInvoke[*shortener.ShowService](i),
		events.Shared,
		events.Viewed,
		do.MustInvoke[*zap.Logger](i),
	), nil
}

// NewAPI registers every route on the router. Paths nothing matches fall
// through to the static file handler.
func NewAPI(i *do.Injector) (huma.API, error) {
	opts := do.MustInvoke[*Options](i)
	router := do.MustInvoke[*chi.Mux](i)

	api := humachi.New(router, huma.DefaultConfig("Linkshare API", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))

	handlers.RegisterRoutes(api, do.MustInvoke[*handlers.LinkHandler](i))
	health.RegisterRoutes(api, health.NewHandler(healthCheckers(i, opts)))

	router.Handle("/metrics", metrics.Handler())
	router.NotFound(handlers.NewStaticHandler(opts.StaticDir).ServeHTTP)

	return api, nil
}

func healthCheckers(i *do.Injector, opts *Options) map[string]health.Checker {
	checkers := map[string]health.Checker{}

	if checker, ok := do.MustInvoke[shortener.Repository](i).(health.Checker); ok {
		checkers["store"] = checker
	}

	if opts.Events == EventsRedis && opts.Store != StoreRedis && opts.CacheTTLSeconds == 0 {
		checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client)
	}

	return checkers
}
