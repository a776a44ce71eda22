package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/ballmap"
	"github.com/hupe1980/ballmap/catalog"
	"github.com/hupe1980/ballmap/codec"
	"github.com/hupe1980/ballmap/layerstore"
	"github.com/hupe1980/ballmap/prom"
	"github.com/hupe1980/ballmap/resource"
)

// DefaultRequestTimeout bounds each request when Options.RequestTimeout is unset.
const DefaultRequestTimeout = 2 * time.Minute

// Options configures a Server.
type Options struct {
	// RequestTimeout bounds each request.
	RequestTimeout time.Duration

	// CORSOrigins lists the origins allowed to call the API.
	CORSOrigins []string

	// Logger receives request logs. Defaults to a no-op logger.
	Logger *ballmap.Logger

	// Metrics records request metrics. May be nil.
	Metrics *prom.Collector

	// Gatherer is served on /metrics. The route is omitted when nil.
	Gatherer prometheus.Gatherer

	// ResourceController bounds concurrent builds and matrix memory. May be nil.
	ResourceController *resource.Controller

	// Codec encodes response bodies. Defaults to codec.Default.
	Codec codec.Codec
}

// Server serves the ballmap HTTP API.
type Server struct {
	mapper  *ballmap.Mapper
	layers  *layerstore.Store
	catalog *catalog.Catalog
	opts    Options
	router  chi.Router
}

// New creates a Server.
func New(mapper *ballmap.Mapper, layers *layerstore.Store, cat *catalog.Catalog, optFns ...func(o *Options)) *Server {
	opts := Options{
		RequestTimeout: DefaultRequestTimeout,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = ballmap.NoopLogger()
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	s := &Server{
		mapper:  mapper,
		layers:  layers,
		catalog: cat,
		opts:    opts,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	if s.opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))

		r.Get("/datasets", s.datasets)
		r.Get("/concept-datasets", s.conceptDatasets)
		r.Post("/load-data", s.loadData)
		r.Get("/layer-data/{layer}", s.layerData)
		r.Get("/layer/{layer}/ballmapper", s.ballmapper)
		r.Get("/nearest-saes/{layer}/{index}", s.nearest)
		r.Get("/sae-details/{layer}/{index}", s.saeDetails)
		r.Get("/concepts/{layer}", s.concepts)
		r.Get("/search-concept/{layer}", s.searchConcept)
		r.Get("/category-overlaps/{layer}", s.categoryOverlaps)
		r.Get("/pinned-category-overlaps/{layer}", s.pinnedCategoryOverlaps)
	})

	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.opts.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
