package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/librarium/internal/logging"
	"github.com/dmitrijs2005/librarium/internal/server/config"
	"github.com/dmitrijs2005/librarium/internal/server/metrics"
	"github.com/dmitrijs2005/librarium/internal/server/repositories/repomanager"
)

// Server exposes the catalog over HTTP: /graphql for queries and
// mutations (plus the websocket subscription transport on the same
// path), /playground for interactive exploration, /metrics and
// /healthz for operations.
type Server struct {
	cfg        *config.Config
	logger     logging.Logger
	repos      repomanager.RepositoryManager
	schema     graphql.Schema
	metrics    metrics.Collector
	httpServer *http.Server
}

func NewServer(
	cfg *config.Config,
	logger logging.Logger,
	repos repomanager.RepositoryManager,
	schema graphql.Schema,
	collector metrics.Collector,
	reg *prometheus.Registry,
) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		repos:   repos,
		schema:  schema,
		metrics: collector,
	}

	gql := handler.New(&handler.Config{
		Schema: &s.schema,
		Pretty: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/graphql", s.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isWebSocketUpgrade(r) {
			s.serveWS(w, r)
			return
		}
		gql.ServeHTTP(w, r)
	})))
	mux.Handle("/playground", playground.Handler("Librarium", "/graphql"))
	if reg != nil {
		mux.Handle("/metrics", metrics.Handler(reg))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.httpServer = &http.Server{
		Addr:        cfg.EndpointAddr,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// Handler returns the root handler, used by tests running against
// httptest servers.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server starting", "address", s.cfg.EndpointAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info(ctx, "http server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}
