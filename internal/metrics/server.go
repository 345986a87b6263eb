package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/doridoridoriand/uptime-go/internal/report"
	"github.com/doridoridoriand/uptime-go/internal/tracker"
)

// HistorySource provides outage history snapshots.
type HistorySource interface {
	SnapshotHistory() []tracker.OutageRecord
}

// Server exposes the outage report and Prometheus metrics over HTTP.
type Server struct {
	source   HistorySource
	gatherer prometheus.Gatherer
	scale    int
	caption  string
	logger   zerolog.Logger
	now      func() time.Time
}

// NewServer constructs a server. caption is printed under the text report.
func NewServer(source HistorySource, gatherer prometheus.Gatherer, scale int, caption string, logger zerolog.Logger) *Server {
	return &Server{
		source:   source,
		gatherer: gatherer,
		scale:    scale,
		caption:  caption,
		logger:   logger,
		now:      time.Now,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/report", s.handleReport)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	rep := report.Build(s.source.SnapshotHistory(), s.now(), s.scale)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := report.WriteText(w, rep, s.caption); err != nil {
		s.logger.Debug().Err(err).Msg("write report")
	}
}

// Serve starts an HTTP server on addr and blocks until context cancellation.
func (s *Server) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	s.logger.Info().Str("addr", addr).Msg("http listener started")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return context.Canceled
		}
		return err
	}
}
