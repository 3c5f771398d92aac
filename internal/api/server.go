// Package api exposes the store over HTTP: the public ranked read, the
// URL submission endpoint and the report relay.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/links"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
)

// Routes. The Netlify paths keep the existing front-end working unchanged.
const (
	RouteURLs   = "/api/urls"
	RouteReport = "/api/report"

	LegacyGetURLs  = "/.netlify/functions/get-urls"
	LegacySaveURLs = "/.netlify/functions/save-urls-to-github"
	LegacyReport   = "/.netlify/functions/send-report"
	LegacyViewURLs = "/.netlify/functions/get-urls-from-github"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

type Server struct {
	svc *links.Service
	ids IDGenerator
	now func() time.Time
	mux *http.ServeMux
}

type Option func(*Server)

func WithIDGenerator(g IDGenerator) Option {
	return func(s *Server) { s.ids = g }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(svc *links.Service, opts ...Option) *Server {
	s := &Server{svc: svc, ids: UUIDGenerator{}, now: time.Now, mux: http.NewServeMux()}
	for _, opt := range opts {
		opt(s)
	}

	urls := allow(s.handleURLs, http.MethodGet, http.MethodPost)
	s.mux.Handle(RouteURLs, urls)
	s.mux.Handle(LegacyGetURLs, allow(s.handleURLs, http.MethodGet))
	s.mux.Handle(LegacySaveURLs, allow(s.handleURLs, http.MethodPost))
	s.mux.Handle(LegacyViewURLs, allow(s.handleView, http.MethodGet))

	report := allow(s.handleReport, http.MethodPost)
	s.mux.Handle(RouteReport, report)
	s.mux.Handle(LegacyReport, report)
	return s
}

// Handler is the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.withRequestLog(s.withRecover(cors(s.mux)))
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for up to grace.
func (s *Server) ListenAndServe(ctx context.Context, addr string, grace time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
