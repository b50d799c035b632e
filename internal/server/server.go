// Package server exposes the content snapshot, table views, CSV exports and
// saved filters over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/smartworkmark/seo-content-portal/internal/model"
	"github.com/smartworkmark/seo-content-portal/internal/savedfilters"
	"github.com/smartworkmark/seo-content-portal/internal/storage"
)

// Cache-Control values for the content endpoint.
const (
	cacheFresh  = "no-cache, no-store, must-revalidate"
	cacheShared = "public, s-maxage=60, stale-while-revalidate=300"
)

const shutdownTimeout = 10 * time.Second

// ContentSource produces content snapshots.
type ContentSource interface {
	Fetch(ctx context.Context, forceRefresh bool) model.ContentResponse
}

// RunLog reports background refresh history.
type RunLog interface {
	LastRefresh(ctx context.Context, source model.Source) (*model.RefreshRun, error)
}

// Server serves the portal API.
type Server struct {
	content ContentSource
	filters *savedfilters.Store
	runs    RunLog
	logger  *slog.Logger
	now     func() time.Time
	loc     *time.Location
	mux     *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used for date windows and export names.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLocation sets the zone that sheet dates without an offset are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) { s.loc = loc }
}

// New creates a Server. runs may be nil, in which case /healthz reports no
// refresh history.
func New(content ContentSource, filters *savedfilters.Store, runs RunLog, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		content: content,
		filters: filters,
		runs:    runs,
		logger:  logger,
		now:     time.Now,
		loc:     time.Local,
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/content", s.handleContent)
	s.mux.HandleFunc("GET /api/content/{kind}", s.handleTable)
	s.mux.HandleFunc("GET /api/export/{kind}", s.handleExport)
	s.mux.HandleFunc("GET /api/filters", s.handleListFilters)
	s.mux.HandleFunc("POST /api/filters", s.handleSaveFilter)
	s.mux.HandleFunc("PATCH /api/filters/{id}", s.handleUpdateFilter)
	s.mux.HandleFunc("DELETE /api/filters/{id}", s.handleDeleteFilter)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the HTTP handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// fetch turns a panic in the content source into an error so the handler
// can answer with a 500 instead of dropping the connection.
func (s *Server) fetch(ctx context.Context, forceRefresh bool) (snap model.ContentResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch content: %v", r)
		}
	}()
	return s.content.Fetch(ctx, forceRefresh), nil
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "true"

	snap, err := s.fetch(r.Context(), refresh)
	if err != nil {
		s.logger.Error("fetch content", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch content")
		return
	}

	if refresh {
		w.Header().Set("Cache-Control", cacheFresh)
	} else {
		w.Header().Set("Cache-Control", cacheShared)
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Status      string            `json:"status"`
		LastRefresh *model.RefreshRun `json:"lastRefresh"`
	}{Status: "ok"}

	if s.runs != nil {
		run, err := s.runs.LastRefresh(r.Context(), "")
		switch {
		case err == nil:
			resp.LastRefresh = run
		case !errors.Is(err, storage.ErrNotFound):
			s.logger.Warn("read last refresh", "error", err)
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
