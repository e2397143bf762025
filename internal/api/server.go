// SPDX-License-Identifier: MIT

// Package api exposes the playlist, refresh control and health endpoints
// over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/h-iptv/iptv/internal/api/middleware"
	"github.com/h-iptv/iptv/internal/config"
	"github.com/h-iptv/iptv/internal/jobs"
	xlog "github.com/h-iptv/iptv/internal/log"
	"github.com/h-iptv/iptv/internal/rules"
)

// Server is the HTTP API server.
type Server struct {
	cfg        config.AppConfig
	eng        *rules.Engine
	mu         sync.RWMutex
	status     jobs.Status
	refreshing atomic.Bool // serialize refreshes
	startTime  time.Time

	// refreshFn allows tests to stub the refresh operation.
	refreshFn func(context.Context, jobs.Config, *rules.Engine) (*jobs.Status, error)
}

// New creates a Server for the given configuration and rule engine.
func New(cfg config.AppConfig, eng *rules.Engine) *Server {
	return &Server{
		cfg:       cfg,
		eng:       eng,
		startTime: time.Now(),
		refreshFn: jobs.Refresh,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.With(middleware.RefreshRateLimit()).Post("/refresh", s.handleRefresh)
	})

	r.Handle("/files/*", http.StripPrefix("/files/", s.fileServer()))
	return r
}

// SetStatus records the result of a refresh run performed outside a request,
// such as the startup refresh.
func (s *Server) SetStatus(st jobs.Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *Server) jobConfig() jobs.Config {
	return jobs.Config{
		SourceURL:    s.cfg.SourceURL,
		DataDir:      s.cfg.DataDir,
		PlaylistName: s.cfg.PlaylistName,
		FetchTimeout: s.cfg.FetchTimeout,
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	st := s.status
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	logger := xlog.WithComponentFromContext(r.Context(), "api")

	if !s.refreshing.CompareAndSwap(false, true) {
		logger.Warn().Str(xlog.FieldEvent, "refresh.busy").Msg("refresh already in flight")
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "refresh already in progress",
		})
		return
	}
	defer s.refreshing.Store(false)

	st, err := s.refreshFn(r.Context(), s.jobConfig(), s.eng)
	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "refresh.failed").Msg("refresh failed")
		failed := jobs.Status{LastRun: time.Now(), Error: err.Error()}
		s.SetStatus(failed)
		writeJSON(w, http.StatusBadGateway, failed)
		return
	}

	s.SetStatus(*st)
	writeJSON(w, http.StatusOK, st)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := xlog.WithComponent("api")
		logger.Debug().Err(err).Msg("write json response")
	}
}
