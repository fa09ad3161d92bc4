// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/shipwatch/internal/config"
	"github.com/tomtom215/shipwatch/internal/localcache"
	"github.com/tomtom215/shipwatch/internal/logging"
	"github.com/tomtom215/shipwatch/internal/models"
	"github.com/tomtom215/shipwatch/internal/relay"
)

// candidatesCacheKey is the single key under which the candidate response
// is cached between rebuilds.
const candidatesCacheKey = "candidates"

// VesselRelay is the view of the relay the API needs. *relay.Relay
// satisfies it; tests substitute fakes.
type VesselRelay interface {
	Snapshot() *models.Snapshot
	CandidateReports() []models.CandidateReport
	Status() relay.Status
	IsConnected() bool
	ConnectedSince() time.Time
	VesselCount() int
	MessageCount() uint64
}

// Server holds the API dependencies.
type Server struct {
	cfg        config.ServerConfig
	relay      VesselRelay
	candidates *localcache.Cache[[]models.CandidateReport]

	// candidatesTTL bounds how stale a cached candidate response may be.
	candidatesTTL time.Duration

	instanceID string
	startedAt  time.Time
}

// NewServer builds the API server. The candidates cache may be nil, in
// which case every request hits the relay directly.
func NewServer(
	cfg config.ServerConfig,
	vesselRelay VesselRelay,
	candidates *localcache.Cache[[]models.CandidateReport],
	candidatesTTL time.Duration,
	instanceID string,
) *Server {
	return &Server{
		cfg:           cfg,
		relay:         vesselRelay,
		candidates:    candidates,
		candidatesTTL: candidatesTTL,
		instanceID:    instanceID,
		startedAt:     time.Now(),
	}
}

// Router builds the chi router with the standard middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))
	if s.cfg.RateLimitReqs > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimitReqs, s.cfg.RateLimitWindow))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/candidates", s.handleCandidates)
		r.Get("/chokepoints", s.handleChokepoints)
		r.Get("/status", s.handleStatus)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.relay.Snapshot())
}

// handleCandidates serves the candidate watchlist, answering from the
// local cache while the cached copy is fresh.
func (s *Server) handleCandidates(w http.ResponseWriter, _ *http.Request) {
	if s.candidates != nil {
		if cached, ok := s.candidates.Get(candidatesCacheKey); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	reports := s.relay.CandidateReports()
	if s.candidates != nil {
		s.candidates.Set(candidatesCacheKey, reports, s.candidatesTTL)
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleChokepoints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, relay.Chokepoints())
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	status := struct {
		InstanceID     string `json:"instanceId"`
		Status         string `json:"status"`
		Connected      bool   `json:"connected"`
		ConnectedSince string `json:"connectedSince,omitempty"`
		UptimeSeconds  int64  `json:"uptimeSeconds"`
		VesselCount    int    `json:"vesselCount"`
		MessageCount   uint64 `json:"messageCount"`
	}{
		InstanceID:    s.instanceID,
		Status:        string(s.relay.Status()),
		Connected:     s.relay.IsConnected(),
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		VesselCount:   s.relay.VesselCount(),
		MessageCount:  s.relay.MessageCount(),
	}
	if since := s.relay.ConnectedSince(); !since.IsZero() {
		status.ConnectedSince = since.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, status)
}

// writeJSON encodes v to the response. Encoding failures after the header
// is written can only be logged.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("response encode failed")
	}
}
