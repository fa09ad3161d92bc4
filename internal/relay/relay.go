// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package relay

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/shipwatch/internal/config"
	"github.com/tomtom215/shipwatch/internal/logging"
	"github.com/tomtom215/shipwatch/internal/metrics"
	"github.com/tomtom215/shipwatch/internal/models"
)

// Status is the relay connection state reported to the host.
type Status string

const (
	// StatusInactive means the relay has no upstream credential (or no
	// dialer) and will never connect. The rest of the server runs normally.
	StatusInactive Status = "inactive"

	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusReconnecting Status = "reconnecting"
	StatusStopped      Status = "stopped"
)

// Conn is the subset of a websocket connection the relay uses.
// *websocket.Conn satisfies it; tests substitute fakes.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v any) error
	Close() error
}

// Dialer opens upstream connections.
type Dialer interface {
	DialContext(ctx context.Context, url string) (Conn, error)
}

// gorillaDialer adapts websocket.Dialer to the relay's Dialer interface.
type gorillaDialer struct {
	dialer *websocket.Dialer
}

// NewDialer returns the production websocket dialer.
func NewDialer() Dialer {
	return &gorillaDialer{dialer: websocket.DefaultDialer}
}

func (g *gorillaDialer) DialContext(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := g.dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Relay owns the upstream connection state machine and the aggregation
// state. All mutable fields are guarded by mu; message handling runs to
// completion under the lock, so per-message effects are atomic.
type Relay struct {
	cfg      config.RelayConfig
	upstream config.UpstreamConfig
	dialer   Dialer

	mu          sync.Mutex
	status      Status
	state       *aggregationState
	connectedAt time.Time

	// Snapshot cache, owned by BuildSnapshot.
	snapshot     *models.Snapshot
	snapshotSeq  uint64
	lastBuild    time.Time
	lastActivity time.Time
}

// New builds a relay. A nil dialer or empty upstream API key keeps the
// relay permanently inactive.
func New(cfg config.RelayConfig, upstream config.UpstreamConfig, dialer Dialer) *Relay {
	return &Relay{
		cfg:      cfg,
		upstream: upstream,
		dialer:   dialer,
		status:   StatusInactive,
		state:    newAggregationState(cfg),
	}
}

// String implements suture's service naming.
func (r *Relay) String() string { return "vessel-relay" }

// Status returns the current connection state.
func (r *Relay) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// IsConnected reports whether the upstream feed is currently open.
func (r *Relay) IsConnected() bool {
	return r.Status() == StatusConnected
}

// ConnectedSince returns when the current connection opened, or the zero
// time when disconnected.
func (r *Relay) ConnectedSince() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusConnected {
		return time.Time{}
	}
	return r.connectedAt
}

func (r *Relay) setStatus(s Status) {
	r.mu.Lock()
	r.status = s
	if s == StatusConnected {
		r.connectedAt = time.Now()
	}
	r.mu.Unlock()
}

// Serve runs the connection state machine until ctx is cancelled. It
// implements suture.Service: returning ctx.Err() tells the supervisor the
// stop was deliberate.
//
// Reconnection uses exponential backoff from ReconnectFloor to
// ReconnectCap, doubling per attempt, reset after every successful open.
func (r *Relay) Serve(ctx context.Context) error {
	go r.snapshotLoop(ctx)

	if r.upstream.APIKey == "" || r.dialer == nil {
		if r.dialer == nil {
			logging.Warn().Msg("no websocket transport available, vessel relay inactive")
		} else {
			logging.Warn().Msg("no upstream API key configured, vessel relay inactive")
		}
		r.setStatus(StatusInactive)
		<-ctx.Done()
		r.setStatus(StatusStopped)
		return ctx.Err()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.cfg.ReconnectFloor
	bo.MaxInterval = r.cfg.ReconnectCap
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0 // Retry forever; only ctx cancellation stops us.
	bo.Reset()

	r.setStatus(StatusConnecting)

	for {
		conn, err := r.dialer.DialContext(ctx, r.upstream.URL)
		if err != nil {
			logging.Warn().Err(err).Str("url", r.upstream.URL).
				Msg("upstream dial failed")
			if !r.waitBackoff(ctx, bo) {
				r.setStatus(StatusStopped)
				return ctx.Err()
			}
			continue
		}

		if err := conn.WriteJSON(newSubscriptionRequest(r.upstream.APIKey)); err != nil {
			logging.Warn().Err(err).Msg("subscription write failed")
			conn.Close()
			if !r.waitBackoff(ctx, bo) {
				r.setStatus(StatusStopped)
				return ctx.Err()
			}
			continue
		}

		bo.Reset()
		r.setStatus(StatusConnected)
		metrics.RelayConnected.Set(1)
		logging.Info().Str("url", r.upstream.URL).Msg("upstream feed connected")

		r.readPump(ctx, conn)

		metrics.RelayConnected.Set(0)
		conn.Close()

		if ctx.Err() != nil {
			r.setStatus(StatusStopped)
			return ctx.Err()
		}

		r.setStatus(StatusReconnecting)
		metrics.RelayReconnects.Inc()
		logging.Warn().Msg("upstream feed lost, reconnecting")
		if !r.waitBackoff(ctx, bo) {
			r.setStatus(StatusStopped)
			return ctx.Err()
		}
	}
}

// waitBackoff sleeps for the next backoff interval. It returns false when
// ctx was cancelled during the wait.
func (r *Relay) waitBackoff(ctx context.Context, bo backoff.BackOff) bool {
	t := time.NewTimer(bo.NextBackOff())
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// readPump consumes frames until the connection errors or ctx is
// cancelled. Cancellation closes the connection to unblock the read.
func (r *Relay) readPump(ctx context.Context, conn Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logging.Debug().Err(err).Msg("upstream read failed")
			}
			return
		}
		r.handleFrame(data)
	}
}

// handleFrame parses and ingests one inbound frame. Invalid frames are
// discarded silently; the drop counters are the only trace they leave.
func (r *Relay) handleFrame(data []byte) {
	update, reason := parseFrame(data)
	if reason != dropNone {
		metrics.FramesDropped.WithLabelValues(string(reason)).Inc()
		return
	}

	now := time.Now()
	r.mu.Lock()
	r.state.ingest(update, now)
	r.lastActivity = now
	r.mu.Unlock()
	metrics.PositionReports.Inc()
}

// CandidateReports returns the retained military-likelihood candidates,
// newest first, capped at MaxCandidates.
func (r *Relay) CandidateReports() []models.CandidateReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.CandidateReport, 0, len(r.state.candidates))
	for _, c := range r.state.candidates {
		out = append(out, *c)
	}
	sortCandidates(out)
	if len(out) > r.cfg.MaxCandidates {
		out = out[:r.cfg.MaxCandidates]
	}
	return out
}

// VesselCount returns the number of vessels currently tracked.
func (r *Relay) VesselCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.state.vessels)
}

// MessageCount returns the number of position reports ingested since start.
func (r *Relay) MessageCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.messageCount
}
