// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package relay

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/shipwatch/internal/metrics"
	"github.com/tomtom215/shipwatch/internal/models"
)

// Snapshot returns the current analytics snapshot, rebuilding it when the
// debounce window has elapsed.
func (r *Relay) Snapshot() *models.Snapshot {
	return r.BuildSnapshot(time.Now())
}

// BuildSnapshot returns the analytics snapshot for now. Calls within half
// the snapshot interval of the previous build return the cached snapshot
// unchanged, sequence number included. A full rebuild runs maintenance
// first, so a snapshot never reports evicted state.
func (r *Relay) BuildSnapshot(now time.Time) *models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshot != nil && now.Sub(r.lastBuild) < r.cfg.SnapshotInterval/2 {
		return r.snapshot
	}

	r.state.maintain(now)

	disruptions := detectDisruptions(r.state, now)
	zones := densityZones(r.state)

	r.snapshotSeq++
	r.snapshot = &models.Snapshot{
		Sequence:         r.snapshotSeq,
		Timestamp:        now.UTC().Format(time.RFC3339),
		ConnectionStatus: string(r.status),
		VesselCount:      len(r.state.vessels),
		MessageCount:     r.state.messageCount,
		Disruptions:      disruptions,
		DensityZones:     zones,
	}
	r.lastBuild = now

	metrics.SnapshotBuilds.Inc()
	metrics.VesselsTracked.Set(float64(len(r.state.vessels)))
	metrics.GridCells.Set(float64(len(r.state.grid)))
	metrics.CandidateReports.Set(float64(len(r.state.candidates)))
	for _, d := range disruptions {
		metrics.Disruptions.WithLabelValues(string(d.Type)).Inc()
	}

	return r.snapshot
}

// snapshotLoop rebuilds the snapshot on a fixed cadence so maintenance
// keeps running even when no client polls the API. Ticks with an empty,
// already-snapshotted state are skipped.
func (r *Relay) snapshotLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.mu.Lock()
			idle := r.snapshot != nil && len(r.state.vessels) == 0 &&
				r.snapshot.VesselCount == 0
			r.mu.Unlock()
			if idle {
				continue
			}
			r.BuildSnapshot(now)
		}
	}
}

// sortCandidates orders candidate reports newest first, with MMSI as the
// deterministic tie-break.
func sortCandidates(reports []models.CandidateReport) {
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].LastSeen.Equal(reports[j].LastSeen) {
			return reports[i].LastSeen.After(reports[j].LastSeen)
		}
		return reports[i].MMSI < reports[j].MMSI
	})
}
