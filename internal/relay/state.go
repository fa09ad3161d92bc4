// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package relay

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/tomtom215/shipwatch/internal/config"
	"github.com/tomtom215/shipwatch/internal/models"
)

// gridKey identifies a density grid cell by the floored south-west corner
// of its bounding square, in whole degrees.
type gridKey struct {
	Lat int
	Lon int
}

// gridCell tracks the vessels currently inside one grid square.
type gridCell struct {
	// Centroid of the cell (corner + half the cell size).
	Lat float64
	Lon float64

	Vessels    map[string]struct{}
	LastUpdate time.Time

	// PreviousCount is the trend baseline read by the density pass: the
	// cell population captured at the maintenance pass before last.
	// observedCount is this pass's pre-eviction capture; the shift in
	// maintain() promotes it one pass later. Capturing before eviction is
	// what keeps the baseline meaningful: a post-eviction capture always
	// equals the current count and every delta collapses to zero.
	PreviousCount int
	observedCount int
}

// aggregationState owns the four bounded maps fed by the ingestion path:
// live vessels, per-vessel report history, the density grid, and the
// military-likelihood candidate watchlist. It is not safe for concurrent
// use; the owning Relay serializes access.
type aggregationState struct {
	cfg config.RelayConfig

	vessels    map[string]*models.VesselState
	history    map[string][]time.Time
	grid       map[gridKey]*gridCell
	candidates map[string]*models.CandidateReport

	messageCount uint64
}

func newAggregationState(cfg config.RelayConfig) *aggregationState {
	return &aggregationState{
		cfg:        cfg,
		vessels:    make(map[string]*models.VesselState),
		history:    make(map[string][]time.Time),
		grid:       make(map[gridKey]*gridCell),
		candidates: make(map[string]*models.CandidateReport),
	}
}

// keyFor returns the grid key for a coordinate pair.
func (s *aggregationState) keyFor(lat, lon float64) gridKey {
	size := s.cfg.GridSize
	return gridKey{
		Lat: int(math.Floor(lat/size) * size),
		Lon: int(math.Floor(lon/size) * size),
	}
}

// ingest applies one validated position report. Effects are atomic per
// message: the caller holds the relay lock for the duration.
func (s *aggregationState) ingest(u positionUpdate, now time.Time) {
	s.messageCount++

	// 1. Upsert live vessel state; last arrival wins.
	s.vessels[u.MMSI] = &models.VesselState{
		MMSI:     u.MMSI,
		Name:     u.Name,
		Lat:      u.Lat,
		Lon:      u.Lon,
		ShipType: u.ShipType,
		Heading:  u.Heading,
		Speed:    u.Speed,
		Course:   u.Course,
		LastSeen: now,
	}

	// 2. Append to the report-time history, dropping the oldest on overflow.
	h := append(s.history[u.MMSI], now)
	if len(h) > s.cfg.MaxHistory {
		h = h[len(h)-s.cfg.MaxHistory:]
	}
	s.history[u.MMSI] = h

	// 3. Register grid membership.
	key := s.keyFor(u.Lat, u.Lon)
	cell, ok := s.grid[key]
	if !ok {
		cell = &gridCell{
			Lat:     float64(key.Lat) + s.cfg.GridSize/2,
			Lon:     float64(key.Lon) + s.cfg.GridSize/2,
			Vessels: make(map[string]struct{}),
		}
		s.grid[key] = cell
	}
	cell.Vessels[u.MMSI] = struct{}{}
	cell.LastUpdate = now

	// 4. Refresh the candidate watchlist when the heuristic matches.
	if matched, rule := militaryLikelihood(u); matched {
		s.candidates[u.MMSI] = &models.CandidateReport{
			VesselState: *s.vessels[u.MMSI],
			MatchedOn:   rule,
		}
	}
}

// maintain evicts stale entries from all four maps. It runs synchronously
// before every snapshot rebuild.
func (s *aggregationState) maintain(now time.Time) {
	// Vessels and histories never outlive the density window.
	for mmsi, v := range s.vessels {
		if now.Sub(v.LastSeen) > s.cfg.DensityWindow {
			delete(s.vessels, mmsi)
			delete(s.history, mmsi)
		}
	}

	for key, cell := range s.grid {
		// Promote last pass's capture to the delta baseline, then capture
		// this pass's pre-eviction population for the next one.
		cell.PreviousCount = cell.observedCount
		cell.observedCount = len(cell.Vessels)

		for mmsi := range cell.Vessels {
			if _, live := s.vessels[mmsi]; !live {
				delete(cell.Vessels, mmsi)
			}
		}

		if len(cell.Vessels) == 0 && now.Sub(cell.LastUpdate) > 2*s.cfg.DensityWindow {
			delete(s.grid, key)
		}
	}

	// Candidates never outlive the retention window.
	for mmsi, c := range s.candidates {
		if now.Sub(c.LastSeen) > s.cfg.CandidateRetention {
			delete(s.candidates, mmsi)
		}
	}
}

// navalPrefixPattern matches hull-name prefixes used by naval and coast
// guard vessels (USS Gerald R. Ford, HMS Defender, FGS Bayern, ...).
var navalPrefixPattern = regexp.MustCompile(
	`^(?i:USS|USNS|USCGC|HMS|HMAS|HMCS|HMNZS|RFA|FGS|FS|ITS|JS|ROKS|INS|TCG)\s`)

// militaryLikelihood reports whether a position report matches the
// military-likelihood heuristic, and which rule matched:
//
//   - ship-type code 35 (military operations) or 50-59 (special craft,
//     including 55 law enforcement)
//   - a known naval hull-name prefix
//   - an MMSI whose last six digits begin with 00 or 99, a pattern common
//     to state-operated transmitters
func militaryLikelihood(u positionUpdate) (bool, string) {
	if u.ShipType == 35 || (u.ShipType >= 50 && u.ShipType <= 59) {
		return true, "ship_type"
	}

	if navalPrefixPattern.MatchString(strings.TrimSpace(u.Name)) {
		return true, "name_prefix"
	}

	if len(u.MMSI) >= 6 {
		suffix := u.MMSI[len(u.MMSI)-6:]
		if strings.HasPrefix(suffix, "00") || strings.HasPrefix(suffix, "99") {
			return true, "mmsi_pattern"
		}
	}

	return false, ""
}
