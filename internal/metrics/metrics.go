// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

// Package metrics provides Prometheus instrumentation for the relay, the
// aggregation state, and the local cache. All collectors are registered on
// the default registry and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Relay connection metrics

	RelayConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shipwatch_relay_connected",
			Help: "1 when the upstream AIS feed is connected, 0 otherwise",
		},
	)

	RelayReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipwatch_relay_reconnects_total",
			Help: "Total number of reconnect attempts scheduled after a connection loss",
		},
	)

	// Ingestion metrics

	PositionReports = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipwatch_position_reports_total",
			Help: "Total number of position reports ingested into the aggregation state",
		},
	)

	FramesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipwatch_frames_dropped_total",
			Help: "Inbound frames discarded without ingestion",
		},
		[]string{"reason"}, // "unparseable", "non_position", "invalid_report"
	)

	// Aggregation state gauges, refreshed on every maintenance pass

	VesselsTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shipwatch_vessels_tracked",
			Help: "Vessels currently held in the aggregation state",
		},
	)

	GridCells = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shipwatch_grid_cells",
			Help: "Density grid cells currently held in the aggregation state",
		},
	)

	CandidateReports = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shipwatch_candidate_reports",
			Help: "Military-likelihood candidate reports currently retained",
		},
	)

	// Snapshot metrics

	SnapshotBuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipwatch_snapshot_builds_total",
			Help: "Total number of full snapshot rebuilds (cache hits excluded)",
		},
	)

	Disruptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipwatch_disruptions_total",
			Help: "Disruptions emitted by detection passes",
		},
		[]string{"type"}, // "chokepoint_congestion", "dark_ship_spike"
	)

	// Local cache metrics

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipwatch_cache_hits_total",
			Help: "Local cache lookups that returned a live entry",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipwatch_cache_misses_total",
			Help: "Local cache lookups that missed or hit an expired entry",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipwatch_cache_evictions_total",
			Help: "Local cache entries removed by TTL sweep or LRU pressure",
		},
	)

	CachePersistErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipwatch_cache_persist_errors_total",
			Help: "Failed best-effort persist attempts of the local cache",
		},
	)
)
