// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

// Package models defines the wire and domain types shared by the relay,
// the analytics passes, and the HTTP API. JSON tags match what the host
// application consumes.
package models

import "time"

// Severity grades a disruption.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityElevated Severity = "elevated"
	SeverityHigh     Severity = "high"
)

// DisruptionType identifies the analytics pass that produced a disruption.
type DisruptionType string

const (
	DisruptionChokepointCongestion DisruptionType = "chokepoint_congestion"
	DisruptionDarkShipSpike        DisruptionType = "dark_ship_spike"
)

// VesselState is the latest known position report for a single vessel.
// Last arrival wins; there is no merging across reports.
type VesselState struct {
	MMSI     string    `json:"mmsi"`
	Name     string    `json:"name,omitempty"`
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	ShipType int       `json:"shipType"`
	Heading  float64   `json:"heading"`
	Speed    float64   `json:"speed"`
	Course   float64   `json:"course"`
	LastSeen time.Time `json:"lastSeen"`
}

// CandidateReport is a vessel flagged by the military-likelihood heuristic,
// annotated with the rule that matched.
type CandidateReport struct {
	VesselState

	// MatchedOn is "ship_type", "name_prefix", or "mmsi_pattern".
	MatchedOn string `json:"matchedOn"`
}

// Chokepoint is a monitored maritime bottleneck: a center point and a
// radius in degrees.
type Chokepoint struct {
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Radius float64 `json:"radius"`
}

// Location is a bare coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DisruptionMetrics carries the numbers behind a disruption verdict.
type DisruptionMetrics struct {
	VesselCount int `json:"vesselCount"`

	// NormalTraffic is the assumed baseline population. Zero for
	// disruption types without a baseline.
	NormalTraffic float64 `json:"normalTraffic,omitempty"`

	// ChangePct is the deviation from NormalTraffic, rounded to whole
	// percent.
	ChangePct int `json:"changePct,omitempty"`
}

// Disruption is a detected anomaly, recomputed from scratch on every
// analytics pass.
type Disruption struct {
	ID          string            `json:"id"`
	Type        DisruptionType    `json:"type"`
	Location    Location          `json:"location"`
	Severity    Severity          `json:"severity"`
	Metrics     DisruptionMetrics `json:"metrics"`
	Description string            `json:"description"`
}

// DensityZone is one grid cell's traffic summary. Lat/Lon are the cell
// centroid.
type DensityZone struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	VesselCount int     `json:"vesselCount"`

	// Intensity is log-normalized across the zones of one snapshot,
	// in [0.2, 1.0], or 0.5 when all zones hold the same count.
	Intensity float64 `json:"intensity"`

	// DeltaPct is the population change since the previous maintenance
	// pass, rounded to whole percent. Zero when no baseline exists.
	DeltaPct int `json:"deltaPct"`

	// ShipsPerDay extrapolates the current population to a daily
	// transit estimate.
	ShipsPerDay int `json:"shipsPerDay"`
}

// Snapshot is the full analytics view handed to the host application.
type Snapshot struct {
	Sequence         uint64        `json:"sequence"`
	Timestamp        string        `json:"timestamp"`
	ConnectionStatus string        `json:"connectionStatus"`
	VesselCount      int           `json:"vesselCount"`
	MessageCount     uint64        `json:"messageCount"`
	Disruptions      []Disruption  `json:"disruptions"`
	DensityZones     []DensityZone `json:"densityZones"`
}
