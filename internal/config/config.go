// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

// Package config loads and validates Shipwatch configuration from layered
// sources via Koanf v2: built-in defaults, an optional YAML file, and
// environment variables (highest priority).
package config

import "time"

// Config is the root configuration for the Shipwatch server.
type Config struct {
	Upstream UpstreamConfig `koanf:"upstream"`
	Relay    RelayConfig    `koanf:"relay"`
	Cache    CacheConfig    `koanf:"cache"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// UpstreamConfig describes the AIS position-report feed.
//
// The relay is credential-gated: with an empty APIKey it stays inactive
// and the rest of the server runs normally.
type UpstreamConfig struct {
	// URL is the websocket endpoint of the AIS stream.
	URL string `koanf:"url"`

	// APIKey is the aisstream.io credential sent in the subscription frame.
	APIKey string `koanf:"api_key"`
}

// RelayConfig holds the windows and limits of the aggregation engine.
type RelayConfig struct {
	// DensityWindow bounds vessel, history, and grid-membership age.
	DensityWindow time.Duration `koanf:"density_window"`

	// CandidateRetention bounds the age of military-likelihood candidates.
	CandidateRetention time.Duration `koanf:"candidate_retention"`

	// GapThreshold is the AIS silence gap that marks a vessel as dark.
	GapThreshold time.Duration `koanf:"gap_threshold"`

	// ReappearWindow is how recently a dark vessel must have resurfaced
	// to count toward the reappearance spike.
	ReappearWindow time.Duration `koanf:"reappear_window"`

	// SnapshotInterval is the cadence of the background snapshot build.
	// Rebuilds requested within half this interval return the cached
	// snapshot unchanged.
	SnapshotInterval time.Duration `koanf:"snapshot_interval"`

	// ReconnectFloor and ReconnectCap bound the exponential backoff.
	ReconnectFloor time.Duration `koanf:"reconnect_floor"`
	ReconnectCap   time.Duration `koanf:"reconnect_cap"`

	// GridSize is the density grid cell edge in degrees.
	GridSize float64 `koanf:"grid_size"`

	// MaxHistory is the number of report timestamps kept per vessel.
	MaxHistory int `koanf:"max_history"`

	// MaxZones caps the density zones returned per snapshot.
	MaxZones int `koanf:"max_zones"`

	// MaxCandidates caps the candidate reports returned to the host.
	MaxCandidates int `koanf:"max_candidates"`
}

// CacheConfig configures the persistent local cache.
type CacheConfig struct {
	// Path is the cache file location. Empty disables persistence.
	Path string `koanf:"path"`

	// MaxEntries is the LRU capacity.
	MaxEntries int `koanf:"max_entries"`

	// PersistInterval is the cadence of the background persist loop.
	PersistInterval time.Duration `koanf:"persist_interval"`
}

// ServerConfig configures the host-facing HTTP API.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			URL:    "wss://stream.aisstream.io/v0/stream",
			APIKey: "", // Empty key keeps the relay inactive
		},
		Relay: RelayConfig{
			DensityWindow:      30 * time.Minute,
			CandidateRetention: 2 * time.Hour,
			GapThreshold:       60 * time.Minute,
			ReappearWindow:     10 * time.Minute,
			SnapshotInterval:   5 * time.Second,
			ReconnectFloor:     2 * time.Second,
			ReconnectCap:       60 * time.Second,
			GridSize:           2.0,
			MaxHistory:         10,
			MaxZones:           200,
			MaxCandidates:      1500,
		},
		Cache: CacheConfig{
			Path:            "", // In-memory only unless a path is configured
			MaxEntries:      5000,
			PersistInterval: 60 * time.Second,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            4326, // EPSG:4326 (WGS 84), the datum AIS reports use
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
