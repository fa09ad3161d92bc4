// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if err := c.validateUpstream(); err != nil {
		return err
	}

	if err := c.validateRelay(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateUpstream validates the feed endpoint. The API key is deliberately
// NOT required: a missing credential keeps the relay inactive rather than
// failing startup.
func (c *Config) validateUpstream() error {
	if c.Upstream.URL == "" {
		return fmt.Errorf("AISSTREAM_URL must not be empty")
	}

	parsed, err := url.Parse(c.Upstream.URL)
	if err != nil {
		return fmt.Errorf("AISSTREAM_URL is invalid: %w", err)
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return fmt.Errorf("AISSTREAM_URL must use ws:// or wss://, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("AISSTREAM_URL is missing a host")
	}

	return nil
}

// validateRelay validates the aggregation windows and limits.
func (c *Config) validateRelay() error {
	r := c.Relay

	if r.DensityWindow <= 0 {
		return fmt.Errorf("RELAY_DENSITY_WINDOW must be positive")
	}
	if r.CandidateRetention <= 0 {
		return fmt.Errorf("RELAY_CANDIDATE_RETENTION must be positive")
	}
	if r.GapThreshold <= 0 {
		return fmt.Errorf("RELAY_GAP_THRESHOLD must be positive")
	}
	if r.ReappearWindow <= 0 {
		return fmt.Errorf("RELAY_REAPPEAR_WINDOW must be positive")
	}
	if r.SnapshotInterval <= 0 {
		return fmt.Errorf("RELAY_SNAPSHOT_INTERVAL must be positive")
	}
	if r.ReconnectFloor <= 0 || r.ReconnectCap < r.ReconnectFloor {
		return fmt.Errorf("reconnect backoff bounds invalid: floor %v, cap %v",
			r.ReconnectFloor, r.ReconnectCap)
	}
	if r.GridSize <= 0 || r.GridSize > 90 {
		return fmt.Errorf("RELAY_GRID_SIZE must be in (0, 90] degrees, got %v", r.GridSize)
	}
	if r.MaxHistory < 2 {
		return fmt.Errorf("RELAY_MAX_HISTORY must be at least 2 (gap detection needs two samples)")
	}
	if r.MaxZones <= 0 {
		return fmt.Errorf("RELAY_MAX_ZONES must be positive")
	}
	if r.MaxCandidates <= 0 {
		return fmt.Errorf("RELAY_MAX_CANDIDATES must be positive")
	}

	return nil
}

// validateCache validates the local cache settings.
func (c *Config) validateCache() error {
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be positive")
	}
	if c.Cache.PersistInterval <= 0 {
		return fmt.Errorf("CACHE_PERSIST_INTERVAL must be positive")
	}
	if c.Cache.Path != "" && strings.HasSuffix(c.Cache.Path, "/") {
		return fmt.Errorf("CACHE_PATH must be a file path, not a directory")
	}
	return nil
}

// validateServer validates the HTTP server settings.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	if c.Server.RateLimitReqs <= 0 || c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	return nil
}

// validateLogging validates the logging settings.
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT %q must be json or console", c.Logging.Format)
	}

	return nil
}
