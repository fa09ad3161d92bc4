// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package services

import (
	"context"
	"time"

	"github.com/tomtom215/shipwatch/internal/logging"
)

// Persister is anything that can flush itself to durable storage.
// *localcache.Cache satisfies it.
type Persister interface {
	Persist() error
}

// CachePersistService flushes a Persister on a fixed interval and once
// more on shutdown. Persist failures are logged, not fatal: losing a
// cache flush never takes the service down.
type CachePersistService struct {
	persister Persister
	interval  time.Duration
	name      string
}

// NewCachePersistService creates a persist loop for the given target.
func NewCachePersistService(persister Persister, interval time.Duration) *CachePersistService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CachePersistService{
		persister: persister,
		interval:  interval,
		name:      "cache-persist",
	}
}

// Serve implements suture.Service.
func (c *CachePersistService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final flush so a clean shutdown never loses entries.
			if err := c.persister.Persist(); err != nil {
				logging.Warn().Err(err).Msg("final cache persist failed")
			}
			return ctx.Err()

		case <-ticker.C:
			if err := c.persister.Persist(); err != nil {
				logging.Warn().Err(err).Msg("cache persist failed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (c *CachePersistService) String() string {
	return c.name
}
