// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package localcache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shipwatch/internal/logging"
	"github.com/tomtom215/shipwatch/internal/metrics"
)

// persistedEntry is the on-disk form of one cache slot. Timestamps are
// epoch milliseconds; a zero ExpiresAt means no expiry.
type persistedEntry struct {
	Value      json.RawMessage `json:"value"`
	ExpiresAt  int64           `json:"expiresAt"`
	LastAccess int64           `json:"lastAccess"`
}

// persistedPair is one [key, entry] element of the on-disk array.
type persistedPair struct {
	Key   string
	Entry persistedEntry
}

func (p persistedPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Key, p.Entry})
}

func (p *persistedPair) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &p.Key); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.Entry)
}

// Persist writes the cache contents to the configured path via a temp
// file and an atomic rename. Readers of the file never observe a partial
// write. A memory-only cache persists as a no-op.
func (c *Cache[V]) Persist() error {
	if c.cfg.Path == "" {
		return nil
	}

	c.mu.Lock()
	c.sweep(time.Now())
	pairs := make([]persistedPair, 0, len(c.entries))
	// Walk cold to hot so load replays recency in order.
	for e := c.root.prev; e != &c.root; e = e.prev {
		raw, err := json.Marshal(e.value)
		if err != nil {
			c.mu.Unlock()
			metrics.CachePersistErrors.Inc()
			return fmt.Errorf("marshal cache entry %q: %w", e.key, err)
		}
		pe := persistedEntry{
			Value:      raw,
			LastAccess: e.lastAccess.UnixMilli(),
		}
		if !e.expiresAt.IsZero() {
			pe.ExpiresAt = e.expiresAt.UnixMilli()
		}
		pairs = append(pairs, persistedPair{Key: e.key, Entry: pe})
	}
	c.mu.Unlock()

	data, err := json.Marshal(pairs)
	if err != nil {
		metrics.CachePersistErrors.Inc()
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.cfg.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		metrics.CachePersistErrors.Inc()
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.cfg.Path)+".tmp-*")
	if err != nil {
		metrics.CachePersistErrors.Inc()
		return fmt.Errorf("create cache temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		metrics.CachePersistErrors.Inc()
		return fmt.Errorf("write cache temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		metrics.CachePersistErrors.Inc()
		return fmt.Errorf("close cache temp file: %w", err)
	}
	if err := os.Rename(tmpName, c.cfg.Path); err != nil {
		os.Remove(tmpName)
		metrics.CachePersistErrors.Inc()
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}

// load restores the cache from disk. Anything unreadable, a missing file
// included, yields an empty cache. Entries already expired at load time
// are skipped.
func (c *Cache[V]) load() {
	data, err := os.ReadFile(c.cfg.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("path", c.cfg.Path).
				Msg("cache file unreadable, starting empty")
		}
		return
	}

	var pairs []persistedPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		logging.Warn().Err(err).Str("path", c.cfg.Path).
			Msg("cache file corrupt, starting empty")
		return
	}

	now := time.Now()
	loaded := 0
	// Pairs are stored cold to hot; pushing each to the front rebuilds
	// the same recency order.
	for _, p := range pairs {
		var expiresAt time.Time
		if p.Entry.ExpiresAt != 0 {
			expiresAt = time.UnixMilli(p.Entry.ExpiresAt)
			if !expiresAt.After(now) {
				continue
			}
		}

		var value V
		if err := json.Unmarshal(p.Entry.Value, &value); err != nil {
			logging.Warn().Err(err).Str("key", p.Key).
				Msg("skipping undecodable cache entry")
			continue
		}

		e := &entry[V]{
			key:        p.Key,
			value:      value,
			expiresAt:  expiresAt,
			lastAccess: time.UnixMilli(p.Entry.LastAccess),
		}
		if old, ok := c.entries[p.Key]; ok {
			c.remove(old)
		}
		c.entries[p.Key] = e
		c.pushFront(e)
		loaded++
	}

	logging.Debug().Int("entries", loaded).Str("path", c.cfg.Path).
		Msg("cache loaded")
}
