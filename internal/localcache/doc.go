// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

// Package localcache implements a generic TTL-aware LRU cache with
// best-effort JSON file persistence. It backs the API response cache and
// survives restarts via atomic temp-file-and-rename writes.
package localcache
