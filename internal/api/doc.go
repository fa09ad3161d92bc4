// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

// Package api exposes the host-facing HTTP surface: the analytics
// snapshot, the candidate watchlist, the monitored chokepoints, relay
// status, health, and Prometheus metrics.
package api
