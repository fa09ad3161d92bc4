// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

// Package relay connects to the upstream AIS position-report feed,
// aggregates vessel state into bounded in-memory maps, and derives
// disruption and traffic-density analytics from them.
//
// The Relay is the single owner of all aggregation state. Frames from the
// upstream websocket are parsed and applied one at a time under the relay
// lock, so every message's effects are atomic. Analytics never persist
// between passes: each snapshot recomputes disruptions and density zones
// from the live maps.
package relay
