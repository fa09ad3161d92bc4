// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

// Command server runs the Shipwatch sidecar: it connects to the upstream
// AIS feed, maintains the vessel aggregation state, and serves analytics
// snapshots to the host application over a local HTTP API.
//
// Configuration is layered (defaults, optional YAML file, environment
// variables); see the config package. The upstream credential comes from
// AISSTREAM_API_KEY. Without it, the relay stays inactive and the API
// serves empty snapshots.
package main
