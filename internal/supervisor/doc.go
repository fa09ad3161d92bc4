// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

// Package supervisor builds the suture supervision tree that runs the
// relay, the cache persist loop, and the HTTP server as restartable
// services with per-layer failure isolation.
package supervisor
