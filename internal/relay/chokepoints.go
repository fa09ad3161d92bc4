// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package relay

import "github.com/tomtom215/shipwatch/internal/models"

// chokepoints is the fixed set of monitored maritime bottlenecks.
// Read-only configuration: centers and radii (in degrees) are never
// mutated at runtime.
var chokepoints = []models.Chokepoint{
	{Name: "Strait of Hormuz", Lat: 26.5, Lon: 56.5, Radius: 2.0},
	{Name: "Strait of Malacca", Lat: 2.5, Lon: 101.5, Radius: 2.5},
	{Name: "Suez Canal", Lat: 30.5, Lon: 32.3, Radius: 1.5},
	{Name: "Bab el-Mandeb", Lat: 12.6, Lon: 43.4, Radius: 1.5},
	{Name: "Panama Canal", Lat: 9.1, Lon: -79.7, Radius: 1.5},
	{Name: "Strait of Gibraltar", Lat: 36.0, Lon: -5.5, Radius: 1.0},
	{Name: "Bosporus", Lat: 41.1, Lon: 29.0, Radius: 1.0},
	{Name: "Taiwan Strait", Lat: 24.5, Lon: 119.5, Radius: 2.5},
}

// Chokepoints returns a copy of the monitored chokepoint list.
func Chokepoints() []models.Chokepoint {
	out := make([]models.Chokepoint, len(chokepoints))
	copy(out, chokepoints)
	return out
}
