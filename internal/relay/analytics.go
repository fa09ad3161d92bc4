// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package relay

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/shipwatch/internal/models"
)

// congestionMinVessels is the minimum population inside a chokepoint before
// a congestion disruption is considered at all.
const congestionMinVessels = 5

// normalTrafficFactor scales a chokepoint radius (degrees) into its assumed
// normal vessel population.
const normalTrafficFactor = 10

// shipsPerDayFactor extrapolates a cell population into an estimated daily
// transit count. Documented approximation, not a measured rate.
const shipsPerDayFactor = 48

// detectDisruptions recomputes all disruption signals from the current
// aggregation state. Results are ephemeral; nothing is carried between
// passes.
func detectDisruptions(s *aggregationState, now time.Time) []models.Disruption {
	disruptions := make([]models.Disruption, 0, len(chokepoints)+1)

	for _, cp := range chokepoints {
		if d, ok := detectCongestion(s, cp); ok {
			disruptions = append(disruptions, d)
		}
	}

	if d, ok := detectDarkShipSpike(s, now); ok {
		disruptions = append(disruptions, d)
	}

	return disruptions
}

// detectCongestion counts vessels within the chokepoint's radius using
// Euclidean degree distance and grades severity against the assumed normal
// population (radius x 10).
func detectCongestion(s *aggregationState, cp models.Chokepoint) (models.Disruption, bool) {
	count := 0
	for _, v := range s.vessels {
		dLat := v.Lat - cp.Lat
		dLon := v.Lon - cp.Lon
		if dLat*dLat+dLon*dLon <= cp.Radius*cp.Radius {
			count++
		}
	}

	if count < congestionMinVessels {
		return models.Disruption{}, false
	}

	normal := cp.Radius * normalTrafficFactor
	severity := models.SeverityLow
	switch {
	case float64(count) > 1.5*normal:
		severity = models.SeverityHigh
	case float64(count) > normal:
		severity = models.SeverityElevated
	}

	changePct := int(math.Round((float64(count)/normal - 1) * 100))

	return models.Disruption{
		ID:       "chokepoint-" + slugify(cp.Name),
		Type:     models.DisruptionChokepointCongestion,
		Location: models.Location{Lat: cp.Lat, Lon: cp.Lon},
		Severity: severity,
		Metrics: models.DisruptionMetrics{
			VesselCount:   count,
			NormalTraffic: normal,
			ChangePct:     changePct,
		},
		Description: fmt.Sprintf("%d vessels in %s (%+d%% vs normal)",
			count, cp.Name, changePct),
	}, true
}

// detectDarkShipSpike emits one aggregate alert when vessels reappear after
// an extended AIS silence gap. A vessel counts once per pass: its last two
// report timestamps must span more than the gap threshold, and the newer
// one must fall within the reappearance window.
func detectDarkShipSpike(s *aggregationState, now time.Time) (models.Disruption, bool) {
	count := 0
	for _, h := range s.history {
		if len(h) < 2 {
			continue
		}
		last, previous := h[len(h)-1], h[len(h)-2]
		if last.Sub(previous) > s.cfg.GapThreshold && now.Sub(last) <= s.cfg.ReappearWindow {
			count++
		}
	}

	if count < 1 {
		return models.Disruption{}, false
	}

	severity := models.SeverityLow
	switch {
	case count > 20:
		severity = models.SeverityHigh
	case count > 10:
		severity = models.SeverityElevated
	}

	return models.Disruption{
		ID:       "dark-ship-spike",
		Type:     models.DisruptionDarkShipSpike,
		Severity: severity,
		Metrics:  models.DisruptionMetrics{VesselCount: count},
		Description: fmt.Sprintf("%d vessels reappeared after extended AIS silence",
			count),
	}, true
}

// densityZones derives traffic-intensity zones from grid cells holding at
// least two vessels. Intensity is log-normalized across the qualifying
// cells so very busy and moderately busy areas stay visually comparable.
// Zones are sorted by intensity descending (ties broken by vessel count,
// then centroid) and capped at cfg.MaxZones.
func densityZones(s *aggregationState) []models.DensityZone {
	cells := make([]*gridCell, 0, len(s.grid))
	minCount, maxCount := 0, 0
	for _, cell := range s.grid {
		n := len(cell.Vessels)
		if n < 2 {
			continue
		}
		if len(cells) == 0 || n < minCount {
			minCount = n
		}
		if n > maxCount {
			maxCount = n
		}
		cells = append(cells, cell)
	}
	if len(cells) == 0 {
		return []models.DensityZone{}
	}

	logMin := math.Log(float64(minCount + 1))
	logMax := math.Log(float64(maxCount + 1))

	zones := make([]models.DensityZone, 0, len(cells))
	for _, cell := range cells {
		n := len(cell.Vessels)

		intensity := 0.5
		if maxCount != minCount {
			intensity = 0.2 + 0.8*(math.Log(float64(n+1))-logMin)/(logMax-logMin)
		}

		deltaPct := 0
		if cell.PreviousCount > 0 {
			deltaPct = int(math.Round(float64(n-cell.PreviousCount) /
				float64(cell.PreviousCount) * 100))
		}

		zones = append(zones, models.DensityZone{
			Lat:         cell.Lat,
			Lon:         cell.Lon,
			VesselCount: n,
			Intensity:   intensity,
			DeltaPct:    deltaPct,
			ShipsPerDay: n * shipsPerDayFactor,
		})
	}

	sort.Slice(zones, func(i, j int) bool {
		if zones[i].Intensity != zones[j].Intensity {
			return zones[i].Intensity > zones[j].Intensity
		}
		if zones[i].VesselCount != zones[j].VesselCount {
			return zones[i].VesselCount > zones[j].VesselCount
		}
		if zones[i].Lat != zones[j].Lat {
			return zones[i].Lat < zones[j].Lat
		}
		return zones[i].Lon < zones[j].Lon
	})

	if len(zones) > s.cfg.MaxZones {
		zones = zones[:s.cfg.MaxZones]
	}
	return zones
}

// slugify lowercases a name and replaces spaces with hyphens for use in
// disruption IDs.
func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
