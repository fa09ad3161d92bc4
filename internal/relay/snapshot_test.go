// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package relay

import (
	"testing"
	"time"
)

func TestBuildSnapshotDebounce(t *testing.T) {
	r := New(testRelayConfig(), testUpstream(), nil)
	base := time.Now()
	r.state.ingest(update("511000111", 10, 20), base)

	first := r.BuildSnapshot(base)
	if first.Sequence != 1 {
		t.Fatalf("first Sequence = %d, want 1", first.Sequence)
	}
	if first.VesselCount != 1 {
		t.Errorf("VesselCount = %d, want 1", first.VesselCount)
	}

	// Within half the snapshot interval: the cached snapshot comes back
	// untouched, same pointer and all.
	cached := r.BuildSnapshot(base.Add(time.Second))
	if cached != first {
		t.Error("rebuild inside the debounce window, want cached snapshot")
	}

	// Past the debounce window: a fresh build with a bumped sequence.
	rebuilt := r.BuildSnapshot(base.Add(3 * time.Second))
	if rebuilt == first {
		t.Fatal("expected a fresh snapshot after the debounce window")
	}
	if rebuilt.Sequence != 2 {
		t.Errorf("rebuilt Sequence = %d, want 2", rebuilt.Sequence)
	}
}

func TestBuildSnapshotRunsMaintenanceFirst(t *testing.T) {
	r := New(testRelayConfig(), testUpstream(), nil)
	base := time.Now()
	r.state.ingest(update("511000111", 10, 20), base)

	snap := r.BuildSnapshot(base.Add(40 * time.Minute))
	if snap.VesselCount != 0 {
		t.Errorf("VesselCount = %d, want 0 after the density window", snap.VesselCount)
	}
}

func TestSnapshotReportsConnectionStatus(t *testing.T) {
	r := New(testRelayConfig(), testUpstream(), nil)

	snap := r.BuildSnapshot(time.Now())
	if snap.ConnectionStatus != string(StatusInactive) {
		t.Errorf("ConnectionStatus = %q, want inactive", snap.ConnectionStatus)
	}
	if snap.Timestamp == "" {
		t.Error("Timestamp is empty")
	}
	if snap.Disruptions == nil || snap.DensityZones == nil {
		t.Error("snapshot slices must be non-nil for JSON clients")
	}
}

func TestCandidateReportsOrderedAndCapped(t *testing.T) {
	cfg := testRelayConfig()
	cfg.MaxCandidates = 2
	r := New(cfg, testUpstream(), nil)
	base := time.Now()

	for i, mmsi := range []string{"511000111", "522000222", "533000333"} {
		u := update(mmsi, 10, 20)
		u.ShipType = 35
		r.state.ingest(u, base.Add(time.Duration(i)*time.Minute))
	}

	got := r.CandidateReports()
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want cap of 2", len(got))
	}
	// Newest first.
	if got[0].MMSI != "533000333" || got[1].MMSI != "522000222" {
		t.Errorf("order = [%s, %s], want newest first", got[0].MMSI, got[1].MMSI)
	}
}
