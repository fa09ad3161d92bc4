// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakePersister struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakePersister) Persist() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakePersister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestCachePersistServicePeriodicFlush(t *testing.T) {
	p := &fakePersister{}
	svc := NewCachePersistService(p, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for p.callCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	cancel()
	<-done

	if p.callCount() < 2 {
		t.Errorf("persist calls = %d, want at least 2 periodic flushes", p.callCount())
	}
}

func TestCachePersistServiceFinalFlushOnShutdown(t *testing.T) {
	p := &fakePersister{}
	svc := NewCachePersistService(p, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}

	// No tick fired, so the single call is the shutdown flush.
	if p.callCount() != 1 {
		t.Errorf("persist calls = %d, want exactly the final flush", p.callCount())
	}
}

func TestCachePersistServiceSurvivesErrors(t *testing.T) {
	p := &fakePersister{err: errors.New("disk full")}
	svc := NewCachePersistService(p, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for p.callCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	cancel()
	<-done

	// Failures are logged, not fatal: the loop keeps flushing.
	if p.callCount() < 3 {
		t.Errorf("persist calls = %d, want the loop to continue past errors", p.callCount())
	}
}
