// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/tomtom215/shipwatch/internal/api"
	"github.com/tomtom215/shipwatch/internal/config"
	"github.com/tomtom215/shipwatch/internal/localcache"
	"github.com/tomtom215/shipwatch/internal/logging"
	"github.com/tomtom215/shipwatch/internal/models"
	"github.com/tomtom215/shipwatch/internal/relay"
	"github.com/tomtom215/shipwatch/internal/supervisor"
	"github.com/tomtom215/shipwatch/internal/supervisor/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	instanceID := uuid.NewString()
	logging.Info().
		Str("version", version).
		Str("instance_id", instanceID).
		Msg("shipwatch starting")

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	candidateCache := localcache.New[[]models.CandidateReport](localcache.Config{
		Path:       cfg.Cache.Path,
		MaxEntries: cfg.Cache.MaxEntries,
	})

	vesselRelay := relay.New(cfg.Relay, cfg.Upstream, relay.NewDialer())

	apiServer := api.NewServer(
		cfg.Server,
		vesselRelay,
		candidateCache,
		cfg.Relay.SnapshotInterval/2,
		instanceID,
	)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           apiServer.Router(),
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddIngestService(vesselRelay)
	tree.AddStorageService(services.NewCachePersistService(candidateCache, cfg.Cache.PersistInterval))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.Timeout))

	logging.Info().
		Str("addr", httpServer.Addr).
		Str("upstream", cfg.Upstream.URL).
		Msg("supervision tree starting")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervision tree: %w", err)
	}

	logging.Info().Msg("shipwatch stopped")
	return nil
}
