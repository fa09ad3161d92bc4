// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// chdirTemp moves the test into an empty directory so no stray
// config.yaml from the working tree leaks into Load.
func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Upstream.URL != "wss://stream.aisstream.io/v0/stream" {
		t.Errorf("Upstream.URL = %q", cfg.Upstream.URL)
	}
	if cfg.Upstream.APIKey != "" {
		t.Errorf("Upstream.APIKey = %q, want empty default", cfg.Upstream.APIKey)
	}
	if cfg.Relay.DensityWindow != 30*time.Minute {
		t.Errorf("DensityWindow = %v", cfg.Relay.DensityWindow)
	}
	if cfg.Relay.CandidateRetention != 2*time.Hour {
		t.Errorf("CandidateRetention = %v", cfg.Relay.CandidateRetention)
	}
	if cfg.Relay.GridSize != 2.0 {
		t.Errorf("GridSize = %v", cfg.Relay.GridSize)
	}
	if cfg.Relay.MaxHistory != 10 {
		t.Errorf("MaxHistory = %d", cfg.Relay.MaxHistory)
	}
	if cfg.Server.Port != 4326 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)

	t.Setenv("AISSTREAM_API_KEY", "secret-credential")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RELAY_GAP_THRESHOLD", "45m")
	t.Setenv("CACHE_PATH", "/tmp/shipwatch-cache.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Upstream.APIKey != "secret-credential" {
		t.Errorf("APIKey = %q", cfg.Upstream.APIKey)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Relay.GapThreshold != 45*time.Minute {
		t.Errorf("GapThreshold = %v, want 45m", cfg.Relay.GapThreshold)
	}
	if cfg.Cache.Path != "/tmp/shipwatch-cache.json" {
		t.Errorf("Cache.Path = %q", cfg.Cache.Path)
	}
}

func TestLoadConfigFile(t *testing.T) {
	chdirTemp(t)

	yaml := `
server:
  port: 9090
relay:
  max_history: 20
`
	if err := os.WriteFile("config.yaml", []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want file value 9090", cfg.Server.Port)
	}
	if cfg.Relay.MaxHistory != 20 {
		t.Errorf("MaxHistory = %d, want file value 20", cfg.Relay.MaxHistory)
	}
	// Untouched settings keep their defaults.
	if cfg.Relay.GridSize != 2.0 {
		t.Errorf("GridSize = %v, want default", cfg.Relay.GridSize)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile("config.yaml", []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want env value 7070", cfg.Server.Port)
	}
}

func TestConfigPathEnvVar(t *testing.T) {
	chdirTemp(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 6060\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Port = %d, want 6060 from CONFIG_PATH file", cfg.Server.Port)
	}
}

func TestUnknownEnvSectionsIgnored(t *testing.T) {
	chdirTemp(t)

	// Unrelated variables with underscores must not leak into the config.
	t.Setenv("JAVA_HOME", "/usr/lib/jvm")
	t.Setenv("XDG_CONFIG_HOME", "/root/.config")

	if _, err := Load(); err != nil {
		t.Fatalf("Load with unrelated env vars: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty url", func(c *Config) { c.Upstream.URL = "" }, "AISSTREAM_URL"},
		{"http url", func(c *Config) { c.Upstream.URL = "https://example.com" }, "ws://"},
		{"zero density window", func(c *Config) { c.Relay.DensityWindow = 0 }, "DENSITY_WINDOW"},
		{"grid too large", func(c *Config) { c.Relay.GridSize = 120 }, "GRID_SIZE"},
		{"history too small", func(c *Config) { c.Relay.MaxHistory = 1 }, "MAX_HISTORY"},
		{"cap below floor", func(c *Config) {
			c.Relay.ReconnectFloor = time.Minute
			c.Relay.ReconnectCap = time.Second
		}, "backoff"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"directory cache path", func(c *Config) { c.Cache.Path = "/var/lib/shipwatch/" }, "CACHE_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted an invalid config")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}
