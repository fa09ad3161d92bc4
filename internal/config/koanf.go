// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/shipwatch/config.yaml",
	"/etc/shipwatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration using Koanf v2 with layered sources:
//
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting
//
// Precedence is ENV > file > defaults. The result is validated before
// being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// AISSTREAM_API_KEY -> upstream.api_key, HTTP_PORT -> server.port, etc.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or empty string if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envVarMap maps well-known environment variable names to koanf paths.
// AISSTREAM_API_KEY is the name the desktop host already uses for this
// credential; the rest follow the generic transform.
var envVarMap = map[string]string{
	"AISSTREAM_API_KEY":      "upstream.api_key",
	"AISSTREAM_URL":          "upstream.url",
	"HTTP_HOST":              "server.host",
	"HTTP_PORT":              "server.port",
	"CACHE_PATH":             "cache.path",
	"CACHE_MAX_ENTRIES":      "cache.max_entries",
	"CACHE_PERSIST_INTERVAL": "cache.persist_interval",
	"LOG_LEVEL":              "logging.level",
	"LOG_FORMAT":             "logging.format",
	"LOG_CALLER":             "logging.caller",
}

// envTransformFunc converts environment variable names to koanf paths.
//
// Explicitly mapped names take priority; otherwise the first underscore
// segment becomes the section: RELAY_GAP_THRESHOLD -> relay.gap_threshold.
// Unrecognized sections are dropped so unrelated env vars cannot leak into
// the configuration.
func envTransformFunc(key string) string {
	if path, ok := envVarMap[key]; ok {
		return path
	}

	lower := strings.ToLower(key)
	section, rest, found := strings.Cut(lower, "_")
	if !found || rest == "" {
		return ""
	}

	switch section {
	case "upstream", "relay", "cache", "server", "logging":
		return section + "." + rest
	default:
		return ""
	}
}
