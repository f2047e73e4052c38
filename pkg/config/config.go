// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads omnimatch configuration from a yaml file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/omnimatchdev/omnimatch/pkg/utilfn"
)

const (
	EnvConfigPath  = "OMNIMATCH_CONFIG"
	EnvListenAddr  = "OMNIMATCH_LISTEN"
	EnvLogLevel    = "OMNIMATCH_LOGLEVEL"
	EnvMaxSessions = "OMNIMATCH_MAXSESSIONS"
	EnvCacheSize   = "OMNIMATCH_CACHESIZE"
)

// Config holds all configuration for omnimatch
type Config struct {
	// Server settings
	ListenAddr string `yaml:"listen_addr"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Session manager limit
	MaxSessions int `yaml:"max_sessions"`

	// Compiled matcher cache size
	CacheSize int `yaml:"cache_size"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:  "127.0.0.1:7317",
		LogLevel:    "info",
		MaxSessions: 16,
		CacheSize:   64,
	}
}

// Load loads configuration from file and environment. A missing config
// file is not an error; defaults apply.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func getConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return utilfn.ExpandHomeDir(path)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "omnimatch", "config.yaml")
}

func applyEnvOverrides(cfg *Config) {
	if addr := os.Getenv(EnvListenAddr); addr != "" {
		cfg.ListenAddr = addr
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}
	if maxStr := os.Getenv(EnvMaxSessions); maxStr != "" {
		if maxSessions, err := strconv.Atoi(maxStr); err == nil && maxSessions > 0 {
			cfg.MaxSessions = maxSessions
		}
	}
	if sizeStr := os.Getenv(EnvCacheSize); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil && size > 0 {
			cfg.CacheSize = size
		}
	}
}
