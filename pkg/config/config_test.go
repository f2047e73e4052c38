// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsWhenNoFile(t *testing.T) {
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	t.Setenv(EnvListenAddr, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvMaxSessions, "")
	t.Setenv(EnvCacheSize, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	def := DefaultConfig()
	if *cfg != *def {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "listen_addr: 0.0.0.0:9999\nlog_level: debug\nmax_sessions: 3\ncache_size: 8\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvListenAddr, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvMaxSessions, "")
	t.Setenv(EnvCacheSize, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ListenAddr != "0.0.0.0:9999" || cfg.LogLevel != "debug" || cfg.MaxSessions != 3 || cfg.CacheSize != 8 {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvMaxSessions, "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want env override %q", cfg.LogLevel, "warn")
	}
	if cfg.MaxSessions != 42 {
		t.Errorf("MaxSessions = %d, want 42", cfg.MaxSessions)
	}
}

func TestBadYamlIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml: ["), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)

	if _, err := Load(); err == nil {
		t.Error("Load() with malformed yaml should fail")
	}
}
