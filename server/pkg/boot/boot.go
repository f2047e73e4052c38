// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package boot wires the omnimatch server together and runs it.
package boot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/omnimatchdev/omnimatch/pkg/config"
	"github.com/omnimatchdev/omnimatch/pkg/matchcache"
	"github.com/omnimatchdev/omnimatch/server/pkg/filtersvc"
	"github.com/omnimatchdev/omnimatch/server/pkg/serverbase"
	"github.com/omnimatchdev/omnimatch/server/pkg/web"
)

// RunServer initializes and runs the omnimatch server. Blocks until
// SIGINT/SIGTERM.
func RunServer(cfg *config.Config) error {
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("[boot] unknown log level %q, keeping %v", cfg.LogLevel, logrus.GetLevel())
	}

	err := serverbase.EnsureHomeDir()
	if err != nil {
		return fmt.Errorf("cannot create omnimatch home directory (%s): %w", serverbase.GetOmnimatchHome(), err)
	}

	lock, err := serverbase.AcquireServerLock()
	if err != nil {
		return fmt.Errorf("error acquiring omnimatch lock (another instance is likely running): %w", err)
	}
	defer lock.Close() // the defer statement will keep the lock alive

	cache := matchcache.New(cfg.CacheSize)
	manager := filtersvc.NewManager(cfg.MaxSessions, cache)
	server := web.MakeServer(manager)

	stopCh := make(chan struct{})
	go manager.RunCleanupLoop(stopCh)

	listener, err := web.MakeTCPListener("omnimatch", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("error starting web server: %w", err)
	}
	go server.RunWebServer(listener)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	sig := <-signalChan
	logrus.Infof("[boot] received signal: %v, shutting down", sig)

	close(stopCh)
	listener.Close()
	return nil
}
