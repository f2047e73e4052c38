// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package serverbase holds server-wide paths, version info, and the
// single-instance lock.
package serverbase

import (
	"os"
	"path/filepath"

	"github.com/alexflint/go-filemutex"

	"github.com/omnimatchdev/omnimatch/pkg/utilfn"
)

// OmnimatchVersion is the current version of omnimatch.
// This gets set from main-server.go during initialization.
var OmnimatchVersion = "v0.0.0"

// OmnimatchBuildTime is the build timestamp of omnimatch
var OmnimatchBuildTime = ""

const OmnimatchHome = "~/.omnimatch"
const DevOmnimatchHome = "~/.omnimatch-dev"
const OmnimatchLockFile = "omnimatch.lock"
const OmnimatchDevEnvName = "OMNIMATCH_DEV"

// IsDev returns true if the server is running in development mode
func IsDev() bool {
	return os.Getenv(OmnimatchDevEnvName) == "1"
}

// GetOmnimatchHome returns the appropriate home directory based on mode
func GetOmnimatchHome() string {
	if IsDev() {
		return DevOmnimatchHome
	}
	return OmnimatchHome
}

func EnsureHomeDir() error {
	homeDir := utilfn.ExpandHomeDir(GetOmnimatchHome())
	return os.MkdirAll(homeDir, 0755)
}

// AcquireServerLock takes the single-instance flock. The returned
// mutex must stay open for the life of the server; Close releases it.
func AcquireServerLock() (*filemutex.FileMutex, error) {
	homeDir := utilfn.ExpandHomeDir(GetOmnimatchHome())
	lockFileName := filepath.Join(homeDir, OmnimatchLockFile)
	m, err := filemutex.New(lockFileName)
	if err != nil {
		return nil, err
	}
	if err := m.TryLock(); err != nil {
		return nil, err
	}
	return m, nil
}
