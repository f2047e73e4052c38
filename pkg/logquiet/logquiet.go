// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package logquiet scopes a temporary lowering of the process-wide
// logrus level. The regex compile path runs on every keystroke of an
// interactive search, and half-typed patterns are expected to fail;
// whatever the compile path logs must stay out of the user's face, and
// the prior level must come back on every exit path, including panics.
package logquiet

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// lock serializes suppressions so that overlapping guards restore the
// true prior level instead of each other's suppressed level.
var lock sync.Mutex

// Guard holds the log level to restore. Release with Restore, usually
// via defer.
type Guard struct {
	prevLevel logrus.Level
	released  bool
}

// Suppress lowers the global logrus level to level (if it is currently
// more verbose) and returns a Guard that restores the prior level.
func Suppress(level logrus.Level) *Guard {
	lock.Lock()
	g := &Guard{prevLevel: logrus.GetLevel()}
	if g.prevLevel > level {
		logrus.SetLevel(level)
	}
	return g
}

// Restore reverts the global logrus level to what it was when the
// guard was acquired. Idempotent.
func (g *Guard) Restore() {
	if g.released {
		return
	}
	g.released = true
	logrus.SetLevel(g.prevLevel)
	lock.Unlock()
}
