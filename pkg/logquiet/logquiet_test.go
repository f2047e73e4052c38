// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package logquiet

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSuppressRestores(t *testing.T) {
	logrus.SetLevel(logrus.InfoLevel)

	guard := Suppress(logrus.FatalLevel)
	if got := logrus.GetLevel(); got != logrus.FatalLevel {
		t.Errorf("level during suppression = %v, want %v", got, logrus.FatalLevel)
	}
	guard.Restore()

	if got := logrus.GetLevel(); got != logrus.InfoLevel {
		t.Errorf("level after restore = %v, want %v", got, logrus.InfoLevel)
	}
}

func TestSuppressDoesNotRaiseLevel(t *testing.T) {
	logrus.SetLevel(logrus.ErrorLevel)
	defer logrus.SetLevel(logrus.InfoLevel)

	// Already quieter than the requested level; must not get louder.
	guard := Suppress(logrus.WarnLevel)
	if got := logrus.GetLevel(); got != logrus.ErrorLevel {
		t.Errorf("level during suppression = %v, want %v", got, logrus.ErrorLevel)
	}
	guard.Restore()

	if got := logrus.GetLevel(); got != logrus.ErrorLevel {
		t.Errorf("level after restore = %v, want %v", got, logrus.ErrorLevel)
	}
}

func TestRestoreIdempotent(t *testing.T) {
	logrus.SetLevel(logrus.InfoLevel)

	guard := Suppress(logrus.FatalLevel)
	guard.Restore()
	guard.Restore()

	if got := logrus.GetLevel(); got != logrus.InfoLevel {
		t.Errorf("level after double restore = %v, want %v", got, logrus.InfoLevel)
	}
}

func TestRestoreRunsOnPanic(t *testing.T) {
	logrus.SetLevel(logrus.InfoLevel)

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic")
			}
		}()
		func() {
			guard := Suppress(logrus.FatalLevel)
			defer guard.Restore()
			panic("compile blew up")
		}()
	}()

	if got := logrus.GetLevel(); got != logrus.InfoLevel {
		t.Errorf("level after panic = %v, want %v", got, logrus.InfoLevel)
	}
}
