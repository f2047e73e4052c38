// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package filtersvc

import (
	"fmt"
	"testing"
	"time"

	"github.com/omnimatchdev/omnimatch/pkg/match"
)

func TestMatchResults(t *testing.T) {
	m := NewManager(4, nil)
	sessionId, results := m.Match("", "abc", []string{"xxabcxx", "nope"})
	if sessionId == "" {
		t.Fatal("expected allocated session id")
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !results[0].Found || results[0].Position != 2 || results[0].Triggered != 3 {
		t.Errorf("results[0] = %+v, want found at 2 with 3 matchers", results[0])
	}
	if results[1].Found || results[1].Position != match.NotFound {
		t.Errorf("results[1] = %+v, want not found", results[1])
	}
}

func TestSessionReusesMatcher(t *testing.T) {
	m := NewManager(4, nil)
	sessionId, _ := m.Match("", "a*c", []string{"abc"})
	session := m.GetOrCreateSession(sessionId)
	first := session.Matcher

	m.Match(sessionId, "a*c", []string{"axc"})
	if session.Matcher != first {
		t.Error("matcher recompiled although pattern did not change")
	}

	m.Match(sessionId, "other", []string{"x"})
	if session.Matcher == first {
		t.Error("matcher not replaced after pattern change")
	}
}

func TestMaxSessionsEvictsOldest(t *testing.T) {
	m := NewManager(2, nil)
	firstId, _ := m.Match("", "p1", []string{"x"})

	// Make the first session clearly the oldest.
	first := m.GetOrCreateSession(firstId)
	first.Lock.Lock()
	first.LastUsed = time.Now().Add(-time.Hour)
	first.Lock.Unlock()

	m.Match("", "p2", []string{"x"})
	m.Match("", "p3", []string{"x"})

	if m.NumSessions() != 2 {
		t.Fatalf("session count = %d, want 2", m.NumSessions())
	}
	for _, info := range m.GetAllSessionInfos() {
		if info.SessionId == firstId {
			t.Error("oldest session survived eviction")
		}
	}
}

func TestCleanupIdleSessions(t *testing.T) {
	m := NewManager(8, nil)
	for i := 0; i < 3; i++ {
		m.Match("", fmt.Sprintf("p%d", i), []string{"x"})
	}
	for _, info := range m.GetAllSessionInfos() {
		session := m.GetOrCreateSession(info.SessionId)
		session.Lock.Lock()
		session.LastUsed = time.Now().Add(-time.Hour)
		session.Lock.Unlock()
	}
	activeId, _ := m.Match("", "live", []string{"x"})

	dropped := m.CleanupIdleSessions(MaxIdleTime)
	if dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
	if m.NumSessions() != 1 {
		t.Errorf("session count = %d, want 1", m.NumSessions())
	}
	if m.GetOrCreateSession(activeId).Pattern != "live" {
		t.Error("active session was reaped")
	}
}

func TestSharedCacheAcrossSessions(t *testing.T) {
	m := NewManager(4, nil)
	id1, _ := m.Match("", "shared", []string{"x"})
	id2, _ := m.Match("", "shared", []string{"x"})
	if id1 == id2 {
		t.Fatal("expected two distinct sessions")
	}
	if m.GetOrCreateSession(id1).Matcher != m.GetOrCreateSession(id2).Matcher {
		t.Error("sessions with the same pattern should share the cached matcher")
	}
	hits, misses := m.CacheStats()
	if hits != 1 || misses != 1 {
		t.Errorf("cache stats = (%d, %d), want (1, 1)", hits, misses)
	}
}
