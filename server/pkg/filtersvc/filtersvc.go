// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package filtersvc manages per-client matcher sessions. A session
// pins the compiled matcher for one search box so repeated candidate
// batches with the same pattern skip recompilation; idle sessions are
// reaped in the background.
package filtersvc

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/omnimatchdev/omnimatch/pkg/match"
	"github.com/omnimatchdev/omnimatch/pkg/matchcache"
)

const (
	DefaultMaxSessions = 16
	CleanupInterval    = 10 * time.Second
	MaxIdleTime        = 1 * time.Minute
)

// MatchResult is the combined matcher's answer for one candidate
type MatchResult struct {
	Term      string `json:"term"`
	Found     bool   `json:"found"`
	Position  int    `json:"position"`
	Triggered int    `json:"triggered"`
}

// Session pins one client's pattern and compiled matcher
type Session struct {
	Lock       *sync.Mutex
	SessionId  string
	Pattern    string
	Matcher    *match.Combined
	LastUsed   time.Time
	QueryCount int
}

// SessionInfo is a thread-safe snapshot of a Session
type SessionInfo struct {
	SessionId    string    `json:"sessionid"`
	Pattern      string    `json:"pattern"`
	LastUsedTime time.Time `json:"lastusedtime"`
	QueryCount   int       `json:"querycount"`
}

// GetInfo returns a thread-safe copy of the session's information
func (s *Session) GetInfo() SessionInfo {
	s.Lock.Lock()
	defer s.Lock.Unlock()
	return SessionInfo{
		SessionId:    s.SessionId,
		Pattern:      s.Pattern,
		LastUsedTime: s.LastUsed,
		QueryCount:   s.QueryCount,
	}
}

// Manager owns the session table and the shared matcher cache
type Manager struct {
	lock        sync.Mutex
	sessions    map[string]*Session
	maxSessions int
	cache       *matchcache.Cache
}

// NewManager creates a session manager. A non-positive maxSessions
// falls back to DefaultMaxSessions; a nil cache gets a private one.
func NewManager(maxSessions int, cache *matchcache.Cache) *Manager {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if cache == nil {
		cache = matchcache.New(0)
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		cache:       cache,
	}
}

// GetOrCreateSession returns the session for sessionId, creating it if
// needed. An empty sessionId allocates a fresh id. Creating a session
// beyond the max evicts the least recently used one.
func (m *Manager) GetOrCreateSession(sessionId string) *Session {
	m.lock.Lock()
	defer m.lock.Unlock()

	if sessionId == "" {
		sessionId = uuid.New().String()
	}
	if session, ok := m.sessions[sessionId]; ok {
		return session
	}

	if len(m.sessions) >= m.maxSessions {
		m.evictOldestLocked()
	}
	session := &Session{
		Lock:      &sync.Mutex{},
		SessionId: sessionId,
		LastUsed:  time.Now(),
	}
	m.sessions[sessionId] = session
	return session
}

// must hold m.lock
func (m *Manager) evictOldestLocked() {
	var oldestId string
	var oldestTime time.Time
	for id, session := range m.sessions {
		info := session.GetInfo()
		if oldestId == "" || info.LastUsedTime.Before(oldestTime) {
			oldestId = id
			oldestTime = info.LastUsedTime
		}
	}
	if oldestId != "" {
		delete(m.sessions, oldestId)
	}
}

// Match runs candidates through the session's matcher, recompiling via
// the shared cache only when the pattern changed.
func (m *Manager) Match(sessionId string, pattern string, candidates []string) (string, []MatchResult) {
	session := m.GetOrCreateSession(sessionId)

	session.Lock.Lock()
	defer session.Lock.Unlock()

	if session.Matcher == nil || session.Pattern != pattern {
		session.Pattern = pattern
		session.Matcher = m.cache.Get(pattern)
	}
	session.LastUsed = time.Now()
	session.QueryCount++

	results := make([]MatchResult, len(candidates))
	for i, term := range candidates {
		pos, triggered, found := session.Matcher.Find(term)
		results[i] = MatchResult{
			Term:      term,
			Found:     found,
			Position:  pos,
			Triggered: triggered,
		}
	}
	return session.SessionId, results
}

// DropSession removes a session if present
func (m *Manager) DropSession(sessionId string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.sessions, sessionId)
}

// GetAllSessionInfos returns snapshots of every live session
func (m *Manager) GetAllSessionInfos() []SessionInfo {
	m.lock.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.lock.Unlock()

	infos := make([]SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, session.GetInfo())
	}
	return infos
}

// NumSessions returns the live session count
func (m *Manager) NumSessions() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.sessions)
}

// CacheStats returns the shared matcher cache's hit/miss counters
func (m *Manager) CacheStats() (hits int64, misses int64) {
	return m.cache.Stats()
}

// CleanupIdleSessions drops sessions idle longer than maxIdle and
// returns how many were dropped.
func (m *Manager) CleanupIdleSessions(maxIdle time.Duration) int {
	m.lock.Lock()
	defer m.lock.Unlock()

	now := time.Now()
	dropped := 0
	for id, session := range m.sessions {
		if now.Sub(session.GetInfo().LastUsedTime) > maxIdle {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}

// RunCleanupLoop reaps idle sessions until stopCh closes. Run in a
// goroutine from boot.
func (m *Manager) RunCleanupLoop(stopCh <-chan struct{}) {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.CleanupIdleSessions(MaxIdleTime)
		case <-stopCh:
			return
		}
	}
}
