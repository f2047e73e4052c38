// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package match

import (
	"strings"
)

// SubstrMatcher implements literal substring matching. It is the
// fallback strategy: SetPattern never fails.
type SubstrMatcher struct {
	pattern string
}

// MakeSubstrMatcher creates a new substring matcher
func MakeSubstrMatcher() *SubstrMatcher {
	return &SubstrMatcher{}
}

// SetPattern stores the pattern verbatim. Always succeeds.
func (m *SubstrMatcher) SetPattern(pattern string) bool {
	m.pattern = pattern
	return true
}

// GetPattern returns the stored pattern
func (m *SubstrMatcher) GetPattern() string {
	return m.pattern
}

// Find returns the offset of the first literal occurrence of the
// pattern in candidate, or NotFound. Case-sensitive.
func (m *SubstrMatcher) Find(candidate string) int {
	loc := strings.Index(candidate, m.pattern)
	if loc < 0 {
		return NotFound
	}
	return loc
}

// GetType returns the match type identifier
func (m *SubstrMatcher) GetType() string {
	return MatchTypeSubstr
}
