// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package match

import (
	"regexp"
	"strings"

	"github.com/omnimatchdev/omnimatch/pkg/logquiet"
	"github.com/sirupsen/logrus"
)

// RegexMatcher implements regular expression matching. A pattern that
// fails to compile is not an error: Find degrades to literal substring
// search of the stored pattern so the matcher stays useful.
type RegexMatcher struct {
	pattern string
	regex   *regexp.Regexp
}

// MakeRegexMatcher creates a new regex matcher
func MakeRegexMatcher() *RegexMatcher {
	return &RegexMatcher{}
}

// SetPattern compiles the pattern. Returns false if the pattern is not
// a valid regular expression; the pattern string is retained either
// way. Compile diagnostics are suppressed for the duration of the call
// (invalid patterns are routine while the user is still typing).
func (m *RegexMatcher) SetPattern(pattern string) bool {
	m.pattern = pattern

	guard := logquiet.Suppress(logrus.FatalLevel)
	defer guard.Restore()

	regex, err := regexp.Compile(pattern)
	if err != nil {
		m.regex = nil
		return false
	}
	m.regex = regex
	return true
}

// GetPattern returns the original, uncompiled pattern string
func (m *RegexMatcher) GetPattern() string {
	return m.pattern
}

// IsValid reports whether the last SetPattern compiled successfully
func (m *RegexMatcher) IsValid() bool {
	return m.regex != nil
}

// Find returns the offset of the first whole-pattern match within
// candidate, or NotFound. If the pattern never compiled, falls back to
// literal substring search of the stored pattern.
func (m *RegexMatcher) Find(candidate string) int {
	if m.regex != nil {
		loc := m.regex.FindStringIndex(candidate)
		if loc == nil {
			return NotFound
		}
		return loc[0]
	}
	loc := strings.Index(candidate, m.pattern)
	if loc < 0 {
		return NotFound
	}
	return loc
}

// GetType returns the match type identifier
func (m *RegexMatcher) GetType() string {
	return MatchTypeRegex
}
