// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package match implements best-effort pattern matching over candidate
// strings. One user-entered pattern is interpreted simultaneously as a
// regular expression, a shell-style wildcard, and a literal substring;
// the Combined matcher runs every interpretation that compiles and
// reports the earliest match.
package match

const (
	MatchTypeSubstr   = "substr"
	MatchTypeRegex    = "regex"
	MatchTypeWildcard = "wildcard"
	MatchTypeFuzzy    = "fuzzy"
)

// NotFound is the sentinel position returned when a pattern does not
// occur in a candidate. It can never collide with a valid byte offset.
const NotFound = -1

// Matcher defines the interface for a single pattern-matching strategy
type Matcher interface {
	// SetPattern configures the matcher. Returns false if the pattern
	// cannot be compiled for this strategy.
	SetPattern(pattern string) bool

	// GetPattern returns the original pattern the matcher was configured
	// with (never a translated or compiled form).
	GetPattern() string

	// Find returns the byte offset of the first match within candidate,
	// or NotFound.
	Find(candidate string) int

	// GetType returns the match type identifier
	GetType() string
}
