// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package omnimatch is the embedding facade for the matcher library.
// Most callers only need NewMatcher and Filter; the full strategy API
// lives in pkg/match.
package omnimatch

import (
	"github.com/omnimatchdev/omnimatch/pkg/match"
)

// NotFound re-exports the "no match position" sentinel
const NotFound = match.NotFound

// Matcher re-exports the combined matcher type
type Matcher = match.Combined

// NewMatcher builds a combined matcher from one user-entered pattern.
// The pattern is tried as a regular expression, a shell-style
// wildcard, and a literal substring; interpretations that do not
// compile are dropped silently.
func NewMatcher(pattern string) *Matcher {
	return match.NewCombined(pattern)
}

// Filter returns the candidates that match pattern, in input order.
func Filter(pattern string, candidates []string) []string {
	m := match.NewCombined(pattern)
	var rtn []string
	for _, term := range candidates {
		if m.Match(term) {
			rtn = append(rtn, term)
		}
	}
	return rtn
}

// Rank returns the candidates that match pattern, best first: more
// strategies agreeing, then earlier match position.
func Rank(pattern string, candidates []string) []match.RankedCandidate {
	return match.RankCandidates(match.NewCombined(pattern), candidates)
}
