// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package match

import (
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyMatcher implements subsequence matching using the fzf algorithm.
// It is not part of the default combined set; interactive ranking
// opts into it via NewCombinedFuzzy or uses Score directly.
type FuzzyMatcher struct {
	pattern string
	runes   []rune
	slab    *util.Slab
}

// MakeFuzzyMatcher creates a new fzf-backed fuzzy matcher
func MakeFuzzyMatcher() *FuzzyMatcher {
	return &FuzzyMatcher{
		slab: util.MakeSlab(64, 4096),
	}
}

// SetPattern stores the pattern. Always succeeds; fzf accepts any
// pattern string. Matching is case-insensitive, so the pattern is
// folded once here.
func (m *FuzzyMatcher) SetPattern(pattern string) bool {
	m.pattern = pattern
	m.runes = []rune(strings.ToLower(pattern))
	return true
}

// GetPattern returns the original pattern
func (m *FuzzyMatcher) GetPattern() string {
	return m.pattern
}

func (m *FuzzyMatcher) run(candidate string) algo.Result {
	chars := util.ToChars([]byte(strings.ToLower(candidate)))
	result, _ := algo.FuzzyMatchV2(false, true, true, &chars, m.runes, false, m.slab)
	return result
}

// Find returns the start offset of the fuzzy match, or NotFound if the
// pattern is not a subsequence of the candidate.
func (m *FuzzyMatcher) Find(candidate string) int {
	result := m.run(candidate)
	if result.Score <= 0 {
		return NotFound
	}
	return result.Start
}

// Score returns the fzf match score for ranking, 0 if no match
func (m *FuzzyMatcher) Score(candidate string) int {
	result := m.run(candidate)
	if result.Score < 0 {
		return 0
	}
	return result.Score
}

// GetType returns the match type identifier
func (m *FuzzyMatcher) GetType() string {
	return MatchTypeFuzzy
}
