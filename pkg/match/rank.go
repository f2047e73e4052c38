// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package match

import (
	"sort"
)

// RankedCandidate is one candidate with its combined match outputs
type RankedCandidate struct {
	Term      string `json:"term"`
	Position  int    `json:"position"`
	Triggered int    `json:"triggered"`
}

// RankCandidates filters candidates through the combined matcher and
// orders the survivors for an interactive list: more matchers agreeing
// first, then earlier match position, then original input order.
func RankCandidates(c *Combined, candidates []string) []RankedCandidate {
	var ranked []RankedCandidate
	for _, term := range candidates {
		pos, triggered, found := c.Find(term)
		if !found {
			continue
		}
		ranked = append(ranked, RankedCandidate{
			Term:      term,
			Position:  pos,
			Triggered: triggered,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Triggered != ranked[j].Triggered {
			return ranked[i].Triggered > ranked[j].Triggered
		}
		return ranked[i].Position < ranked[j].Position
	})
	return ranked
}

// RankFuzzy orders candidates by fzf score, best first, dropping
// non-matches. Ties keep input order.
func RankFuzzy(m *FuzzyMatcher, candidates []string) []RankedCandidate {
	type scored struct {
		cand  RankedCandidate
		score int
	}
	var matched []scored
	for _, term := range candidates {
		score := m.Score(term)
		if score <= 0 {
			continue
		}
		matched = append(matched, scored{
			cand: RankedCandidate{
				Term:      term,
				Position:  m.Find(term),
				Triggered: 1,
			},
			score: score,
		})
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})
	ranked := make([]RankedCandidate, len(matched))
	for i, s := range matched {
		ranked[i] = s.cand
	}
	return ranked
}
