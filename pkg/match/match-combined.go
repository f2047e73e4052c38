// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package match

// Combined runs every matcher strategy that accepts the pattern and
// reduces their answers to the earliest match position. Whatever
// syntax the user prefers, it shall be matched.
type Combined struct {
	pattern  string
	matchers []Matcher
}

// NewCombined creates a combined matcher from one pattern string. The
// regex and wildcard strategies are dropped silently if the pattern
// does not compile for them; the substring strategy always holds, so
// the combined matcher is never empty.
func NewCombined(pattern string) *Combined {
	c := &Combined{pattern: pattern}
	c.addMatcher(MakeRegexMatcher())
	c.addMatcher(MakeWildcardMatcher())
	c.addMatcher(MakeSubstrMatcher())
	return c
}

// NewCombinedFuzzy is NewCombined plus the fzf fuzzy strategy.
func NewCombinedFuzzy(pattern string) *Combined {
	c := NewCombined(pattern)
	c.addMatcher(MakeFuzzyMatcher())
	return c
}

func (c *Combined) addMatcher(m Matcher) {
	if m.SetPattern(c.pattern) {
		c.matchers = append(c.matchers, m)
	}
}

// Find runs every retained matcher against term. It returns the
// earliest match position (NotFound if nothing matched), the number of
// matchers that matched, and whether any matched. When several
// matchers match, the smallest position wins regardless of which
// strategy produced it.
func (c *Combined) Find(term string) (pos int, triggered int, found bool) {
	pos = NotFound
	for _, matcher := range c.matchers {
		localFind := matcher.Find(term)
		if localFind == NotFound {
			continue
		}
		triggered++
		if pos == NotFound || localFind < pos {
			pos = localFind
		}
	}
	return pos, triggered, pos != NotFound
}

// Match reports whether term matches at all
func (c *Combined) Match(term string) bool {
	_, _, found := c.Find(term)
	return found
}

// GetPattern returns the original, untranslated pattern string
func (c *Combined) GetPattern() string {
	return c.pattern
}

// NumMatchers returns how many strategies were retained for the pattern
func (c *Combined) NumMatchers() int {
	return len(c.matchers)
}
