// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package match

import (
	"strings"
)

// regexSpecialChars are escaped during wildcard translation so they
// match literally. '*' and '?' are in this set too, but the wildcard
// substitutions are checked first and win.
const regexSpecialChars = `.*+?^${}()|[]/\`

// WildcardMatcher implements shell-style glob matching (? matches one
// character, * matches any run) by translating the glob to a regular
// expression and delegating to a RegexMatcher.
type WildcardMatcher struct {
	wildcardPattern string
	regexMatcher    *RegexMatcher
}

// MakeWildcardMatcher creates a new wildcard matcher
func MakeWildcardMatcher() *WildcardMatcher {
	return &WildcardMatcher{
		regexMatcher: MakeRegexMatcher(),
	}
}

// translateWildcard compiles a wildcard string to a regular expression
func translateWildcard(pattern string) string {
	var regex strings.Builder
	regex.Grow(2 * len(pattern))

	for _, c := range pattern {
		switch {
		case c == '?':
			regex.WriteString(".")
		case c == '*':
			regex.WriteString(".*")
		case strings.ContainsRune(regexSpecialChars, c):
			regex.WriteRune('\\')
			regex.WriteRune(c)
		default:
			regex.WriteRune(c)
		}
	}

	return regex.String()
}

// SetPattern translates the glob to a regex and compiles it. Returns
// false if the translated regex does not compile.
func (m *WildcardMatcher) SetPattern(pattern string) bool {
	m.wildcardPattern = pattern
	return m.regexMatcher.SetPattern(translateWildcard(pattern))
}

// GetPattern returns the original glob pattern, not the translated regex
func (m *WildcardMatcher) GetPattern() string {
	return m.wildcardPattern
}

// Find has the same semantics as RegexMatcher.Find, operating on the
// translated pattern.
func (m *WildcardMatcher) Find(candidate string) int {
	return m.regexMatcher.Find(candidate)
}

// GetType returns the match type identifier
func (m *WildcardMatcher) GetType() string {
	return MatchTypeWildcard
}
