// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package utilfn

import (
	"path/filepath"
	"testing"
)

func TestExpandHomeDir(t *testing.T) {
	home := GetHomeDir()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare tilde",
			input:    "~",
			expected: home,
		},
		{
			name:     "tilde with path",
			input:    "~/foo/bar",
			expected: filepath.Join(home, "foo", "bar"),
		},
		{
			name:     "absolute path untouched",
			input:    "/etc/passwd",
			expected: "/etc/passwd",
		},
		{
			name:     "relative path cleaned",
			input:    "a/../b",
			expected: "b",
		},
		{
			name:     "tilde in middle untouched",
			input:    "/x/~/y",
			expected: "/x/~/y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandHomeDir(tt.input); got != tt.expected {
				t.Errorf("ExpandHomeDir(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
