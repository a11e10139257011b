// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		a, b     string
		want     int
		wantOK   bool
	}{
		{"rpm release", CategoryRPM, "5.14.0-70.el9", "5.14.0-162.el9", -1, true},
		{"rpm epoch wins", CategoryRPM, "1:1.0-1", "2.0-1", 1, true},
		{"rpm equal", CategoryRPM, "1.0-1", "1.0-1", 0, true},
		{"python semver", CategoryPython, "2.15.3", "2.16.0", -1, true},
		{"python prerelease", CategoryPython, "2.16.0rc1", "2.16.0", -1, true},
		{"collection padding", CategoryCollection, "1.0", "1.0.0", 0, true},
		{"opaque", CategoryPython, "latest", "2.0", 0, false},
		{"opaque same", CategoryPython, "latest", "latest", 0, true},
		{"rpm without digits", CategoryRPM, "abc", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CompareVersions(tt.category, tt.a, tt.b)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestVersionPolicy(t *testing.T) {
	strict := VersionPolicy{}
	lenient := VersionPolicy{Lenient: true}

	assert.True(t, strict.Equal(CategoryPython, "1.0", "1.0"))
	assert.False(t, strict.Equal(CategoryPython, "1.0", "1.0.0"))
	assert.True(t, lenient.Equal(CategoryPython, "1.0", "1.0.0"))
	assert.False(t, lenient.Equal(CategoryPython, "1.0", "1.1"))
	assert.False(t, lenient.Equal(CategoryPython, "dev", "main"))
}
