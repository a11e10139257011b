// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package selector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eectl/eectl/internal/inventory"
)

func snap(t *testing.T, id string, created string) *inventory.Snapshot {
	t.Helper()
	var img inventory.Image
	if created != "" {
		ts, err := time.Parse(time.RFC3339, created)
		require.NoError(t, err)
		img.Created = ts
	}
	s, err := inventory.NewSnapshot(id, "registry.example/ee:"+id, img, nil, nil)
	require.NoError(t, err)
	return s
}

func TestParseOrdering(t *testing.T) {
	o, err := ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, OrderCreated, o)

	o, err = ParseOrdering("SemVer")
	require.NoError(t, err)
	assert.Equal(t, OrderSemver, o)

	_, err = ParseOrdering("random")
	assert.Error(t, err)
}

func TestOrder(t *testing.T) {
	snaps := []*inventory.Snapshot{
		snap(t, "1.10", "2024-03-01T00:00:00Z"),
		snap(t, "1.2", "2024-02-01T00:00:00Z"),
		snap(t, "dev", ""),
		snap(t, "1.9", "2024-02-01T00:00:00Z"),
	}

	tests := []struct {
		name     string
		ordering Ordering
		explicit []string
		want     []string
	}{
		{"created then tag", OrderCreated, nil, []string{"dev", "1.2", "1.9", "1.10"}},
		{"semver", OrderSemver, nil, []string{"1.2", "1.9", "1.10", "dev"}},
		{"name", OrderName, nil, []string{"1.10", "1.2", "1.9", "dev"}},
		{"catalog", OrderCatalog, []string{"1.9", "1.10"}, []string{"1.9", "1.10", "dev", "1.2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identifiers(Order(snaps, tt.ordering, tt.explicit))
			assert.Equal(t, tt.want, got)
		})
	}

	// Input is untouched.
	assert.Equal(t, "1.10", snaps[0].Identifier)
}

func TestResolve(t *testing.T) {
	ordered := []string{"2.16", "2.17.1", "2.17.2", "2.18"}

	tests := []struct {
		spec    string
		want    int
		wantErr bool
	}{
		{"LATEST", 3, false},
		{"latest~1", 2, false},
		{"LATEST~3", 0, false},
		{"LATEST~4", -1, true},
		{"LATEST~x", -1, true},
		{"0", 3, false},
		{"-2", 1, false},
		{"2.16", 0, false},
		{"2.17", 2, false},
		{"3.0", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Resolve(ordered, tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Resolve(nil, "LATEST")
	assert.Error(t, err)
}

func TestRange(t *testing.T) {
	ordered := []string{"a", "b", "c", "d"}

	got, err := Range(ordered, "", "")
	require.NoError(t, err)
	assert.Equal(t, ordered, got)

	got, err = Range(ordered, "b", "LATEST~1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, got)

	_, err = Range(ordered, "d", "a")
	assert.Error(t, err)

	_, err = Range(ordered, "zzz", "")
	assert.ErrorContains(t, err, "from:")

	_, err = Range(nil, "", "")
	assert.Error(t, err)
}
