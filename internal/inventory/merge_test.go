// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func coll(name, version string, p Provenance) Record {
	return Record{Name: name, Version: version, Category: CategoryCollection, Provenance: p}
}

func TestMergeOverlaysPrecedence(t *testing.T) {
	rpm := Overlay{Provenance: ProvenanceRPM, Records: []Record{
		coll("a.only_rpm", "1.0.0", ""),
		coll("a.all", "1.0.0", ""),
		coll("a.rpm_fs", "1.0.0", ""),
	}}
	fs := Overlay{Provenance: ProvenanceFilesystem, Records: []Record{
		coll("a.all", "2.0.0", ProvenanceFilesystem),
		coll("a.rpm_fs", "2.0.0", ProvenanceFilesystem),
		coll("a.fs_galaxy", "2.0.0", ProvenanceFilesystem),
	}}
	galaxy := Overlay{Provenance: ProvenanceGalaxy, Records: []Record{
		coll("A.All", "3.0.0", ProvenanceGalaxy),
		coll("a.fs_galaxy", "3.0.0", ProvenanceGalaxy),
	}}

	got := MergeOverlays(rpm, fs, galaxy)
	assert.Equal(t, []Record{
		coll("A.All", "3.0.0", ProvenanceGalaxy),
		coll("a.fs_galaxy", "3.0.0", ProvenanceGalaxy),
		coll("a.only_rpm", "1.0.0", ProvenanceRPM),
		coll("a.rpm_fs", "2.0.0", ProvenanceFilesystem),
	}, got)
}

func TestMergeOverlaysFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		overlays []Overlay
		want     Record
	}{
		{
			name: "galaxy only",
			overlays: []Overlay{
				{Provenance: ProvenanceRPM},
				{Provenance: ProvenanceFilesystem},
				{Provenance: ProvenanceGalaxy, Records: []Record{coll("x.y", "1", ProvenanceGalaxy)}},
			},
			want: coll("x.y", "1", ProvenanceGalaxy),
		},
		{
			name: "filesystem when galaxy silent",
			overlays: []Overlay{
				{Provenance: ProvenanceRPM, Records: []Record{coll("x.y", "1", ProvenanceRPM)}},
				{Provenance: ProvenanceFilesystem, Records: []Record{coll("x.y", "2", ProvenanceFilesystem)}},
				{Provenance: ProvenanceGalaxy},
			},
			want: coll("x.y", "2", ProvenanceFilesystem),
		},
		{
			name: "rpm when nothing else",
			overlays: []Overlay{
				{Provenance: ProvenanceRPM, Records: []Record{coll("x.y", "1", ProvenanceRPM)}},
			},
			want: coll("x.y", "1", ProvenanceRPM),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeOverlays(tt.overlays...)
			assert.Equal(t, []Record{tt.want}, got)
		})
	}
}

func TestOrderOverlays(t *testing.T) {
	extra := Provenance("pip-metadata")
	in := []Overlay{{Provenance: ProvenanceGalaxy}, {Provenance: extra}, {Provenance: ProvenanceRPM}, {Provenance: ProvenanceFilesystem}}

	got := orderOverlays(DefaultPrecedence, in)
	var order []Provenance
	for _, o := range got {
		order = append(order, o.Provenance)
	}
	assert.Equal(t, []Provenance{ProvenanceRPM, ProvenanceFilesystem, ProvenanceGalaxy, extra}, order)

	got = orderOverlays([]Provenance{ProvenanceGalaxy, ProvenanceRPM}, in[:1])
	assert.Len(t, got, 1)
}
