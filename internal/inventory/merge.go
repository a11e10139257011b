// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import "sort"

// Overlay is the collection view contributed by one source.
type Overlay struct {
	Provenance Provenance
	Records    []Record
}

// DefaultPrecedence orders collection sources from lowest to highest
// precedence. Galaxy reports what ansible actually resolves, so it wins.
var DefaultPrecedence = []Provenance{ProvenanceRPM, ProvenanceFilesystem, ProvenanceGalaxy}

// MergeOverlays folds overlays onto one map keyed by Record.Key. Overlays are
// applied in the order given, so a later overlay replaces the version and
// provenance of an earlier one on collision. Records without a provenance
// inherit the overlay's. The result is sorted by key.
func MergeOverlays(overlays ...Overlay) []Record {
	merged := map[string]Record{}
	for _, o := range overlays {
		for _, r := range o.Records {
			if r.Provenance == ProvenanceNone {
				r.Provenance = o.Provenance
			}
			merged[r.Key()] = r
		}
	}

	out := make([]Record, 0, len(merged))
	for _, r := range merged {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// orderOverlays arranges overlays by a precedence list. Overlays whose
// provenance is not listed are applied last, in their given order.
func orderOverlays(precedence []Provenance, overlays []Overlay) []Overlay {
	rank := make(map[Provenance]int, len(precedence))
	for i, p := range precedence {
		rank[p] = i
	}
	ordered := make([]Overlay, len(overlays))
	copy(ordered, overlays)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, ok := rank[ordered[i].Provenance]
		if !ok {
			ri = len(precedence)
		}
		rj, ok := rank[ordered[j].Provenance]
		if !ok {
			rj = len(precedence)
		}
		return ri < rj
	})
	return ordered
}
