// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"sort"

	"github.com/eectl/eectl/internal/inventory"
)

// Kind classifies a change.
type Kind string

const (
	Added   Kind = "added"
	Removed Kind = "removed"
	Changed Kind = "changed"
)

// Direction refines a Changed entry when both versions share an ordering.
type Direction string

const (
	Upgrade   Direction = "upgrade"
	Downgrade Direction = "downgrade"
	Unknown   Direction = "unknown"
)

// ChangeEntry is one component that differs between two snapshots.
type ChangeEntry struct {
	Key        string    `json:"key" yaml:"key"`
	Name       string    `json:"name" yaml:"name"`
	Kind       Kind      `json:"kind" yaml:"kind"`
	Direction  Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
	OldVersion string    `json:"oldVersion,omitempty" yaml:"oldVersion,omitempty"`
	NewVersion string    `json:"newVersion,omitempty" yaml:"newVersion,omitempty"`
}

// SnapshotDiff holds the changes from one snapshot to the next, per category,
// each list sorted by name, then key.
type SnapshotDiff struct {
	From    string                               `json:"from" yaml:"from"`
	To      string                               `json:"to" yaml:"to"`
	Changes map[inventory.Category][]ChangeEntry `json:"changes" yaml:"changes"`
}

// Counts summarises the entries of one category.
type Counts struct {
	Added      int `json:"added" yaml:"added"`
	Upgraded   int `json:"upgraded" yaml:"upgraded"`
	Downgraded int `json:"downgraded" yaml:"downgraded"`
	Changed    int `json:"changed" yaml:"changed"`
	Removed    int `json:"removed" yaml:"removed"`
}

// Total is the number of entries counted.
func (c Counts) Total() int {
	return c.Added + c.Upgraded + c.Downgraded + c.Changed + c.Removed
}

// Counts tallies the entries of one category. Changed only counts entries
// without a known direction.
func (d SnapshotDiff) Counts(c inventory.Category) Counts {
	var n Counts
	for _, e := range d.Changes[c] {
		switch {
		case e.Kind == Added:
			n.Added++
		case e.Kind == Removed:
			n.Removed++
		case e.Direction == Upgrade:
			n.Upgraded++
		case e.Direction == Downgrade:
			n.Downgraded++
		default:
			n.Changed++
		}
	}
	return n
}

// Empty reports whether no category has any change.
func (d SnapshotDiff) Empty() bool {
	for _, entries := range d.Changes {
		if len(entries) > 0 {
			return false
		}
	}
	return true
}

// Filter returns the entries of one category with the given kind.
func (d SnapshotDiff) Filter(c inventory.Category, k Kind) []ChangeEntry {
	var out []ChangeEntry
	for _, e := range d.Changes[c] {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Options tune how versions are compared.
type Options struct {
	VersionPolicy inventory.VersionPolicy

	// Parallel bounds concurrent pair computations in Sequence. Zero means
	// GOMAXPROCS.
	Parallel int
}

// Pair computes the diff from one snapshot to another. Identical inputs give
// a diff with no entries. The result depends only on the two snapshots.
func Pair(from, to *inventory.Snapshot, opts Options) SnapshotDiff {
	d := SnapshotDiff{
		From:    from.Identifier,
		To:      to.Identifier,
		Changes: make(map[inventory.Category][]ChangeEntry, len(inventory.Categories)),
	}
	for _, c := range inventory.Categories {
		d.Changes[c] = diffCategory(c, from.Index(c), to.Index(c), opts.VersionPolicy)
	}
	return d
}

func diffCategory(c inventory.Category, old, cur map[string]inventory.Record, policy inventory.VersionPolicy) []ChangeEntry {
	entries := []ChangeEntry{}

	for key, n := range cur {
		o, ok := old[key]
		switch {
		case !ok:
			entries = append(entries, ChangeEntry{Key: key, Name: n.Name, Kind: Added, NewVersion: n.Version})
		case !policy.Equal(c, o.Version, n.Version):
			entries = append(entries, ChangeEntry{
				Key:        key,
				Name:       n.Name,
				Kind:       Changed,
				Direction:  direction(c, o.Version, n.Version),
				OldVersion: o.Version,
				NewVersion: n.Version,
			})
		}
	}
	for key, o := range old {
		if _, ok := cur[key]; !ok {
			entries = append(entries, ChangeEntry{Key: key, Name: o.Name, Kind: Removed, OldVersion: o.Version})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

func direction(c inventory.Category, old, cur string) Direction {
	cmp, ok := inventory.CompareVersions(c, old, cur)
	switch {
	case !ok || cmp == 0:
		return Unknown
	case cmp < 0:
		return Upgrade
	}
	return Downgrade
}
