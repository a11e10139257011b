// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/eectl/eectl/internal/differ"
	"github.com/eectl/eectl/internal/inventory"
)

// DefaultTitle heads every rendering unless overridden.
const DefaultTitle = "EE Image Package Diffs"

// SampleLimit bounds the entries listed in a cell before the full list:
// half of it for added and half for upgraded entries.
const SampleLimit = 30

// Formats lists the accepted --format values, default first.
var Formats = []string{"html", "text", "json", "yaml"}

// Column is one image of the sequence. Diff is nil for the baseline.
type Column struct {
	Identifier string               `json:"identifier" yaml:"identifier"`
	Reference  string               `json:"reference,omitempty" yaml:"reference,omitempty"`
	Created    time.Time            `json:"created,omitempty" yaml:"created,omitempty"`
	Digest     string               `json:"digest,omitempty" yaml:"digest,omitempty"`
	Size       int64                `json:"size,omitempty" yaml:"size,omitempty"`
	Diff       *differ.SnapshotDiff `json:"diff,omitempty" yaml:"diff,omitempty"`
}

// Report is everything a rendering needs.
type Report struct {
	Title      string               `json:"title" yaml:"title"`
	Generated  time.Time            `json:"generated" yaml:"generated"`
	Categories []inventory.Category `json:"categories" yaml:"categories"`
	Columns    []Column             `json:"columns" yaml:"columns"`
}

// New pairs an ordered snapshot list with the diffs between its neighbours.
// diffs[i] must run from snaps[i] to snaps[i+1].
func New(snaps []*inventory.Snapshot, diffs []differ.SnapshotDiff) (*Report, error) {
	if len(snaps) == 0 {
		return nil, fmt.Errorf("no snapshots to report on")
	}
	if len(diffs) != len(snaps)-1 {
		return nil, fmt.Errorf("%d snapshots need %d diffs, got %d", len(snaps), len(snaps)-1, len(diffs))
	}

	r := &Report{
		Title:      DefaultTitle,
		Generated:  time.Now(),
		Categories: slices.Clone(inventory.Categories),
		Columns:    make([]Column, len(snaps)),
	}

	for i, s := range snaps {
		col := Column{
			Identifier: s.Identifier,
			Reference:  s.Reference,
			Created:    s.Image.Created,
			Digest:     s.Image.Digest,
			Size:       s.Image.Size,
		}
		if i > 0 {
			d := diffs[i-1]
			if d.From != snaps[i-1].Identifier || d.To != s.Identifier {
				return nil, fmt.Errorf("diff %d runs %s→%s, expected %s→%s", i-1, d.From, d.To, snaps[i-1].Identifier, s.Identifier)
			}
			col.Diff = &d
		}
		r.Columns[i] = col
	}

	return r, nil
}

// Cell is the content of one category of one column.
type Cell struct {
	Baseline bool
	Counts   differ.Counts
	Sample   []string
	Groups   []Group
}

// Group is a titled list of entry lines in the full listing.
type Group struct {
	Title   string
	Entries []string
}

// Empty reports whether the cell holds no changes.
func (c Cell) Empty() bool { return !c.Baseline && c.Counts.Total() == 0 }

// HasMore reports whether the sample omits some entries.
func (c Cell) HasMore() bool { return c.Counts.Total() > len(c.Sample) }

// CountsLine renders the counts as "+A / ↑U / ↓D / −R". Changes without a
// known direction are appended as "~C" only when present.
func (c Cell) CountsLine() string {
	line := fmt.Sprintf("+%d / ↑%d / ↓%d / −%d", c.Counts.Added, c.Counts.Upgraded, c.Counts.Downgraded, c.Counts.Removed)
	if c.Counts.Changed > 0 {
		line += fmt.Sprintf(" / ~%d", c.Counts.Changed)
	}
	return line
}

// Cell builds the cell for one column and category.
func (col Column) Cell(c inventory.Category) Cell {
	if col.Diff == nil {
		return Cell{Baseline: true}
	}

	var added, upgraded, downgraded, changed, removed []string
	for _, e := range col.Diff.Changes[c] {
		line := EntryLine(c, e)
		switch {
		case e.Kind == differ.Added:
			added = append(added, line)
		case e.Kind == differ.Removed:
			removed = append(removed, line)
		case e.Direction == differ.Upgrade:
			upgraded = append(upgraded, line)
		case e.Direction == differ.Downgrade:
			downgraded = append(downgraded, line)
		default:
			changed = append(changed, line)
		}
	}

	half := SampleLimit / 2
	cell := Cell{Counts: col.Diff.Counts(c)}
	cell.Sample = append(cell.Sample, added[:min(half, len(added))]...)
	cell.Sample = append(cell.Sample, upgraded[:min(half, len(upgraded))]...)

	for _, g := range []Group{
		{"Added", added},
		{"Upgraded", upgraded},
		{"Downgraded", downgraded},
		{"Changed", changed},
		{"Removed", removed},
	} {
		if len(g.Entries) > 0 {
			cell.Groups = append(cell.Groups, g)
		}
	}

	return cell
}

// EntryLine renders one change, e.g. "↑ bash[x86_64] 5.1-1 → 5.2-1".
func EntryLine(c inventory.Category, e differ.ChangeEntry) string {
	label := e.Name
	if c == inventory.CategoryRPM {
		if arch := strings.TrimPrefix(e.Key, e.Name+"."); arch != e.Key && arch != "" {
			label = fmt.Sprintf("%s[%s]", e.Name, arch)
		}
	}

	switch {
	case e.Kind == differ.Added:
		return fmt.Sprintf("+ %s %s", label, e.NewVersion)
	case e.Kind == differ.Removed:
		return fmt.Sprintf("− %s %s", label, e.OldVersion)
	case e.Direction == differ.Upgrade:
		return fmt.Sprintf("↑ %s %s → %s", label, e.OldVersion, e.NewVersion)
	case e.Direction == differ.Downgrade:
		return fmt.Sprintf("↓ %s %s → %s", label, e.OldVersion, e.NewVersion)
	default:
		return fmt.Sprintf("~ %s %s → %s", label, e.OldVersion, e.NewVersion)
	}
}

// Totals sums the counts of every diff per category.
func (r *Report) Totals() map[inventory.Category]differ.Counts {
	out := make(map[inventory.Category]differ.Counts, len(r.Categories))
	for _, col := range r.Columns {
		if col.Diff == nil {
			continue
		}
		for _, c := range r.Categories {
			n, add := out[c], col.Diff.Counts(c)
			n.Added += add.Added
			n.Upgraded += add.Upgraded
			n.Downgraded += add.Downgraded
			n.Changed += add.Changed
			n.Removed += add.Removed
			out[c] = n
		}
	}
	return out
}
