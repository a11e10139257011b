// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/eectl/eectl/internal/differ"
	"github.com/eectl/eectl/internal/inventory"
)

func rpm(name, arch, evr string) inventory.Record {
	return inventory.Record{Category: inventory.CategoryRPM, Name: name, Arch: arch, Version: evr}
}

func py(name, version string) inventory.Record {
	return inventory.Record{Category: inventory.CategoryPython, Name: name, Version: version}
}

func build(t *testing.T, id string, created time.Time, records ...inventory.Record) *inventory.Snapshot {
	t.Helper()
	s, err := inventory.NewSnapshot(id, "registry.example/ee:"+id, inventory.Image{Created: created, Size: 1500000000}, records, nil)
	require.NoError(t, err)
	return s
}

func sampleReport(t *testing.T) *Report {
	t.Helper()
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	snaps := []*inventory.Snapshot{
		build(t, "1.0", day, rpm("bash", "x86_64", "5.1-1"), py("jinja2", "3.1.2"), py("six", "1.16.0")),
		build(t, "1.1", day.Add(24*time.Hour), rpm("bash", "x86_64", "5.2-1"), py("jinja2", "3.1.2"), py("six", "1.16.0")),
		build(t, "1.2", day.Add(48*time.Hour), rpm("bash", "x86_64", "5.1-1"), py("jinja2", "3.1.4"), py("attrs", "23.1.0")),
	}

	diffs, err := differ.Snapshots(context.Background(), snaps, differ.Options{})
	require.NoError(t, err)

	r, err := New(snaps, diffs)
	require.NoError(t, err)
	r.Generated = day
	return r
}

func TestNew(t *testing.T) {
	r := sampleReport(t)
	require.Len(t, r.Columns, 3)
	assert.Nil(t, r.Columns[0].Diff)
	assert.Equal(t, "1.0", r.Columns[1].Diff.From)

	_, err := New(nil, nil)
	assert.Error(t, err)

	snaps := []*inventory.Snapshot{build(t, "a", time.Time{}), build(t, "b", time.Time{})}
	_, err = New(snaps, nil)
	assert.Error(t, err)

	_, err = New(snaps, []differ.SnapshotDiff{{From: "b", To: "a"}})
	assert.ErrorContains(t, err, "expected a→b")
}

func TestCell(t *testing.T) {
	r := sampleReport(t)

	base := r.Columns[0].Cell(inventory.CategoryRPM)
	assert.True(t, base.Baseline)
	assert.False(t, base.Empty())

	up := r.Columns[1].Cell(inventory.CategoryRPM)
	assert.Equal(t, "+0 / ↑1 / ↓0 / −0", up.CountsLine())
	assert.Equal(t, []string{"↑ bash[x86_64] 5.1-1 → 5.2-1"}, up.Sample)
	assert.False(t, up.HasMore())

	assert.True(t, r.Columns[1].Cell(inventory.CategoryPython).Empty())

	pyCell := r.Columns[2].Cell(inventory.CategoryPython)
	assert.Equal(t, "+1 / ↑1 / ↓0 / −1", pyCell.CountsLine())
	assert.Equal(t, []string{"+ attrs 23.1.0", "↑ jinja2 3.1.2 → 3.1.4"}, pyCell.Sample)
	assert.True(t, pyCell.HasMore())
	require.Len(t, pyCell.Groups, 3)
	assert.Equal(t, "Removed", pyCell.Groups[2].Title)
	assert.Equal(t, []string{"− six 1.16.0"}, pyCell.Groups[2].Entries)
}

func TestCellSampleLimit(t *testing.T) {
	var before, after []inventory.Record
	for i := 0; i < 20; i++ {
		before = append(before, py(fmt.Sprintf("up%02d", i), "1.0"))
		after = append(after, py(fmt.Sprintf("up%02d", i), "2.0"))
		after = append(after, py(fmt.Sprintf("new%02d", i), "1.0"))
	}
	a := build(t, "a", time.Time{}, before...)
	b := build(t, "b", time.Time{}, after...)

	d := differ.Pair(a, b, differ.Options{})
	cell := Column{Diff: &d}.Cell(inventory.CategoryPython)

	assert.Len(t, cell.Sample, SampleLimit)
	assert.True(t, strings.HasPrefix(cell.Sample[0], "+ new00"))
	assert.True(t, strings.HasPrefix(cell.Sample[SampleLimit/2], "↑ up00"))
	assert.True(t, cell.HasMore())
}

func TestEntryLine(t *testing.T) {
	tests := []struct {
		name  string
		c     inventory.Category
		entry differ.ChangeEntry
		want  string
	}{
		{"rpm added", inventory.CategoryRPM, differ.ChangeEntry{Key: "glibc.i686", Name: "glibc", Kind: differ.Added, NewVersion: "2.34-1"}, "+ glibc[i686] 2.34-1"},
		{"rpm without arch", inventory.CategoryRPM, differ.ChangeEntry{Key: "gpg-pubkey", Name: "gpg-pubkey", Kind: differ.Removed, OldVersion: "1-1"}, "− gpg-pubkey 1-1"},
		{"downgrade", inventory.CategoryPython, differ.ChangeEntry{Key: "six", Name: "six", Kind: differ.Changed, Direction: differ.Downgrade, OldVersion: "2", NewVersion: "1"}, "↓ six 2 → 1"},
		{"unknown direction", inventory.CategoryCollection, differ.ChangeEntry{Key: "a.b", Name: "a.b", Kind: differ.Changed, Direction: differ.Unknown, OldVersion: "x", NewVersion: "y"}, "~ a.b x → y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EntryLine(tt.c, tt.entry))
		})
	}
}

func TestCountsLineChanged(t *testing.T) {
	c := Cell{Counts: differ.Counts{Added: 1, Changed: 2}}
	assert.Equal(t, "+1 / ↑0 / ↓0 / −0 / ~2", c.CountsLine())
}

func TestTotals(t *testing.T) {
	r := sampleReport(t)
	totals := r.Totals()
	assert.Equal(t, 1, totals[inventory.CategoryRPM].Upgraded)
	assert.Equal(t, 1, totals[inventory.CategoryRPM].Downgraded)
	assert.Equal(t, 1, totals[inventory.CategoryPython].Added)
}

func TestHTML(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, "html"))

	out := buf.String()
	assert.Contains(t, out, "<h1>EE Image Package Diffs</h1>")
	assert.Contains(t, out, "<th class='taghdr'>1.0")
	assert.Contains(t, out, "<th class='rowlbl'>Python Packages</th>")
	assert.Contains(t, out, "<div class='empty'>No changes</div>")
	assert.Contains(t, out, "<div class='counts'>+1 / ↑1 / ↓0 / −1</div>")
	assert.Contains(t, out, "<summary>Show all (3)</summary>")
	assert.Contains(t, out, "↓ bash[x86_64] 5.2-1 → 5.1-1")
	assert.Contains(t, out, "1.5 GB")
	assert.Contains(t, out, "Generated 2025-01-01 00:00:00 UTC")
}

func TestHTMLEscapes(t *testing.T) {
	a := build(t, "<a>", time.Time{})
	b := build(t, "b", time.Time{}, py("<script>", "1"))
	d := differ.Pair(a, b, differ.Options{})

	r, err := New([]*inventory.Snapshot{a, b}, []differ.SnapshotDiff{d})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.HTML(&buf))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;a&gt;")
}

func TestText(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, "text"))

	out := buf.String()
	assert.Contains(t, out, "EE Image Package Diffs")
	assert.Contains(t, out, "RPMs")
	assert.Contains(t, out, "+0 / ↑0 / ↓1 / −0")
	assert.Contains(t, out, "No changes")
}

func TestJSONAndYAML(t *testing.T) {
	r := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, "json"))
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, DefaultTitle, doc["title"])
	assert.Len(t, doc["columns"], 3)

	buf.Reset()
	require.NoError(t, Render(&buf, r, "yaml"))
	var ydoc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &ydoc))
	assert.Equal(t, DefaultTitle, ydoc["title"])
}

func TestRenderUnknownFormat(t *testing.T) {
	assert.Error(t, Render(&bytes.Buffer{}, sampleReport(t), "pdf"))
	assert.True(t, ValidFormat("HTML"))
	assert.False(t, ValidFormat("pdf"))
}
