// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"github.com/eectl/eectl/internal/catalog"
	"github.com/eectl/eectl/internal/differ"
	"github.com/eectl/eectl/internal/inventory"
)

// Default column specs for the --attrs flag.
const (
	DefaultRecordAttrs     = "category,name,version,arch,provenance"
	DefaultChangeAttrs     = "category,name,kind,direction,from,to"
	DefaultSnapshotAttrs   = "identifier,created::T,size::h,rpm,python,collection"
	DefaultDiagnosticAttrs = "identifier,source,line,reason,text"
	DefaultTagAttrs        = "name,created::T,digest::-24"
)

// Column documents one row key for --schema.
type Column struct {
	Key         string
	Description string
}

// RecordColumns are the keys of a row built by RecordRows.
var RecordColumns = []Column{
	{"category", "rpm, python or collection"},
	{"key", "identity within the category (name.arch for rpms)"},
	{"name", "package or collection name"},
	{"version", "version as recorded (EVR for rpms)"},
	{"epoch", "rpm epoch"},
	{"release", "rpm release"},
	{"arch", "rpm architecture"},
	{"provenance", "collection source: galaxy, filesystem or rpm"},
}

// ChangeColumns are the keys of a row built by ChangeRows.
var ChangeColumns = []Column{
	{"category", "rpm, python or collection"},
	{"key", "identity within the category"},
	{"name", "package or collection name"},
	{"kind", "added, removed or changed"},
	{"direction", "upgrade, downgrade or unknown for changed entries"},
	{"from", "version in the older snapshot"},
	{"to", "version in the newer snapshot"},
	{"fromTag", "identifier of the older snapshot"},
	{"toTag", "identifier of the newer snapshot"},
}

// SnapshotColumns are the keys of a row built by SnapshotRows.
var SnapshotColumns = []Column{
	{"identifier", "snapshot identifier, usually the image tag"},
	{"reference", "full image reference"},
	{"created", "image creation time"},
	{"digest", "image digest"},
	{"architecture", "image architecture"},
	{"size", "image size in bytes"},
	{"rpm", "number of rpm records"},
	{"python", "number of python records"},
	{"collection", "number of collection records"},
	{"warnings", "number of skipped listing lines"},
}

// DiagnosticColumns are the keys of a row built by DiagnosticRows.
var DiagnosticColumns = []Column{
	{"identifier", "snapshot identifier"},
	{"category", "category of the listing"},
	{"source", "listing the line came from"},
	{"line", "line number within the listing"},
	{"reason", "why the line was skipped"},
	{"text", "the skipped text"},
}

// TagColumns are the keys of a row built by TagRows.
var TagColumns = []Column{
	{"name", "tag name"},
	{"created", "newest creation time of the images carrying the tag"},
	{"digest", "image id of that image"},
}

// TagRows turns catalog tags into rows.
func TagRows(tags []catalog.Tag) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(tags))
	for _, t := range tags {
		row := map[string]interface{}{
			"name":   t.Name,
			"digest": t.Digest,
		}
		if !t.Created.IsZero() {
			row["created"] = t.Created
		}
		rows = append(rows, row)
	}
	return rows
}

// SnapshotRows summarises each snapshot in one row.
func SnapshotRows(snaps []*inventory.Snapshot) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(snaps))
	for _, s := range snaps {
		row := map[string]interface{}{
			"identifier":   s.Identifier,
			"reference":    s.Reference,
			"created":      s.Image.Created,
			"digest":       s.Image.Digest,
			"architecture": s.Image.Architecture,
			"size":         s.Image.Size,
			"warnings":     len(s.Diagnostics()),
		}
		for _, c := range inventory.Categories {
			row[string(c)] = s.Len(c)
		}
		rows = append(rows, row)
	}
	return rows
}

// DiagnosticRows lists the skipped listing lines of the snapshots.
func DiagnosticRows(snaps ...*inventory.Snapshot) []map[string]interface{} {
	var rows []map[string]interface{}
	for _, s := range snaps {
		for _, d := range s.Diagnostics() {
			rows = append(rows, map[string]interface{}{
				"identifier": s.Identifier,
				"category":   string(d.Category),
				"source":     d.Source,
				"line":       d.Line,
				"reason":     d.Reason,
				"text":       d.Text,
			})
		}
	}
	return rows
}

// RecordRows flattens the records of a snapshot into output rows, category
// by category in the order given. No categories means all of them.
func RecordRows(s *inventory.Snapshot, cats ...inventory.Category) []map[string]interface{} {
	if len(cats) == 0 {
		cats = inventory.Categories
	}

	var rows []map[string]interface{}
	for _, c := range cats {
		for _, r := range s.Records(c) {
			rows = append(rows, map[string]interface{}{
				"category":   string(r.Category),
				"key":        r.Key(),
				"name":       r.Name,
				"version":    r.Version,
				"epoch":      r.Epoch,
				"release":    r.Release,
				"arch":       r.Arch,
				"provenance": string(r.Provenance),
			})
		}
	}
	return rows
}

// ChangeRows flattens a diff into output rows, category by category.
func ChangeRows(d differ.SnapshotDiff, cats ...inventory.Category) []map[string]interface{} {
	if len(cats) == 0 {
		cats = inventory.Categories
	}

	var rows []map[string]interface{}
	for _, c := range cats {
		for _, e := range d.Changes[c] {
			rows = append(rows, map[string]interface{}{
				"category":  string(c),
				"key":       e.Key,
				"name":      e.Name,
				"kind":      string(e.Kind),
				"direction": string(e.Direction),
				"from":      e.OldVersion,
				"to":        e.NewVersion,
				"fromTag":   d.From,
				"toTag":     d.To,
			})
		}
	}
	return rows
}
