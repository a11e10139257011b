// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/eectl/eectl/internal/inventory"
	"github.com/eectl/eectl/internal/util"
)

type xmlImage struct {
	XMLName      xml.Name        `xml:"image"`
	Identifier   string          `xml:"identifier,attr,omitempty"`
	Reference    string          `xml:"reference,attr"`
	Created      string          `xml:"created,attr,omitempty"`
	Digest       string          `xml:"digest,attr,omitempty"`
	Architecture string          `xml:"architecture,attr,omitempty"`
	Size         int64           `xml:"size,attr,omitempty"`
	RepoDigests  []string        `xml:"repoDigests>digest,omitempty"`
	RepoTags     []string        `xml:"repoTags>tag,omitempty"`
	RPMs         []xmlRPM        `xml:"rpms>rpm"`
	Python       []xmlPackage    `xml:"python>package"`
	Collections  []xmlCollection `xml:"collections>collection"`
	Diagnostics  []xmlWarning    `xml:"diagnostics>warning,omitempty"`
}

type xmlRPM struct {
	Name    string `xml:"name,attr"`
	Epoch   string `xml:"epoch,attr,omitempty"`
	Version string `xml:"version,attr"`
	Release string `xml:"release,attr"`
	Arch    string `xml:"arch,attr"`
}

type xmlPackage struct {
	Name    string `xml:"name,attr"`
	Version string `xml:"version,attr"`
}

type xmlCollection struct {
	Name       string `xml:"name,attr"`
	Version    string `xml:"version,attr"`
	Provenance string `xml:"provenance,attr,omitempty"`
}

type xmlWarning struct {
	Category string `xml:"category,attr"`
	Source   string `xml:"source,attr"`
	Line     int    `xml:"line,attr,omitempty"`
	Reason   string `xml:"reason,attr"`
	Text     string `xml:",chardata"`
}

// Encode writes s as an XML document.
func Encode(w io.Writer, s *inventory.Snapshot) error {
	doc := xmlImage{
		Identifier:   s.Identifier,
		Reference:    s.Reference,
		Digest:       s.Image.Digest,
		Architecture: s.Image.Architecture,
		Size:         s.Image.Size,
		RepoDigests:  s.Image.RepoDigests,
		RepoTags:     s.Image.RepoTags,
	}
	if !s.Image.Created.IsZero() {
		doc.Created = s.Image.Created.UTC().Format(time.RFC3339Nano)
	}

	rpms := s.Records(inventory.CategoryRPM)
	sort.SliceStable(rpms, func(i, j int) bool {
		if rpms[i].Name != rpms[j].Name {
			return rpms[i].Name < rpms[j].Name
		}
		return rpms[i].Arch < rpms[j].Arch
	})
	for _, r := range rpms {
		doc.RPMs = append(doc.RPMs, xmlRPM{Name: r.Name, Epoch: r.Epoch, Version: r.UpstreamVersion(), Release: r.Release, Arch: r.Arch})
	}
	for _, r := range s.Records(inventory.CategoryPython) {
		doc.Python = append(doc.Python, xmlPackage{Name: r.Name, Version: r.Version})
	}
	for _, r := range s.Records(inventory.CategoryCollection) {
		doc.Collections = append(doc.Collections, xmlCollection{Name: r.Name, Version: r.Version, Provenance: string(r.Provenance)})
	}
	for _, d := range s.Diagnostics() {
		doc.Diagnostics = append(doc.Diagnostics, xmlWarning{
			Category: string(d.Category), Source: d.Source, Line: d.Line, Reason: d.Reason, Text: d.Text,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.Identifier, err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Decode reads a document written by Encode. Documents without an identifier
// attribute take the tag of their reference, then of their first repo tag,
// then fallbackID.
func Decode(r io.Reader, fallbackID string) (*inventory.Snapshot, error) {
	var doc xmlImage
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &inventory.ParseError{Identifier: fallbackID, Source: inventory.SourceDocument, Err: err}
	}

	id := documentIdentifier(doc, fallbackID)
	img := inventory.Image{
		Digest:       doc.Digest,
		Architecture: doc.Architecture,
		Size:         doc.Size,
		RepoDigests:  doc.RepoDigests,
		RepoTags:     doc.RepoTags,
	}
	if doc.Created != "" {
		t, err := parseCreated(doc.Created)
		if err != nil {
			return nil, &inventory.ParseError{Identifier: id, Source: inventory.SourceDocument, Err: err}
		}
		img.Created = t
	}

	records := make([]inventory.Record, 0, len(doc.RPMs)+len(doc.Python)+len(doc.Collections))
	for _, x := range doc.RPMs {
		epoch := inventory.NormalizeEpoch(x.Epoch)
		records = append(records, inventory.Record{
			Name:     x.Name,
			Version:  inventory.EVR(epoch, x.Version, x.Release),
			Category: inventory.CategoryRPM,
			Epoch:    epoch,
			Release:  x.Release,
			Arch:     x.Arch,
		})
	}
	for _, x := range doc.Python {
		records = append(records, inventory.Record{Name: x.Name, Version: x.Version, Category: inventory.CategoryPython})
	}
	for _, x := range doc.Collections {
		records = append(records, inventory.Record{
			Name: x.Name, Version: x.Version, Category: inventory.CategoryCollection, Provenance: inventory.Provenance(x.Provenance),
		})
	}

	diags := make([]inventory.LineSkipWarning, 0, len(doc.Diagnostics))
	for _, w := range doc.Diagnostics {
		diags = append(diags, inventory.LineSkipWarning{
			Category: inventory.Category(w.Category), Source: w.Source, Line: w.Line, Reason: w.Reason, Text: w.Text,
		})
	}

	return inventory.NewSnapshot(id, doc.Reference, img, records, diags)
}

func documentIdentifier(doc xmlImage, fallback string) string {
	if doc.Identifier != "" {
		return doc.Identifier
	}
	if ref := util.ParseImageRef(doc.Reference); ref.Tag != "" {
		return ref.Tag
	}
	for _, t := range doc.RepoTags {
		if ref := util.ParseImageRef(t); ref.Tag != "" {
			return ref.Tag
		}
	}
	if _, tag, ok := strings.Cut(fallback, "__"); ok && tag != "" {
		return tag
	}
	return fallback
}

// parseCreated accepts RFC 3339 as well as the "2024-05-01 10:20:30.123 +0000 UTC"
// form podman prints.
func parseCreated(s string) (time.Time, error) {
	layouts := []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999 -0700 MST", "2006-01-02T15:04:05"}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised created time %q", s)
}
