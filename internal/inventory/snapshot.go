// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Image carries the container metadata captured next to the listings.
type Image struct {
	Created      time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Digest       string    `json:"digest,omitempty" yaml:"digest,omitempty"`
	RepoDigests  []string  `json:"repoDigests,omitempty" yaml:"repoDigests,omitempty"`
	RepoTags     []string  `json:"repoTags,omitempty" yaml:"repoTags,omitempty"`
	Architecture string    `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	Size         int64     `json:"size,omitempty" yaml:"size,omitempty"`
}

// Snapshot is the canonical inventory of one image. It is immutable once
// built; records are only reachable through copies.
type Snapshot struct {
	Identifier string
	Reference  string
	Image      Image

	records     map[Category]map[string]Record
	diagnostics []LineSkipWarning
}

// NewSnapshot assembles a Snapshot from already parsed records. Two records
// sharing (category, key) are rejected, so every Snapshot honours the
// uniqueness invariant no matter where its records came from.
func NewSnapshot(identifier, reference string, image Image, records []Record, diags []LineSkipWarning) (*Snapshot, error) {
	s := &Snapshot{
		Identifier: identifier,
		Reference:  reference,
		Image:      image,
		records:    make(map[Category]map[string]Record, len(Categories)),
	}
	for _, c := range Categories {
		s.records[c] = map[string]Record{}
	}

	for _, r := range records {
		bucket, ok := s.records[r.Category]
		if !ok {
			return nil, &ParseError{Identifier: identifier, Category: r.Category, Source: SourceDocument,
				Err: fmt.Errorf("unknown category %q for %s", r.Category, r.Name)}
		}
		if r.Name == "" {
			return nil, &ParseError{Identifier: identifier, Category: r.Category, Source: SourceDocument,
				Err: fmt.Errorf("record without name")}
		}
		key := r.Key()
		if prev, dup := bucket[key]; dup {
			return nil, &ParseError{Identifier: identifier, Category: r.Category, Source: SourceDocument,
				Err: fmt.Errorf("duplicate record %s (%s and %s)", key, prev.Version, r.Version)}
		}
		bucket[key] = r
	}

	s.diagnostics = make([]LineSkipWarning, len(diags))
	for i, d := range diags {
		d.Identifier = identifier
		s.diagnostics[i] = d
	}

	return s, nil
}

// Records returns the records of one category sorted by key.
func (s *Snapshot) Records(c Category) []Record {
	bucket := s.records[c]
	out := make([]Record, 0, len(bucket))
	for _, r := range bucket {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Index returns a copy of the key -> record mapping for one category.
func (s *Snapshot) Index(c Category) map[string]Record {
	bucket := s.records[c]
	out := make(map[string]Record, len(bucket))
	for k, r := range bucket {
		out[k] = r
	}
	return out
}

// Lookup finds a record by category and key.
func (s *Snapshot) Lookup(c Category, key string) (Record, bool) {
	r, ok := s.records[c][key]
	return r, ok
}

// Len returns the number of records in one category.
func (s *Snapshot) Len(c Category) int {
	return len(s.records[c])
}

// Diagnostics returns the warnings accumulated while the snapshot was built.
func (s *Snapshot) Diagnostics() []LineSkipWarning {
	out := make([]LineSkipWarning, len(s.diagnostics))
	copy(out, s.diagnostics)
	return out
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("%s (rpm=%d python=%d collection=%d)", s.Identifier,
		s.Len(CategoryRPM), s.Len(CategoryPython), s.Len(CategoryCollection))
}

// MarshalJSON renders the snapshot as a document whose records are grouped by
// category and keyed by record key, which keeps structural diffs stable.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	records := make(map[Category]map[string]string, len(s.records))
	for c, bucket := range s.records {
		m := make(map[string]string, len(bucket))
		for k, r := range bucket {
			m[k] = r.Version
		}
		records[c] = m
	}
	return json.Marshal(struct {
		Identifier  string                         `json:"identifier"`
		Reference   string                         `json:"reference,omitempty"`
		Image       Image                          `json:"image"`
		Records     map[Category]map[string]string `json:"records"`
		Diagnostics []LineSkipWarning              `json:"diagnostics,omitempty"`
	}{s.Identifier, s.Reference, s.Image, records, s.diagnostics})
}
