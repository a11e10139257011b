// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"crypto/sha256"
	"errors"
	"io/fs"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/eectl/eectl/internal/log"
)

// Raw is one captured listing. The zero value is an absent listing, which is
// distinct from a listing that was captured and turned out empty.
type Raw struct {
	Data    string
	Present bool
}

// Present wraps captured listing text.
func Present(data string) Raw {
	return Raw{Data: data, Present: true}
}

// Listings are the raw sources of one image.
type Listings struct {
	RPM    Raw
	Python Raw
	Galaxy Raw

	// Collections is the image filesystem (or the extracted metadata subset of
	// it) that Options.ScanRoots are resolved against.
	Collections fs.FS
}

// Options configure every build of a Run.
type Options struct {
	ScanRoots            []string
	RPMCollectionPattern string
	Precedence           []Provenance
	VersionPolicy        VersionPolicy
}

// Run holds the state shared by the snapshot builds of one invocation. It is
// safe for concurrent use.
type Run struct {
	ID uuid.UUID

	opts    Options
	pattern *CollectionPattern

	mu      sync.Mutex
	rpmMemo map[[sha256.Size]byte]rpmResult

	builds   atomic.Int64
	memoHits atomic.Int64
}

type rpmResult struct {
	records  []Record
	warnings []LineSkipWarning
	err      error
}

// NewRun validates opts and returns a Run with a fresh ID.
func NewRun(opts Options) (*Run, error) {
	pattern, err := NewCollectionPattern(opts.RPMCollectionPattern)
	if err != nil {
		return nil, err
	}
	if len(opts.Precedence) == 0 {
		opts.Precedence = DefaultPrecedence
	}
	opts.ScanRoots = append([]string(nil), opts.ScanRoots...)
	opts.Precedence = append([]Provenance(nil), opts.Precedence...)

	return &Run{
		ID:      uuid.New(),
		opts:    opts,
		pattern: pattern,
		rpmMemo: map[[sha256.Size]byte]rpmResult{},
	}, nil
}

// Options returns the options the run was created with.
func (r *Run) Options() Options {
	o := r.opts
	o.ScanRoots = append([]string(nil), o.ScanRoots...)
	o.Precedence = append([]Provenance(nil), o.Precedence...)
	return o
}

// Stats reports the number of builds and how many of them reused an already
// parsed RPM listing.
func (r *Run) Stats() (builds, memoHits int64) {
	return r.builds.Load(), r.memoHits.Load()
}

// BuildSnapshot reconciles the listings of one image into a Snapshot. Any
// absent or structurally unreadable listing fails the build with a
// ParseError; malformed single entries only add diagnostics.
func (r *Run) BuildSnapshot(id, ref string, meta Image, l Listings) (*Snapshot, error) {
	r.builds.Add(1)
	if id == "" {
		return nil, &ParseError{Source: SourceDocument, Err: errors.New("empty identifier")}
	}

	fail := func(c Category, source string, err error) error {
		return &ParseError{Identifier: id, Category: c, Source: source, Err: err}
	}

	switch {
	case !l.RPM.Present:
		return nil, fail(CategoryRPM, SourceRPM, ErrAbsent)
	case !l.Python.Present:
		return nil, fail(CategoryPython, SourcePython, ErrAbsent)
	case !l.Galaxy.Present:
		return nil, fail(CategoryCollection, SourceGalaxy, ErrAbsent)
	case l.Collections == nil && len(r.opts.ScanRoots) > 0:
		return nil, fail(CategoryCollection, SourceFilesystem, ErrAbsent)
	}

	var diags []LineSkipWarning

	rpms, warns, err := r.parseRPM(l.RPM.Data)
	if err != nil {
		return nil, fail(CategoryRPM, SourceRPM, err)
	}
	diags = append(diags, warns...)

	pythons, warns, err := ParsePython(l.Python.Data)
	if err != nil {
		return nil, fail(CategoryPython, SourcePython, err)
	}
	diags = append(diags, warns...)

	galaxy, warns, err := ParseGalaxy(l.Galaxy.Data)
	if err != nil {
		return nil, fail(CategoryCollection, SourceGalaxy, err)
	}
	diags = append(diags, warns...)

	var scanned []Record
	if l.Collections != nil && len(r.opts.ScanRoots) > 0 {
		scanned, warns, err = ScanCollections(l.Collections, r.opts.ScanRoots)
		if err != nil {
			return nil, fail(CategoryCollection, SourceFilesystem, err)
		}
		diags = append(diags, warns...)
	}

	collections := MergeOverlays(orderOverlays(r.opts.Precedence, []Overlay{
		{Provenance: ProvenanceRPM, Records: RPMCollections(rpms, r.pattern)},
		{Provenance: ProvenanceFilesystem, Records: scanned},
		{Provenance: ProvenanceGalaxy, Records: galaxy},
	})...)

	records := make([]Record, 0, len(rpms)+len(pythons)+len(collections))
	records = append(records, rpms...)
	records = append(records, pythons...)
	records = append(records, collections...)

	s, err := NewSnapshot(id, ref, meta, records, diags)
	if err != nil {
		return nil, err
	}
	log.Debugf("run %s: built %s with %d warnings", r.ID, s, len(diags))
	return s, nil
}

// parseRPM memoises ParseRPM by content, so images sharing a base layer parse
// it once per run.
func (r *Run) parseRPM(data string) ([]Record, []LineSkipWarning, error) {
	key := sha256.Sum256([]byte(data))

	r.mu.Lock()
	res, ok := r.rpmMemo[key]
	r.mu.Unlock()

	if ok {
		r.memoHits.Add(1)
	} else {
		res.records, res.warnings, res.err = ParseRPM(data)
		r.mu.Lock()
		r.rpmMemo[key] = res
		r.mu.Unlock()
	}

	return append([]Record(nil), res.records...), append([]LineSkipWarning(nil), res.warnings...), res.err
}
