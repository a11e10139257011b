// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/eectl/eectl/internal/inventory"
	"github.com/eectl/eectl/internal/log"
)

// SequenceError reasons.
const (
	ReasonMissing   = "missing"
	ReasonDuplicate = "duplicate"
	ReasonEmpty     = "empty"
)

// SequenceError reports an ordering that cannot be diffed as given. No
// position is ever skipped, so one bad identifier fails the whole sequence.
type SequenceError struct {
	Identifier string
	Index      int
	Reason     string
}

func (e *SequenceError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return fmt.Sprintf("sequence position %d: empty identifier", e.Index)
	case ReasonDuplicate:
		return fmt.Sprintf("sequence position %d: identifier %q appears more than once", e.Index, e.Identifier)
	}
	return fmt.Sprintf("sequence position %d: no snapshot for %q", e.Index, e.Identifier)
}

// Source resolves identifiers to snapshots.
type Source interface {
	Snapshot(id string) (*inventory.Snapshot, bool)
}

// SnapshotSet is a Source backed by a map.
type SnapshotSet map[string]*inventory.Snapshot

// NewSnapshotSet indexes snapshots by identifier. Later duplicates replace
// earlier ones.
func NewSnapshotSet(snaps ...*inventory.Snapshot) SnapshotSet {
	set := make(SnapshotSet, len(snaps))
	for _, s := range snaps {
		if s != nil {
			set[s.Identifier] = s
		}
	}
	return set
}

// Snapshot implements Source.
func (s SnapshotSet) Snapshot(id string) (*inventory.Snapshot, bool) {
	snap, ok := s[id]
	return snap, ok && snap != nil
}

// Sequence diffs every adjacent pair of order. The first identifier is the
// baseline and yields no diff of its own, so n identifiers give n-1 diffs in
// order. Pairs are computed concurrently.
func Sequence(ctx context.Context, order []string, source Source, opts Options) ([]SnapshotDiff, error) {
	order = append([]string(nil), order...)

	snaps := make([]*inventory.Snapshot, len(order))
	seen := make(map[string]int, len(order))
	for i, id := range order {
		if id == "" {
			return nil, &SequenceError{Index: i, Reason: ReasonEmpty}
		}
		if _, dup := seen[id]; dup {
			return nil, &SequenceError{Identifier: id, Index: i, Reason: ReasonDuplicate}
		}
		seen[id] = i

		s, ok := source.Snapshot(id)
		if !ok {
			return nil, &SequenceError{Identifier: id, Index: i, Reason: ReasonMissing}
		}
		snaps[i] = s
	}

	return pairs(ctx, snaps, opts)
}

// Snapshots is Sequence over snapshots already in order.
func Snapshots(ctx context.Context, snaps []*inventory.Snapshot, opts Options) ([]SnapshotDiff, error) {
	order := make([]string, len(snaps))
	for i, s := range snaps {
		if s == nil {
			return nil, &SequenceError{Index: i, Reason: ReasonMissing}
		}
		order[i] = s.Identifier
	}
	return Sequence(ctx, order, NewSnapshotSet(snaps...), opts)
}

func pairs(ctx context.Context, snaps []*inventory.Snapshot, opts Options) ([]SnapshotDiff, error) {
	if len(snaps) < 2 {
		return []SnapshotDiff{}, nil
	}

	limit := opts.Parallel
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	diffs := make([]SnapshotDiff, len(snaps)-1)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 1; i < len(snaps); i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			diffs[i-1] = Pair(snaps[i-1], snaps[i], opts)
			log.Tracef("diffed %s -> %s", snaps[i-1].Identifier, snaps[i].Identifier)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return diffs, nil
}
