// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eectl/eectl/internal/inventory"
)

func py(name, version string) inventory.Record {
	return inventory.Record{Name: name, Version: version, Category: inventory.CategoryPython}
}

func snap(t *testing.T, id string, records ...inventory.Record) *inventory.Snapshot {
	t.Helper()
	s, err := inventory.NewSnapshot(id, "", inventory.Image{}, records, nil)
	require.NoError(t, err)
	return s
}

func coll(name, version string, p inventory.Provenance) inventory.Record {
	return inventory.Record{Name: name, Version: version, Category: inventory.CategoryCollection, Provenance: p}
}

func rpm(name, version, arch string) inventory.Record {
	return inventory.Record{Name: name, Version: version, Category: inventory.CategoryRPM, Arch: arch}
}

func TestPairEndToEnd(t *testing.T) {
	a := snap(t, "A",
		coll("foo", "1.0", inventory.ProvenanceGalaxy),
		coll("bar", "2.0", inventory.ProvenanceRPM))
	b := snap(t, "B",
		coll("foo", "1.1", inventory.ProvenanceGalaxy),
		coll("baz", "0.1", inventory.ProvenanceFilesystem))

	d := Pair(a, b, Options{})
	assert.Equal(t, "A", d.From)
	assert.Equal(t, "B", d.To)
	assert.Equal(t, []ChangeEntry{
		{Key: "bar", Name: "bar", Kind: Removed, OldVersion: "2.0"},
		{Key: "baz", Name: "baz", Kind: Added, NewVersion: "0.1"},
		{Key: "foo", Name: "foo", Kind: Changed, Direction: Upgrade, OldVersion: "1.0", NewVersion: "1.1"},
	}, d.Changes[inventory.CategoryCollection])
	assert.Empty(t, d.Changes[inventory.CategoryRPM])
	assert.Empty(t, d.Changes[inventory.CategoryPython])

	assert.Equal(t, Counts{Added: 1, Upgraded: 1, Removed: 1}, d.Counts(inventory.CategoryCollection))
	assert.Equal(t, 3, d.Counts(inventory.CategoryCollection).Total())
	assert.Len(t, d.Filter(inventory.CategoryCollection, Added), 1)
}

func TestPairOrdersByName(t *testing.T) {
	empty := snap(t, "E")
	b := snap(t, "B",
		rpm("foo-bar", "1-1", "x86_64"),
		rpm("foo", "1-1", "x86_64"),
		rpm("glibc", "2.34-1", "x86_64"),
		rpm("glibc", "2.34-1", "i686"),
		coll("alpha.y", "1.0.0", inventory.ProvenanceGalaxy),
		coll("Zeta.x", "1.0.0", inventory.ProvenanceGalaxy))

	names := func(entries []ChangeEntry) (out []string) {
		for _, e := range entries {
			out = append(out, e.Key)
		}
		return out
	}

	d := Pair(empty, b, Options{})
	assert.Equal(t, []string{"foo.x86_64", "foo-bar.x86_64", "glibc.i686", "glibc.x86_64"}, names(d.Changes[inventory.CategoryRPM]))
	assert.Equal(t, []string{"zeta.x", "alpha.y"}, names(d.Changes[inventory.CategoryCollection]))

	d = Pair(b, empty, Options{})
	assert.Equal(t, []string{"foo.x86_64", "foo-bar.x86_64", "glibc.i686", "glibc.x86_64"}, names(d.Changes[inventory.CategoryRPM]))
}

func TestPairSelfIsEmpty(t *testing.T) {
	s := snap(t, "S", py("foo", "1.0"), inventory.Record{Name: "bash", Version: "5.1-1", Category: inventory.CategoryRPM, Arch: "x86_64"})
	d := Pair(s, s, Options{})
	assert.True(t, d.Empty())
	for _, c := range inventory.Categories {
		assert.Empty(t, d.Changes[c])
	}
}

func TestPairCompleteness(t *testing.T) {
	a := snap(t, "A", py("a", "1"), py("b", "1"), py("c", "1"), py("d", "1"))
	b := snap(t, "B", py("b", "1"), py("c", "2"), py("d", "0.9"), py("e", "1"))

	d := Pair(a, b, Options{})
	names := map[string]ChangeEntry{}
	for _, e := range d.Changes[inventory.CategoryPython] {
		names[e.Name] = e
	}

	assert.NotContains(t, names, "b")
	assert.Equal(t, Removed, names["a"].Kind)
	assert.Equal(t, Upgrade, names["c"].Direction)
	assert.Equal(t, Downgrade, names["d"].Direction)
	assert.Equal(t, Added, names["e"].Kind)
}

func TestPairDirectionUnknown(t *testing.T) {
	a := snap(t, "A", py("foo", "nightly"))
	b := snap(t, "B", py("foo", "1.0"))
	d := Pair(a, b, Options{})
	require.Len(t, d.Changes[inventory.CategoryPython], 1)
	assert.Equal(t, Unknown, d.Changes[inventory.CategoryPython][0].Direction)
}

func TestPairVersionPolicy(t *testing.T) {
	a := snap(t, "A", py("foo", "1.0"))
	b := snap(t, "B", py("foo", "1.0.0"))

	strict := Pair(a, b, Options{})
	require.Len(t, strict.Changes[inventory.CategoryPython], 1)
	assert.Equal(t, Unknown, strict.Changes[inventory.CategoryPython][0].Direction)

	lenient := Pair(a, b, Options{VersionPolicy: inventory.VersionPolicy{Lenient: true}})
	assert.True(t, lenient.Empty())
}

func TestPairDeterministic(t *testing.T) {
	var ra, rb []inventory.Record
	for _, n := range []string{"q", "w", "e", "r", "t", "y", "u", "i", "o", "p"} {
		ra = append(ra, py(n, "1"))
		rb = append(rb, py(n+"x", "1"))
	}
	a := snap(t, "A", ra...)
	b := snap(t, "B", rb...)

	first := Pair(a, b, Options{})
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Pair(a, b, Options{}))
	}
}

func TestSequence(t *testing.T) {
	set := NewSnapshotSet(
		snap(t, "1.0", py("foo", "1.0")),
		snap(t, "1.1", py("foo", "1.1")),
		snap(t, "1.2", py("foo", "1.1"), py("bar", "1")),
	)

	diffs, err := Sequence(context.Background(), []string{"1.0", "1.1", "1.2"}, set, Options{Parallel: 2})
	require.NoError(t, err)
	require.Len(t, diffs, 2)
	assert.Equal(t, "1.0", diffs[0].From)
	assert.Equal(t, "1.1", diffs[0].To)
	assert.Equal(t, "1.2", diffs[1].To)
	assert.Equal(t, Added, diffs[1].Changes[inventory.CategoryPython][0].Kind)

	diffs, err = Sequence(context.Background(), []string{"1.0"}, set, Options{})
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestSequenceErrors(t *testing.T) {
	set := NewSnapshotSet(snap(t, "1.0"), snap(t, "1.2"))

	tests := []struct {
		name  string
		order []string
		want  SequenceError
	}{
		{"gap", []string{"1.0", "1.1", "1.2"}, SequenceError{Identifier: "1.1", Index: 1, Reason: ReasonMissing}},
		{"duplicate", []string{"1.0", "1.2", "1.0"}, SequenceError{Identifier: "1.0", Index: 2, Reason: ReasonDuplicate}},
		{"empty", []string{"1.0", ""}, SequenceError{Index: 1, Reason: ReasonEmpty}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diffs, err := Sequence(context.Background(), tt.order, set, Options{})
			assert.Nil(t, diffs)
			var se *SequenceError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.want, *se)
			assert.Contains(t, err.Error(), tt.want.Identifier)
		})
	}
}

func TestSequenceCancelled(t *testing.T) {
	set := NewSnapshotSet(snap(t, "a"), snap(t, "b"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sequence(ctx, []string{"a", "b"}, set, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshots(t *testing.T) {
	a := snap(t, "a", py("x", "1"))
	b := snap(t, "b", py("x", "2"))

	diffs, err := Snapshots(context.Background(), []*inventory.Snapshot{a, b}, Options{})
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	_, err = Snapshots(context.Background(), []*inventory.Snapshot{a, nil}, Options{})
	var se *SequenceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ReasonMissing, se.Reason)

	_, err = Snapshots(context.Background(), []*inventory.Snapshot{a, b, a}, Options{})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ReasonDuplicate, se.Reason)
}
