// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package selector

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/eectl/eectl/internal/inventory"
	"github.com/eectl/eectl/internal/log"
)

// Ordering names the way snapshots are arranged before diffing.
type Ordering string

const (
	OrderCreated Ordering = "created"
	OrderSemver  Ordering = "semver"
	OrderName    Ordering = "name"
	OrderCatalog Ordering = "catalog"
)

// Orderings lists the accepted ordering names, default first.
var Orderings = []Ordering{OrderCreated, OrderSemver, OrderName, OrderCatalog}

// ParseOrdering maps a flag value onto an Ordering. Empty means created.
func ParseOrdering(s string) (Ordering, error) {
	if s == "" {
		return OrderCreated, nil
	}
	o := Ordering(strings.ToLower(s))
	if slices.Contains(Orderings, o) {
		return o, nil
	}
	return "", fmt.Errorf("unknown ordering: %s", s)
}

// Order returns a copy of snaps sorted oldest first. OrderCatalog follows
// explicit; snapshots not named there trail in created order.
func Order(snaps []*inventory.Snapshot, o Ordering, explicit []string) []*inventory.Snapshot {
	out := slices.Clone(snaps)

	switch o {
	case OrderSemver:
		sort.SliceStable(out, func(i, j int) bool { return semverLess(out[i].Identifier, out[j].Identifier) })
	case OrderName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	case OrderCatalog:
		rank := make(map[string]int, len(explicit))
		for i, id := range explicit {
			if _, ok := rank[id]; !ok {
				rank[id] = i
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			ri, iok := rank[out[i].Identifier]
			rj, jok := rank[out[j].Identifier]
			switch {
			case iok && jok:
				return ri < rj
			case iok != jok:
				return iok
			default:
				return createdLess(out[i], out[j])
			}
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return createdLess(out[i], out[j]) })
	}

	log.Debugf("ordered %d snapshots by %s", len(out), o)
	return out
}

// createdLess orders by image creation time, then identifier. A missing
// creation time sorts first.
func createdLess(a, b *inventory.Snapshot) bool {
	if !a.Image.Created.Equal(b.Image.Created) {
		return a.Image.Created.Before(b.Image.Created)
	}
	return a.Identifier < b.Identifier
}

// semverLess puts parseable identifiers first in version order and the rest
// after them by name.
func semverLess(a, b string) bool {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		if c := va.Compare(vb); c != 0 {
			return c < 0
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// Identifiers returns the identifiers of snaps in their current order.
func Identifiers(snaps []*inventory.Snapshot) []string {
	ids := make([]string, len(snaps))
	for i, s := range snaps {
		ids[i] = s.Identifier
	}
	return ids
}

// Resolve finds the position of spec within ordered, which is oldest first.
// A spec can be:
//
//	LATEST~N  the Nth snapshot back from the newest (LATEST alone is N=0).
//	0, -N     the same relative index, written as a number.
//	tag       an exact identifier.
//	prefix    the newest identifier starting with prefix.
func Resolve(ordered []string, spec string) (int, error) {
	if len(ordered) == 0 {
		return -1, fmt.Errorf("no snapshots to select from")
	}

	upper := strings.ToUpper(spec)
	switch {
	case upper == "LATEST":
		return len(ordered) - 1, nil
	case strings.HasPrefix(upper, "LATEST~"):
		n, err := strconv.Atoi(spec[len("LATEST~"):])
		if err != nil || n < 0 {
			return -1, fmt.Errorf("invalid LATEST spec: %s", spec)
		}
		return relative(ordered, n)
	}

	if i := slices.Index(ordered, spec); i >= 0 {
		return i, nil
	}

	if n, err := strconv.Atoi(spec); err == nil && n <= 0 {
		return relative(ordered, -n)
	}

	for i := len(ordered) - 1; i >= 0; i-- {
		if strings.HasPrefix(ordered[i], spec) {
			return i, nil
		}
	}

	return -1, fmt.Errorf("failed to find snapshot matching: %s", spec)
}

func relative(ordered []string, back int) (int, error) {
	if back > len(ordered)-1 {
		return -1, fmt.Errorf("index %d out of range for %d snapshots", back, len(ordered))
	}
	return len(ordered) - 1 - back, nil
}

// Range returns the slice of ordered between the from and to specs,
// inclusive. An empty from means the oldest and an empty to the newest.
func Range(ordered []string, from, to string) ([]string, error) {
	if len(ordered) == 0 {
		return nil, fmt.Errorf("no snapshots to select from")
	}

	lo, hi := 0, len(ordered)-1
	var err error

	if from != "" {
		if lo, err = Resolve(ordered, from); err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
	}
	if to != "" {
		if hi, err = Resolve(ordered, to); err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
	}
	if lo > hi {
		return nil, fmt.Errorf("from %s comes after to %s", ordered[lo], ordered[hi])
	}

	return slices.Clone(ordered[lo : hi+1]), nil
}
