// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes the changes between inventory snapshots, either for
// one pair or for every adjacent pair of an ordered release sequence, and
// renders raw document diffs and the interactive two-tag picker.
package differ
