// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output flattens inventory records and diff entries into rows and
// renders them as text tables, JSON or YAML after filtering and sorting.
package output
