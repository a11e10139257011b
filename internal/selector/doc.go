// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package selector orders stored snapshots and resolves user supplied specs
// (LATEST~N, exact tag, tag prefix, relative index) against that order. The
// result is the ordered identifier list handed to the sequence differ.
package selector
