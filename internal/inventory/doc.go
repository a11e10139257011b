// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package inventory turns the raw package listings captured from an image into
// one canonical, de-duplicated Snapshot. RPM, Python and Ansible collection
// listings are parsed independently; collections found by several sources are
// reconciled by a fixed source precedence (galaxy > filesystem > rpm).
//
// Everything in this package is pure: listings come in as text and the
// collection scan reads from an fs.FS, so builds for different images can run
// concurrently as long as each uses its own inputs.
package inventory
