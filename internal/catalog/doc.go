// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package catalog enumerates image tags from the Red Hat container catalog
// (Pyxis) and turns tag lists, tag files and explicit references into the
// ordered, de-duplicated set of image references to collect.
package catalog
