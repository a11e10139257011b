// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package report renders the diffs of an ordered snapshot sequence.
//
// The HTML form is a matrix with one row per category and one column per
// image. The first column is the baseline and stays empty; every other cell
// summarises the changes from the image to its left as counts
// (+added / ↑upgraded / ↓downgraded / −removed), a short sample and a
// collapsible full list. Text, JSON and YAML renderings carry the same data.
package report
