// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package store persists snapshots as XML documents, one per image, in a
// local directory or an S3 bucket.
package store
