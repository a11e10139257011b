// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package acquire drives a container engine (podman, or docker as a
// fallback) to pull an image, read its metadata, capture the raw component
// listings from inside a throwaway container and export the collection
// metadata files for the filesystem scan.
package acquire
