// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"regexp"
	"strings"
)

// ImageRef is a parsed image reference.
type ImageRef struct {
	// Name is everything before the tag or digest, registry included.
	Name   string
	Tag    string
	Digest string
}

// ParseImageRef splits ref into name, tag and digest. A colon only counts as
// a tag separator in the last path segment, so registry ports survive.
func ParseImageRef(ref string) ImageRef {
	ref = strings.TrimSpace(ref)
	if name, digest, ok := strings.Cut(ref, "@"); ok {
		return ImageRef{Name: name, Digest: digest}
	}
	slash := strings.LastIndex(ref, "/")
	last := ref[slash+1:]
	if base, tag, ok := strings.Cut(last, ":"); ok {
		return ImageRef{Name: ref[:slash+1] + base, Tag: tag}
	}
	return ImageRef{Name: ref}
}

// Base returns the last path segment of the name.
func (r ImageRef) Base() string {
	return r.Name[strings.LastIndex(r.Name, "/")+1:]
}

// Identifier is the snapshot identifier for the reference: the tag, else the
// digest, else the whole reference.
func (r ImageRef) Identifier() string {
	switch {
	case r.Tag != "":
		return r.Tag
	case r.Digest != "":
		return r.Digest
	}
	return r.Name
}

// Stem is the file stem for the reference: base__tag, base__digest or the
// sanitised reference.
func (r ImageRef) Stem() string {
	switch {
	case r.Tag != "":
		return SanitizeFilename(r.Base() + "__" + r.Tag)
	case r.Digest != "":
		return SanitizeFilename(r.Base() + "__" + r.Digest)
	}
	return SanitizeFilename(r.Name)
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename replaces every run of characters outside [A-Za-z0-9._-]
// with an underscore.
func SanitizeFilename(s string) string {
	return unsafeFilename.ReplaceAllString(s, "_")
}
