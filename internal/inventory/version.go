// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
	rpmversion "github.com/knqyf263/go-rpm-version"
)

// Version is a best-effort parsed version string. Compare reports false when
// the two versions have no common ordering; callers must then treat them as
// merely different.
type Version interface {
	String() string
	Compare(other Version) (int, bool)
}

// OpaqueVersion supports equality only.
type OpaqueVersion string

func (v OpaqueVersion) String() string { return string(v) }

// Compare returns (0, true) for identical strings and (0, false) otherwise.
func (v OpaqueVersion) Compare(other Version) (int, bool) {
	if other != nil && other.String() == string(v) {
		return 0, true
	}
	return 0, false
}

// StructuredVersion is a dotted numeric version with optional pre-release and
// metadata parts, as used by Python packages and Ansible collections.
type StructuredVersion struct {
	raw string
	v   *goversion.Version
}

func (v StructuredVersion) String() string { return v.raw }

func (v StructuredVersion) Compare(other Version) (int, bool) {
	o, ok := other.(StructuredVersion)
	if !ok {
		return 0, false
	}
	return v.v.Compare(o.v), true
}

// RPMVersion orders "[epoch:]version-release" strings with rpmvercmp rules.
type RPMVersion struct {
	raw string
	v   rpmversion.Version
}

func (v RPMVersion) String() string { return v.raw }

func (v RPMVersion) Compare(other Version) (int, bool) {
	o, ok := other.(RPMVersion)
	if !ok {
		return 0, false
	}
	return v.v.Compare(o.v), true
}

// ParseVersion picks the ordering scheme for a version of the given category.
// It never fails: anything it cannot place in an order is an OpaqueVersion.
func ParseVersion(c Category, s string) Version {
	s = strings.TrimSpace(s)
	if s == "" {
		return OpaqueVersion(s)
	}

	if c == CategoryRPM {
		if !strings.ContainsAny(s, "0123456789") {
			return OpaqueVersion(s)
		}
		return RPMVersion{raw: s, v: rpmversion.NewVersion(s)}
	}

	v, err := goversion.NewVersion(s)
	if err != nil {
		return OpaqueVersion(s)
	}
	return StructuredVersion{raw: s, v: v}
}

// CompareVersions parses both strings and compares them when they share an
// ordering scheme.
func CompareVersions(c Category, a, b string) (int, bool) {
	return ParseVersion(c, a).Compare(ParseVersion(c, b))
}

// VersionPolicy decides when two version strings count as the same version.
// Strict (the zero value) compares the strings byte for byte. Lenient treats
// versions that compare equal under their ordering scheme as identical, which
// hides "0:1.2-3" vs "1.2-3" or "1.0" vs "1.0.0" noise.
type VersionPolicy struct {
	Lenient bool `yaml:"lenient" json:"lenient"`
}

// Equal reports whether a and b denote the same version under the policy.
func (p VersionPolicy) Equal(c Category, a, b string) bool {
	if a == b {
		return true
	}
	if !p.Lenient {
		return false
	}
	cmp, ok := CompareVersions(c, a, b)
	return ok && cmp == 0
}
