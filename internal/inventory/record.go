// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"regexp"
	"strings"
)

// Category identifies the kind of installed component.
type Category string

const (
	CategoryRPM        Category = "rpm"
	CategoryPython     Category = "python"
	CategoryCollection Category = "collection"
)

// Categories lists every Category in report order.
var Categories = []Category{CategoryRPM, CategoryPython, CategoryCollection}

// Title returns the human readable label used in reports.
func (c Category) Title() string {
	switch c {
	case CategoryRPM:
		return "RPMs"
	case CategoryPython:
		return "Python Packages"
	case CategoryCollection:
		return "Ansible Collections"
	}
	return string(c)
}

// ParseCategory maps a user supplied string onto a Category. Plural and short
// forms are accepted.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rpm", "rpms":
		return CategoryRPM, true
	case "python", "pip", "py":
		return CategoryPython, true
	case "collection", "collections", "coll":
		return CategoryCollection, true
	}
	return "", false
}

// Provenance records which source supplied the winning collection record.
type Provenance string

const (
	ProvenanceNone       Provenance = ""
	ProvenanceGalaxy     Provenance = "galaxy"
	ProvenanceFilesystem Provenance = "filesystem"
	ProvenanceRPM        Provenance = "rpm"
)

// Record is one installed component. RPM records also carry their EVR parts;
// Version then holds the assembled "[epoch:]version-release" string.
type Record struct {
	Name       string     `json:"name" yaml:"name"`
	Version    string     `json:"version" yaml:"version"`
	Category   Category   `json:"category" yaml:"category"`
	Provenance Provenance `json:"provenance,omitempty" yaml:"provenance,omitempty"`

	Epoch   string `json:"epoch,omitempty" yaml:"epoch,omitempty"`
	Release string `json:"release,omitempty" yaml:"release,omitempty"`
	Arch    string `json:"arch,omitempty" yaml:"arch,omitempty"`
}

// pep503 collapses separator runs in Python distribution names.
var pep503 = regexp.MustCompile(`[-_.]+`)

// Key returns the identity of the record within its category. RPMs are keyed by
// name and arch so multilib installs stay distinct, Python names are PEP 503
// normalised and collection FQCNs are lower-cased.
func (r Record) Key() string {
	switch r.Category {
	case CategoryRPM:
		if r.Arch == "" {
			return r.Name
		}
		return r.Name + "." + r.Arch
	case CategoryPython:
		return NormalizePythonName(r.Name)
	case CategoryCollection:
		return strings.ToLower(r.Name)
	}
	return r.Name
}

// NormalizePythonName applies the PEP 503 name normalisation.
func NormalizePythonName(name string) string {
	return pep503.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// EVR assembles an RPM epoch, version and release into the conventional
// "[epoch:]version-release" form. An empty release yields just the version.
func EVR(epoch, version, release string) string {
	evr := version
	if release != "" {
		evr += "-" + release
	}
	if epoch != "" {
		evr = epoch + ":" + evr
	}
	return evr
}

// UpstreamVersion strips epoch and release back off an RPM record's Version.
// Other records return Version unchanged.
func (r Record) UpstreamVersion() string {
	v := r.Version
	if r.Epoch != "" {
		v = strings.TrimPrefix(v, r.Epoch+":")
	}
	if r.Release != "" {
		v = strings.TrimSuffix(v, "-"+r.Release)
	}
	return v
}
