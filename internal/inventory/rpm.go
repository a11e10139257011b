// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// RPMQueryFormat is the rpm query format whose output ParseRPM understands.
const RPMQueryFormat = `%{NAME}|%{EPOCHNUM}|%{VERSION}|%{RELEASE}|%{ARCH}\n`

// DefaultRPMCollectionPattern matches packages such as
// "ansible-collection-redhat-rhel_mgmt" and extracts "redhat" and "rhel_mgmt".
const DefaultRPMCollectionPattern = `^ansible-collection-(?P<namespace>[^-]+)-(?P<name>.+)$`

// ParseRPM parses rpm query output, one package per line in RPMQueryFormat. A
// four field NAME|VERSION|RELEASE|ARCH form is accepted as well. Malformed lines
// are skipped with a warning; output holding no package line at all is an
// error. When a name.arch pair repeats (gpg-pubkey, install-only packages) the
// highest EVR is kept.
func ParseRPM(text string) ([]Record, []LineSkipWarning, error) {
	w := warnings{category: CategoryRPM, source: SourceRPM}
	index := map[string]int{}
	var records []Record
	seenDelimited := false
	nonBlank := 0

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		nonBlank++
		if !strings.Contains(line, "|") {
			w.add(lineNo, line, "not a package line")
			continue
		}
		seenDelimited = true

		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		var name, epoch, version, release, arch string
		switch len(parts) {
		case 5:
			name, epoch, version, release, arch = parts[0], parts[1], parts[2], parts[3], parts[4]
		case 4:
			name, version, release, arch = parts[0], parts[1], parts[2], parts[3]
		default:
			w.add(lineNo, line, fmt.Sprintf("expected 5 fields, got %d", len(parts)))
			continue
		}

		if name == "" || version == "" {
			w.add(lineNo, line, "missing name or version")
			continue
		}
		epoch = NormalizeEpoch(epoch)
		if arch == "(none)" {
			arch = ""
		}

		r := Record{
			Name:     name,
			Version:  EVR(epoch, version, release),
			Category: CategoryRPM,
			Epoch:    epoch,
			Release:  release,
			Arch:     arch,
		}

		key := r.Key()
		if i, dup := index[key]; dup {
			kept := records[i]
			if cmp, ok := CompareVersions(CategoryRPM, r.Version, kept.Version); ok && cmp > 0 {
				records[i] = r
				kept = r
			}
			w.add(lineNo, line, "duplicate package, kept "+kept.Version)
			continue
		}
		index[key] = len(records)
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, w.list, err
	}

	if nonBlank > 0 && !seenDelimited {
		return nil, w.list, errors.New("no package lines found")
	}

	return records, w.list, nil
}

// CollectionPattern extracts the embedded collection FQCN from RPM package
// names.
type CollectionPattern struct {
	re *regexp.Regexp
}

// NewCollectionPattern compiles a pattern. It must define the named groups
// "namespace" and "name".
func NewCollectionPattern(expr string) (*CollectionPattern, error) {
	if expr == "" {
		expr = DefaultRPMCollectionPattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid rpm collection pattern: %w", err)
	}
	if re.SubexpIndex("namespace") < 0 || re.SubexpIndex("name") < 0 {
		return nil, fmt.Errorf("rpm collection pattern %q needs (?P<namespace>) and (?P<name>) groups", expr)
	}
	return &CollectionPattern{re: re}, nil
}

// MustCollectionPattern is NewCollectionPattern that panics on error.
func MustCollectionPattern(expr string) *CollectionPattern {
	p, err := NewCollectionPattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// FQCN returns "namespace.name" for a matching package name.
func (p *CollectionPattern) FQCN(pkg string) (string, bool) {
	m := p.re.FindStringSubmatch(pkg)
	if m == nil {
		return "", false
	}
	ns := m[p.re.SubexpIndex("namespace")]
	name := m[p.re.SubexpIndex("name")]
	if ns == "" || name == "" {
		return "", false
	}
	return ns + "." + name, true
}

func (p *CollectionPattern) String() string { return p.re.String() }

// RPMCollections derives collection records from RPM records whose name
// matches the pattern. The collection version is the RPM version without epoch
// or release.
func RPMCollections(rpms []Record, p *CollectionPattern) []Record {
	var out []Record
	for _, r := range rpms {
		fqcn, ok := p.FQCN(r.Name)
		if !ok {
			continue
		}
		out = append(out, Record{
			Name:       fqcn,
			Version:    r.UpstreamVersion(),
			Category:   CategoryCollection,
			Provenance: ProvenanceRPM,
		})
	}
	return out
}

// NormalizeEpoch maps the "no epoch" spellings rpm emits ("", "0", "(none)")
// to the empty string, so documents written by either query agree.
func NormalizeEpoch(epoch string) string {
	epoch = strings.TrimSpace(epoch)
	if epoch == "(none)" || epoch == "0" {
		return ""
	}
	return epoch
}
