// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ParseGalaxy parses `ansible-galaxy collection list --format json` output.
//
// The tool groups collections by install path:
//
//	{"/usr/share/ansible/collections/ansible_collections": {"ansible.posix": {"version": "1.5.4"}}}
//
// A flat {fqcn: {version}} object, the same wrapped in a "collections" key and
// a list of {namespace, name, version} objects are accepted too. When an FQCN
// is installed under several paths the first path wins, matching the
// collection search order.
func ParseGalaxy(text string) ([]Record, []LineSkipWarning, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil, nil
	}
	if !gjson.Valid(trimmed) {
		return nil, nil, errors.New("malformed JSON collection list")
	}

	doc := gjson.Parse(trimmed)
	if doc.IsObject() {
		if wrapped := doc.Get("collections"); wrapped.Exists() && (wrapped.IsObject() || wrapped.IsArray()) {
			doc = wrapped
		}
	}

	g := galaxyParser{w: warnings{category: CategoryCollection, source: SourceGalaxy}, seen: map[string]bool{}}
	switch {
	case doc.IsArray():
		g.list(doc)
	case doc.IsObject():
		g.object(doc)
	default:
		return nil, nil, fmt.Errorf("top level is %s, want an object or a list", jsonKind(doc))
	}
	return g.records, g.w.list, nil
}

type galaxyParser struct {
	w       warnings
	seen    map[string]bool
	records []Record
	entry   int
}

func (g *galaxyParser) list(doc gjson.Result) {
	doc.ForEach(func(_, item gjson.Result) bool {
		g.entry++
		if !item.IsObject() {
			g.w.add(g.entry, item.Raw, "entry is not an object")
			return true
		}
		ns := strings.TrimSpace(item.Get("namespace").String())
		name := strings.TrimSpace(item.Get("name").String())
		fqcn := name
		if ns != "" {
			fqcn = ns + "." + name
		}
		g.add(fqcn, item.Get("version"), item.Raw)
		return true
	})
}

func (g *galaxyParser) object(doc gjson.Result) {
	doc.ForEach(func(key, value gjson.Result) bool {
		switch {
		case isGalaxyPath(key.String(), value):
			value.ForEach(func(fqcn, info gjson.Result) bool {
				g.entry++
				g.add(fqcn.String(), galaxyVersion(info), info.Raw)
				return true
			})
		default:
			g.entry++
			g.add(key.String(), galaxyVersion(value), value.Raw)
		}
		return true
	})
}

// isGalaxyPath reports whether an object member groups collections by install
// path rather than describing one collection.
func isGalaxyPath(key string, value gjson.Result) bool {
	if !value.IsObject() || value.Get("version").Exists() {
		return false
	}
	if strings.HasPrefix(key, "/") || strings.HasPrefix(key, "~") {
		return true
	}
	grouped := false
	value.ForEach(func(_, v gjson.Result) bool {
		grouped = v.IsObject()
		return !grouped
	})
	return grouped
}

// galaxyVersion accepts {"version": "1.0.0"} as well as a bare "1.0.0".
func galaxyVersion(info gjson.Result) gjson.Result {
	if info.IsObject() {
		return info.Get("version")
	}
	return info
}

func (g *galaxyParser) add(fqcn string, version gjson.Result, raw string) {
	fqcn = strings.TrimSpace(fqcn)
	v := strings.TrimSpace(version.String())
	if version.IsObject() || version.IsArray() {
		v = ""
	}
	switch {
	case fqcn == "" || !strings.Contains(fqcn, "."):
		g.w.add(g.entry, raw, fmt.Sprintf("%q is not a namespace.name", fqcn))
		return
	case v == "" || v == "*":
		g.w.add(g.entry, raw, "missing version for "+fqcn)
		return
	}

	r := Record{Name: fqcn, Version: v, Category: CategoryCollection, Provenance: ProvenanceGalaxy}
	if g.seen[r.Key()] {
		return
	}
	g.seen[r.Key()] = true
	g.records = append(g.records, r)
}
