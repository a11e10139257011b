// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// DefaultScanRoots are the collection directories of a stock execution
// environment, in search order. Paths are relative to the image root.
var DefaultScanRoots = []string{
	"usr/share/ansible/collections/ansible_collections",
	"usr/local/lib/python3.11/site-packages/ansible_collections",
	"usr/lib/python3.11/site-packages/ansible_collections",
	"usr/local/lib/python3.9/site-packages/ansible_collections",
	"usr/lib/python3.9/site-packages/ansible_collections",
}

// Collection metadata file names.
const (
	ManifestFile = "MANIFEST.json"
	GalaxyFile   = "galaxy.yml"
)

// ScanCollections walks <root>/<namespace>/<name>/ directories below each root
// and reads the collection version from MANIFEST.json, falling back to
// galaxy.yml. Roots that do not exist are skipped. The first root holding a
// collection wins.
func ScanCollections(fsys fs.FS, roots []string) ([]Record, []LineSkipWarning, error) {
	if fsys == nil {
		return nil, nil, errors.New("no filesystem to scan")
	}

	w := warnings{category: CategoryCollection, source: SourceFilesystem}
	seen := map[string]bool{}
	var records []Record

	for _, root := range roots {
		root = cleanRoot(root)
		namespaces, err := fs.ReadDir(fsys, root)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			w.add(0, root, err.Error())
			continue
		}

		for _, ns := range namespaces {
			if !ns.IsDir() || strings.Contains(ns.Name(), ".") {
				continue
			}
			nsDir := path.Join(root, ns.Name())
			names, err := fs.ReadDir(fsys, nsDir)
			if err != nil {
				w.add(0, nsDir, err.Error())
				continue
			}
			for _, n := range names {
				if !n.IsDir() {
					continue
				}
				dir := path.Join(nsDir, n.Name())
				version, found, err := collectionVersion(fsys, dir)
				switch {
				case err != nil:
					w.add(0, dir, err.Error())
					continue
				case !found:
					continue
				}

				r := Record{
					Name:       ns.Name() + "." + n.Name(),
					Version:    version,
					Category:   CategoryCollection,
					Provenance: ProvenanceFilesystem,
				}
				if seen[r.Key()] {
					continue
				}
				seen[r.Key()] = true
				records = append(records, r)
			}
		}
	}

	return records, w.list, nil
}

func cleanRoot(root string) string {
	root = strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(root)), "/")
	if root == "" {
		return "."
	}
	return root
}

// collectionVersion reads the version of the collection in dir. found is
// false when dir holds neither metadata file.
func collectionVersion(fsys fs.FS, dir string) (version string, found bool, err error) {
	data, err := fs.ReadFile(fsys, path.Join(dir, ManifestFile))
	switch {
	case err == nil:
		if !gjson.ValidBytes(data) {
			return "", true, fmt.Errorf("%s: malformed JSON", ManifestFile)
		}
		v := strings.TrimSpace(gjson.GetBytes(data, "collection_info.version").String())
		if v == "" {
			return "", true, fmt.Errorf("%s: no collection_info.version", ManifestFile)
		}
		return v, true, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", true, err
	}

	data, err = fs.ReadFile(fsys, path.Join(dir, GalaxyFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", false, nil
	case err != nil:
		return "", true, err
	}

	var meta struct {
		Version string `yaml:"version"`
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return "", true, fmt.Errorf("%s: %w", GalaxyFile, err)
	}
	if strings.TrimSpace(meta.Version) == "" {
		return "", true, fmt.Errorf("%s: no version", GalaxyFile)
	}
	return strings.TrimSpace(meta.Version), true, nil
}
