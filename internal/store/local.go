// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Local keeps documents as <name>.xml files in one directory.
type Local struct {
	Dir string
}

// NewLocal returns a store rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{Dir: dir}
}

func (l *Local) path(name string) string {
	return filepath.Join(l.Dir, name+Ext)
}

// Put writes the document atomically via a temp file and rename.
func (l *Local) Put(_ context.Context, name string, doc []byte) (string, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", l.Dir, err)
	}
	tmp, err := os.CreateTemp(l.Dir, "."+name+"-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	p := l.path(name)
	if err := os.Rename(tmp.Name(), p); err != nil {
		return "", err
	}
	return p, nil
}

// Get reads one document.
func (l *Local) Get(_ context.Context, name string) ([]byte, error) {
	b, err := os.ReadFile(l.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, l.path(name))
	}
	return b, err
}

// List returns the document names in lexical order.
func (l *Local) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.Dir, err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || !strings.HasSuffix(n, Ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(n, Ext))
	}
	sort.Strings(names)
	return names, nil
}
