// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/eectl/eectl/internal/inventory"
	"github.com/eectl/eectl/internal/util"
)

// Ext is the document file extension.
const Ext = ".xml"

// ErrNotFound is returned by Load for an unknown name.
var ErrNotFound = errors.New("snapshot document not found")

// Store persists snapshot documents by name. A name is the file stem of the
// document, see Name.
type Store interface {
	Put(ctx context.Context, name string, doc []byte) (string, error)
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// Name returns the document name for a snapshot: the stem of its reference,
// or its sanitised identifier when it has none.
func Name(s *inventory.Snapshot) string {
	if s.Reference != "" {
		return util.ParseImageRef(s.Reference).Stem()
	}
	return util.SanitizeFilename(s.Identifier)
}

// Save encodes s and stores it under Name(s). It returns the location
// written.
func Save(ctx context.Context, st Store, s *inventory.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return "", err
	}
	return st.Put(ctx, Name(s), buf.Bytes())
}

// Load reads and decodes one document.
func Load(ctx context.Context, st Store, name string) (*inventory.Snapshot, error) {
	name = strings.TrimSuffix(name, Ext)
	data, err := st.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data), name)
}

// LoadAll decodes every stored document concurrently, in List order. Any
// undecodable document fails the whole load.
func LoadAll(ctx context.Context, st Store, parallel int) ([]*inventory.Snapshot, error) {
	names, err := st.List(ctx)
	if err != nil {
		return nil, err
	}
	if parallel <= 0 {
		parallel = 4
	}

	snaps := make([]*inventory.Snapshot, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, name := range names {
		g.Go(func() error {
			s, err := Load(ctx, st, name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			snaps[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snaps, nil
}

// Find loads the stored snapshot whose identifier, name or reference equals
// key.
func Find(ctx context.Context, st Store, key string, parallel int) (*inventory.Snapshot, error) {
	if s, err := Load(ctx, st, util.SanitizeFilename(key)); err == nil {
		return s, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	all, err := LoadAll(ctx, st, parallel)
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if s.Identifier == key || s.Reference == key || Name(s) == key {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
}
