// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxMetadataFile bounds a single extracted metadata file.
const maxMetadataFile = 4 << 20

// Extract unpacks the regular files of a tar stream below dir. Entries that
// would land outside dir, links and devices are skipped. An empty stream is
// not an error.
func Extract(r io.Reader, dir string) (int, error) {
	tr := tar.NewReader(r)
	n := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("failed to read metadata archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name := path.Clean("/" + hdr.Name)
		if strings.Contains(hdr.Name, "..") || name == "/" {
			continue
		}
		if hdr.Size > maxMetadataFile {
			return n, fmt.Errorf("%s: %d bytes exceeds the metadata size limit", hdr.Name, hdr.Size)
		}

		target := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(name, "/")))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return n, err
		}
		f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return n, err
		}
		_, err = io.Copy(f, io.LimitReader(tr, maxMetadataFile))
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return n, fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
		}
		n++
	}
}
