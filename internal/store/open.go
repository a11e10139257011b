// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"strings"

	awsx "github.com/eectl/eectl/internal/aws"
)

// Location is a parsed store location.
type Location struct {
	Bucket string
	Prefix string
	Dir    string
}

// IsS3 reports whether the location names a bucket.
func (l Location) IsS3() bool { return l.Bucket != "" }

// ParseLocation accepts "s3://bucket[/prefix]" or a directory path.
func ParseLocation(loc string) (Location, error) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return Location{}, fmt.Errorf("empty store location")
	}
	rest, ok := strings.CutPrefix(loc, "s3://")
	if !ok {
		return Location{Dir: loc}, nil
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("no bucket in %q", loc)
	}
	return Location{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

// Open returns the store for loc. S3 clients are built from the shell's AWS
// configuration plus opts.
func Open(ctx context.Context, loc string, opts ...awsx.Option) (Store, error) {
	l, err := ParseLocation(loc)
	if err != nil {
		return nil, err
	}
	if !l.IsS3() {
		return NewLocal(l.Dir), nil
	}
	client, err := awsx.NewS3(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure S3: %w", err)
	}
	return NewS3(client, l.Bucket, l.Prefix), nil
}
