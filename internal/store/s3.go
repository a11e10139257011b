// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/eectl/eectl/internal/log"
)

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3v2.ListObjectsV2Input, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error)
}

// S3 keeps documents as <prefix>/<name>.xml objects.
type S3 struct {
	Client S3API
	Bucket string
	Prefix string
}

// NewS3 returns a store for bucket and key prefix.
func NewS3(client S3API, bucket, prefix string) *S3 {
	return &S3{Client: client, Bucket: bucket, Prefix: strings.Trim(prefix, "/")}
}

func (s *S3) key(name string) string {
	if s.Prefix == "" {
		return name + Ext
	}
	return path.Join(s.Prefix, name+Ext)
}

// Put uploads one document.
func (s *S3) Put(ctx context.Context, name string, doc []byte) (string, error) {
	key := s.key(name)
	_, err := s.Client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(s.Bucket),
		Key:         awsv2.String(key),
		Body:        bytes.NewReader(doc),
		ContentType: awsv2.String("application/xml"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", s.Bucket, key, err)
	}
	return "s3://" + s.Bucket + "/" + key, nil
}

// Get downloads one document.
func (s *S3) Get(ctx context.Context, name string) ([]byte, error) {
	key := s.key(name)
	out, err := s.Client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.Bucket, key)
		}
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", s.Bucket, key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// List returns the document names below the prefix in lexical order. Nested
// keys are ignored.
func (s *S3) List(ctx context.Context) ([]string, error) {
	prefix := ""
	if s.Prefix != "" {
		prefix = s.Prefix + "/"
	}

	var names []string
	p := s3v2.NewListObjectsV2Paginator(s.Client, &s3v2.ListObjectsV2Input{
		Bucket: awsv2.String(s.Bucket),
		Prefix: awsv2.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list s3://%s/%s: %w", s.Bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			rel := strings.TrimPrefix(awsv2.ToString(obj.Key), prefix)
			if strings.Contains(rel, "/") || !strings.HasSuffix(rel, Ext) {
				continue
			}
			names = append(names, strings.TrimSuffix(rel, Ext))
		}
	}
	log.Debugf("s3://%s/%s: %d documents", s.Bucket, prefix, len(names))
	sort.Strings(names)
	return names, nil
}
