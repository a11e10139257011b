// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/eectl/eectl/internal/log"
)

// options holds optional overrides for AWS config loading and the S3 client.
type options struct {
	profile   string
	region    string
	endpoint  string
	pathStyle bool
}

// Option customizes how the S3 client is built. With no options the shell's
// AWS setup is inherited (AWS_PROFILE, shared config, env, IMDS).
type Option func(*options)

// WithProfile sets the shared config profile.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion overrides the region.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint points the client at an S3 compatible service such as MinIO.
// Such services usually need path style addressing.
func WithEndpoint(endpoint string, pathStyle bool) Option {
	return func(o *options) {
		o.endpoint = endpoint
		o.pathStyle = pathStyle
	}
}

func apply(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LoadConfig loads AWS SDK v2 config honouring the profile and region options.
func LoadConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	o := apply(opts)
	log.Debugf("aws config: profile=%s region=%s", o.profile, o.region)

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	return config.LoadDefaultConfig(ctx, loadOpts...)
}

// s3Options converts the endpoint options into S3 client options.
func s3Options(o options) []func(*s3v2.Options) {
	var fns []func(*s3v2.Options)
	if o.endpoint != "" {
		endpoint := o.endpoint
		fns = append(fns, func(so *s3v2.Options) { so.BaseEndpoint = awsv2.String(endpoint) })
	}
	if o.pathStyle {
		fns = append(fns, func(so *s3v2.Options) { so.UsePathStyle = true })
	}
	return fns
}

// NewS3 loads config and constructs an S3 client.
func NewS3(ctx context.Context, opts ...Option) (*s3v2.Client, error) {
	cfg, err := LoadConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	client := s3v2.NewFromConfig(cfg, s3Options(apply(opts))...)
	log.Debugf("s3 client created")
	return client, nil
}
