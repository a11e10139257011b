// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/eectl/eectl/internal/attrs"
	awsx "github.com/eectl/eectl/internal/aws"
	"github.com/eectl/eectl/internal/differ"
	"github.com/eectl/eectl/internal/inventory"
	"github.com/eectl/eectl/internal/meta"
	"github.com/eectl/eectl/internal/output"
	"github.com/eectl/eectl/internal/selector"
	"github.com/eectl/eectl/internal/store"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList, err error) {
	for _, d := range defaults {
		if err := al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return nil, fmt.Errorf("--attrs: %w", err)
		}
	}
	al.SetGlobalTransformSpec()
	return al, nil
}

// DumpSchemaIfRequested writes the row keys to stdout when --schema is set,
// and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, columns []output.Column) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(columns, cmd.Root().Writer)
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// openStore opens the --out location, honouring the AWS flags for S3.
func openStore(ctx context.Context, cmd *cli.Command) (store.Store, error) {
	var opts []awsx.Option
	if p := cmd.String("aws-profile"); p != "" {
		opts = append(opts, awsx.WithProfile(p))
	}
	if r := cmd.String("aws-region"); r != "" {
		opts = append(opts, awsx.WithRegion(r))
	}
	if e := cmd.String("s3-endpoint"); e != "" {
		opts = append(opts, awsx.WithEndpoint(e, true))
	}

	st, err := store.Open(ctx, cmd.String("out"), opts...)
	if err != nil {
		return nil, err
	}
	log.Debugf("store: %s", cmd.String("out"))
	return st, nil
}

// awsFlags configure the S3 store.
func awsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "aws-profile",
			Usage:   "AWS shared config profile for an s3:// store",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AWS_PROFILE")),
		},
		&cli.StringFlag{
			Name:    "aws-region",
			Usage:   "AWS region for an s3:// store",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AWS_REGION")),
		},
		&cli.StringFlag{
			Name:    "s3-endpoint",
			Usage:   "S3 compatible endpoint URL (path style)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("EECTL_S3_ENDPOINT")),
		},
	}
}

// diffOptions collects the differ options from the flags.
func diffOptions(cmd *cli.Command) differ.Options {
	return differ.Options{
		VersionPolicy: inventory.VersionPolicy{Lenient: cmd.Bool("lenient")},
		Parallel:      cmd.Int("parallel"),
	}
}

// loadOrdered reads every stored snapshot and orders it per --order. The
// catalog ordering follows --tags when given.
func loadOrdered(ctx context.Context, cmd *cli.Command, st store.Store) ([]*inventory.Snapshot, error) {
	snaps, err := store.LoadAll(ctx, st, cmd.Int("parallel"))
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("no inventory documents in %s", cmd.String("out"))
	}

	ordering, err := selector.ParseOrdering(cmd.String("order"))
	if err != nil {
		return nil, err
	}

	var explicit []string
	if cmd.IsSet("tags") {
		explicit = cmd.StringSlice("tags")
	}
	return selector.Order(snaps, ordering, explicit), nil
}
