// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/eectl/eectl/internal/cacheutil"
	"github.com/eectl/eectl/internal/catalog"
	"github.com/eectl/eectl/internal/config"
	"github.com/eectl/eectl/internal/meta"
	"github.com/eectl/eectl/internal/output"
)

// tagsCommandAction lists the tags the catalog knows for --repo.
func tagsCommandAction(ctx context.Context, cmd *cli.Command) error {
	fn := func(ctx context.Context, cmd *cli.Command) ([]map[string]interface{}, error) {
		repo := cmd.String("repo")
		if repo == "" {
			return nil, fmt.Errorf("--repo is required")
		}

		p := catalog.NewPyxis(cmd.String("catalog-url"))
		if cacheutil.Enabled() {
			p.CacheTTL = cmd.Duration("cache-ttl")
		}

		tags, err := p.Tags(ctx, cmd.String("registry"), repo)
		if err != nil {
			return nil, err
		}
		log.Debugf("tags: %d for %s", len(tags), repo)

		return output.TagRows(tags), nil
	}

	return NewQueryActionRunner("tags", output.TagColumns, output.DefaultTagAttrs, fn).Run(ctx, cmd)
}

// tagsCommandBuilder constructs the cli.Command for "tags".
func tagsCommandBuilder(meta meta.Meta) *cli.Command {
	ttl, _ := config.GetDuration("cache.ttl", time.Hour)
	return (&QueryCommandBuilder{
		Name:      "tags",
		Usage:     "list the catalog tags of a repository",
		UsageText: "eectl tags --repo <repo> [options]",
		Flags: []cli.Flag{
			NewRegistryFlag("tags"),
			NewRepoFlag("tags"),
			NewCatalogURLFlag(),
			&cli.DurationFlag{
				Name:  "cache-ttl",
				Usage: "reuse cached catalog pages younger than this (0 disables)",
				Value: ttl,
			},
		},
		Action:  tagsCommandAction,
		Meta:    meta,
		NoStore: true,
	}).Build()
}
