// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/eectl/eectl/internal/differ"
	"github.com/eectl/eectl/internal/inventory"
	"github.com/eectl/eectl/internal/meta"
	"github.com/eectl/eectl/internal/output"
	"github.com/eectl/eectl/internal/selector"
)

// defaultRawIgnore are the snapshot document keys left out of --raw diffs so
// only the records are compared.
var defaultRawIgnore = []string{"identifier", "reference", "image", "diagnostics"}

// diffCommandAction diffs two stored snapshots. The snapshots are picked by
// spec (default LATEST~1 and LATEST) or interactively with --select.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	if DumpSchemaIfRequested(cmd, output.ChangeColumns) {
		return nil
	}

	st, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	snaps, err := loadOrdered(ctx, cmd, st)
	if err != nil {
		return err
	}

	from, to, err := pickPair(cmd, snaps)
	if errors.Is(err, differ.ErrSelectionAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	log.Debugf("diff %s -> %s", from.Identifier, to.Identifier)

	if cmd.Bool("raw") {
		return rawDiff(cmd, from, to)
	}

	d := differ.Pair(from, to, diffOptions(cmd))
	fn := func(_ context.Context, cmd *cli.Command) ([]map[string]interface{}, error) {
		cats, err := parseCategories(cmd.String("category"))
		if err != nil {
			return nil, err
		}
		return output.ChangeRows(d, cats...), nil
	}

	cmd.Metadata["footer"] = footer(d)
	return NewQueryActionRunner("diff", output.ChangeColumns, output.DefaultChangeAttrs, fn).Run(ctx, cmd)
}

// pickPair resolves the two snapshots to compare.
func pickPair(cmd *cli.Command, snaps []*inventory.Snapshot) (from, to *inventory.Snapshot, err error) {
	ids := selector.Identifiers(snaps)

	if cmd.Bool("select") {
		choices := make([]differ.Choice, len(snaps))
		for i, s := range snaps {
			label := s.Identifier
			if !s.Image.Created.IsZero() {
				label = fmt.Sprintf("%s (%s)", s.Identifier, humanize.Time(s.Image.Created))
			}
			choices[i] = differ.Choice{ID: s.Identifier, Label: label}
		}
		picked, err := differ.SelectTags(choices)
		if err != nil {
			return nil, nil, err
		}
		return byID(snaps, picked[0].ID), byID(snaps, picked[1].ID), nil
	}

	fromSpec, toSpec := "LATEST~1", "LATEST"
	if args := cmd.Args().Slice(); len(args) > 0 {
		fromSpec = args[0]
		if len(args) > 1 {
			toSpec = args[1]
		}
	}

	fi, err := selector.Resolve(ids, fromSpec)
	if err != nil {
		return nil, nil, err
	}
	ti, err := selector.Resolve(ids, toSpec)
	if err != nil {
		return nil, nil, err
	}
	return snaps[fi], snaps[ti], nil
}

func byID(snaps []*inventory.Snapshot, id string) *inventory.Snapshot {
	for _, s := range snaps {
		if s.Identifier == id {
			return s
		}
	}
	return nil
}

// rawDiff prints a structural diff of the two snapshot documents.
func rawDiff(cmd *cli.Command, from, to *inventory.Snapshot) error {
	left, err := json.Marshal(from)
	if err != nil {
		return err
	}
	right, err := json.Marshal(to)
	if err != nil {
		return err
	}

	ignore := defaultRawIgnore
	if cmd.IsSet("raw-ignore") {
		ignore = cmd.StringSlice("raw-ignore")
	}
	_, err = differ.Raw(cmd.Root().Writer, left, right, ignore, cmd.Bool("color"))
	return err
}

// footer summarises a diff per category for text output.
func footer(d differ.SnapshotDiff) string {
	s := fmt.Sprintf("%s → %s:", d.From, d.To)
	for _, c := range inventory.Categories {
		n := d.Counts(c)
		s += fmt.Sprintf("  %s +%d ↑%d ↓%d −%d", c, n.Added, n.Upgraded, n.Downgraded, n.Removed)
		if n.Changed > 0 {
			s += fmt.Sprintf(" ~%d", n.Changed)
		}
	}
	return s
}

// diffCommandBuilder constructs the cli.Command for "diff".
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "diff",
		Usage:     "diff two stored inventories",
		UsageText: "eectl diff [from] [to] [options]",
		Flags: []cli.Flag{
			categoryFlag,
			NewLenientFlag("diff"),
			NewOrderFlag("diff"),
			NewParallelFlag("diff"),
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "show a structural diff of the two documents",
			},
			&cli.StringSliceFlag{
				Name:  "raw-ignore",
				Usage: "document keys left out of --raw",
				Value: defaultRawIgnore,
			},
			&cli.BoolFlag{
				Name:  "select",
				Usage: "pick the two inventories interactively",
			},
		},
		Action: diffCommandAction,
		Meta:   meta,
	}).Build()
}
