// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/eectl/eectl/internal/meta"
	"github.com/eectl/eectl/internal/output"
	"github.com/eectl/eectl/internal/store"
)

// invCommandAction lists the stored snapshots, or the records of one snapshot
// when a tag is given. --diagnostics switches to the skipped listing lines.
func invCommandAction(ctx context.Context, cmd *cli.Command) error {
	key := cmd.Args().First()
	diagnostics := cmd.Bool("diagnostics")

	columns, defaults := output.RecordColumns, output.DefaultRecordAttrs
	switch {
	case diagnostics:
		columns, defaults = output.DiagnosticColumns, output.DefaultDiagnosticAttrs
	case key == "":
		columns, defaults = output.SnapshotColumns, output.DefaultSnapshotAttrs
	}

	fn := func(ctx context.Context, cmd *cli.Command) ([]map[string]interface{}, error) {
		st, err := openStore(ctx, cmd)
		if err != nil {
			return nil, err
		}

		if key == "" {
			snaps, err := loadOrdered(ctx, cmd, st)
			if err != nil {
				return nil, err
			}
			if diagnostics {
				return output.DiagnosticRows(snaps...), nil
			}
			return output.SnapshotRows(snaps), nil
		}

		s, err := store.Find(ctx, st, key, cmd.Int("parallel"))
		if err != nil {
			return nil, err
		}
		log.Debugf("inv: %s", s)

		if diagnostics {
			return output.DiagnosticRows(s), nil
		}
		cats, err := parseCategories(cmd.String("category"))
		if err != nil {
			return nil, err
		}
		return output.RecordRows(s, cats...), nil
	}

	return NewQueryActionRunner("inv", columns, defaults, fn).Run(ctx, cmd)
}

// invCommandBuilder constructs the cli.Command for "inv".
func invCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "inv",
		Usage:     "query stored inventories",
		UsageText: "eectl inv [tag] [options]",
		Flags: []cli.Flag{
			categoryFlag,
			&cli.BoolFlag{
				Name:  "diagnostics",
				Usage: "show the listing lines skipped while building",
			},
			NewOrderFlag("inv"),
			NewParallelFlag("inv"),
		},
		Action: invCommandAction,
		Meta:   meta,
	}).Build()
}
