// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/eectl/eectl/internal/config"
	"github.com/eectl/eectl/internal/differ"
	"github.com/eectl/eectl/internal/inventory"
	"github.com/eectl/eectl/internal/meta"
	"github.com/eectl/eectl/internal/report"
	"github.com/eectl/eectl/internal/selector"
)

// DefaultReportFile is where an html report lands without --html-out.
const DefaultReportFile = "./ee_diff_report.html"

// reportCommandAction renders the diff matrix of an ordered snapshot
// sequence. --tags pins the sequence exactly; otherwise --from and --to cut
// a range out of the --order ordering.
func reportCommandAction(ctx context.Context, cmd *cli.Command) error {
	st, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}

	all, err := loadOrdered(ctx, cmd, st)
	if err != nil {
		return err
	}

	seq, diffs, err := sequence(ctx, cmd, all)
	if err != nil {
		return err
	}

	r, err := report.New(seq, diffs)
	if err != nil {
		return err
	}
	if title := cmd.String("title"); title != "" {
		r.Title = title
	}
	for c, n := range r.Totals() {
		log.Debugf("report %s: +%d ↑%d ↓%d −%d ~%d", c, n.Added, n.Upgraded, n.Downgraded, n.Removed, n.Changed)
	}

	format := cmd.String("format")
	w, closeFn, err := reportWriter(cmd, format)
	if err != nil {
		return err
	}
	if err := report.Render(w, r, format); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

// sequence picks the snapshots to report on and diffs their neighbours.
func sequence(ctx context.Context, cmd *cli.Command, ordered []*inventory.Snapshot) ([]*inventory.Snapshot, []differ.SnapshotDiff, error) {
	opts := diffOptions(cmd)

	if cmd.IsSet("tags") {
		ids := cmd.StringSlice("tags")
		set := differ.NewSnapshotSet(ordered...)
		diffs, err := differ.Sequence(ctx, ids, set, opts)
		if err != nil {
			return nil, nil, err
		}
		seq := make([]*inventory.Snapshot, len(ids))
		for i, id := range ids {
			seq[i], _ = set.Snapshot(id)
		}
		return seq, diffs, nil
	}

	ids, err := selector.Range(selector.Identifiers(ordered), cmd.String("from"), cmd.String("to"))
	if err != nil {
		return nil, nil, err
	}
	seq := make([]*inventory.Snapshot, 0, len(ids))
	for _, s := range ordered {
		for _, id := range ids {
			if s.Identifier == id {
				seq = append(seq, s)
				break
			}
		}
	}
	log.Debugf("report range: %s..%s (%d)", ids[0], ids[len(ids)-1], len(ids))

	diffs, err := differ.Snapshots(ctx, seq, opts)
	if err != nil {
		return nil, nil, err
	}
	return seq, diffs, nil
}

// reportWriter opens --html-out, falling back to DefaultReportFile for html
// and to stdout for the other formats. "-" is stdout.
func reportWriter(cmd *cli.Command, format string) (io.Writer, func() error, error) {
	path := cmd.String("html-out")
	if path == "" && (format == "" || format == "html") {
		path = DefaultReportFile
	}
	if path == "" || path == "-" {
		return cmd.Root().Writer, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("report: %w", err)
	}
	return f, func() error {
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.Root().ErrWriter, "Wrote %s\n", path)
		return nil
	}, nil
}

// reportCommandBuilder constructs the cli.Command for "report".
func reportCommandBuilder(meta meta.Meta) *cli.Command {
	title, _ := config.GetString("report.title", report.DefaultTitle)
	out, _ := config.GetString("report.out", "")

	return &cli.Command{
		Name:      "report",
		Usage:     "render the diff matrix of a snapshot sequence",
		UsageText: "eectl report [--from spec] [--to spec] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewStoreFlag("report"),
			NewFormatFlag(),
			NewLenientFlag("report"),
			NewOrderFlag("report"),
			NewParallelFlag("report"),
			&cli.StringFlag{
				Name:  "from",
				Usage: "first snapshot of the range (identifier, prefix, LATEST~N or -N)",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "last snapshot of the range",
			},
			&cli.StringSliceFlag{
				Name:  "tags",
				Usage: "exact identifiers to report on, in order",
			},
			&cli.StringFlag{
				Name:    "html-out",
				Aliases: []string{"O"},
				Usage:   "file to write, - for stdout (html defaults to " + DefaultReportFile + ")",
				Value:   out,
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "report title",
				Value: title,
			},
		}, awsFlags()...),
		Action: reportCommandAction,
	}
}
