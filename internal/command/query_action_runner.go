// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/eectl/eectl/internal/output"
)

// QueryActionRunner encapsulates the common query action pattern: schema
// short-circuit, attrs, fetching the rows and emitting them per the output
// flags. Only the fetch differs between commands.
type QueryActionRunner struct {
	CommandName  string
	Columns      []output.Column
	DefaultAttrs string
	FetchFn      func(context.Context, *cli.Command) ([]map[string]interface{}, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if DumpSchemaIfRequested(cmd, qar.Columns) {
		return nil
	}

	al, err := BuildAttrs(cmd, qar.DefaultAttrs)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %s", al.String())

	rows, err := qar.FetchFn(ctx, cmd)
	if err != nil {
		return err
	}

	return output.SliceDiceSpit(rows, al, cmd, cmd.Root().Writer)
}

// NewQueryActionRunner creates a QueryActionRunner with the provided
// configuration.
func NewQueryActionRunner(
	commandName string,
	columns []output.Column,
	defaultAttrs string,
	fetchFn func(context.Context, *cli.Command) ([]map[string]interface{}, error),
) *QueryActionRunner {
	return &QueryActionRunner{
		CommandName:  commandName,
		Columns:      columns,
		DefaultAttrs: defaultAttrs,
		FetchFn:      fetchFn,
	}
}
