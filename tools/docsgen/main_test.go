// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eectl/eectl/internal/command"
)

func TestSubcommands(t *testing.T) {
	app, err := command.InitApp(context.Background(), []string{"eectl"})
	require.NoError(t, err)

	subs := Subcommands(app, Extras{
		"diff": {Description: "Compares two stored inventories.", Notes: []string{"LATEST~1 is the default from."}},
	})

	var ids []string
	var diff Subcommand
	for _, s := range subs {
		ids = append(ids, s.ID)
		if s.ID == "diff" {
			diff = s
		}
	}
	assert.Equal(t, []string{"collect", "tags", "inv", "diff", "report", "completion"}, ids)
	assert.Equal(t, "Compares two stored inventories.", diff.Description)

	var category Flag
	for _, f := range diff.Flags {
		if f.ID == "category" {
			category = f
		}
	}
	assert.Equal(t, "--category, -k", category.Syntax)
	assert.NotEmpty(t, category.Description)
}

func TestRender(t *testing.T) {
	data := TemplateData{
		Subcommand: Subcommand{
			ID:    "inv",
			Short: "query stored inventories",
			Usage: "eectl inv [tag]",
			Flags: []Flag{{ID: "out", Syntax: "--out, --store", Description: "inventory store", Default: "./ee_inventory_xml"}},
		},
		Version: "1.2.3",
		IDUpper: "INV",
	}

	var md bytes.Buffer
	require.NoError(t, Render(&md, "eectl.md.tmpl", data))
	assert.Contains(t, md.String(), "# eectl inv")
	assert.Contains(t, md.String(), "| `--out, --store` | inventory store | ./ee_inventory_xml |")

	var man bytes.Buffer
	require.NoError(t, Render(&man, "eectl.man.tmpl", data))
	assert.Contains(t, man.String(), ".TH EECTL-INV 1")
}
