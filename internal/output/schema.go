// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
)

// DumpSchema writes the row keys available to --attrs, --filter and --sort.
// If w is nil, os.Stdout is used.
func DumpSchema(columns []Column, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w, "Row keys available to the --attrs, --filter and --sort flags.")
	fmt.Fprintln(w, "")

	rows := make([][]string, len(columns))
	for i, c := range columns {
		rows[i] = []string{c.Key, c.Description}
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col > 0 {
				return lipgloss.NewStyle().PaddingLeft(2)
			}
			return lipgloss.NewStyle()
		}).
		Rows(rows...)
	fmt.Fprintln(w, t)
}
