// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v2"
)

//go:embed templates/report.html.tmpl
var templates embed.FS

var htmlTemplate = template.Must(template.New("report.html.tmpl").
	Funcs(template.FuncMap{
		"meta":  columnMeta,
		"stamp": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05 MST") },
	}).
	ParseFS(templates, "templates/report.html.tmpl"))

// Render writes the report in the named format.
func Render(w io.Writer, r *Report, format string) error {
	switch strings.ToLower(format) {
	case "", "html":
		return r.HTML(w)
	case "text":
		return r.Text(w)
	case "json":
		return r.JSON(w)
	case "yaml":
		return r.YAML(w)
	default:
		return fmt.Errorf("unknown report format %q, want one of %s", format, strings.Join(Formats, ", "))
	}
}

// ValidFormat reports whether format is accepted by Render.
func ValidFormat(format string) bool {
	return slices.Contains(Formats, strings.ToLower(format))
}

// HTML writes the matrix page.
func (r *Report) HTML(w io.Writer) error {
	if err := htmlTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Text writes the matrix as a terminal table of counts.
func (r *Report) Text(w io.Writer) error {
	headers := []string{"Type"}
	for _, col := range r.Columns {
		headers = append(headers, col.Identifier)
	}

	created := []string{"Created"}
	for _, col := range r.Columns {
		created = append(created, columnMeta(col))
	}

	rows := [][]string{created}
	for _, c := range r.Categories {
		row := []string{c.Title()}
		for _, col := range r.Columns {
			cell := col.Cell(c)
			switch {
			case cell.Baseline:
				row = append(row, "")
			case cell.Empty():
				row = append(row, "No changes")
			default:
				row = append(row, cell.CountsLine())
			}
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	if _, err := fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(r.Title)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, t)
	return err
}

// JSON writes the report with every change entry.
func (r *Report) JSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	return nil
}

// YAML writes the report with every change entry.
func (r *Report) YAML(w io.Writer) error {
	out, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("render yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// columnMeta is the small print under a column title: age and image size.
func columnMeta(col Column) string {
	var parts []string
	if !col.Created.IsZero() {
		parts = append(parts, humanize.Time(col.Created))
	}
	if col.Size > 0 {
		parts = append(parts, humanize.Bytes(uint64(col.Size)))
	}
	return strings.Join(parts, ", ")
}
