// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/eectl/eectl/internal/attrs"
	"github.com/eectl/eectl/internal/differ"
	"github.com/eectl/eectl/internal/inventory"
)

func sampleSnapshot(t *testing.T) *inventory.Snapshot {
	t.Helper()
	records := []inventory.Record{
		{Category: inventory.CategoryRPM, Name: "bash", Version: "5.1.8-6.el9", Epoch: "0", Release: "6.el9", Arch: "x86_64"},
		{Category: inventory.CategoryPython, Name: "jinja2", Version: "3.1.2"},
		{Category: inventory.CategoryCollection, Name: "ansible.posix", Version: "1.5.4", Provenance: inventory.ProvenanceGalaxy},
	}
	s, err := inventory.NewSnapshot("2.18", "registry.example/ee:2.18", inventory.Image{}, records, nil)
	require.NoError(t, err)
	return s
}

// runWith parses args into a command carrying the output flags and runs fn
// inside its action so flag lookups resolve.
func runWith(t *testing.T, args []string, fn func(cmd *cli.Command)) {
	t.Helper()
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: "text"},
			&cli.StringFlag{Name: "filter"},
			&cli.StringFlag{Name: "sort"},
			&cli.BoolFlag{Name: "color"},
			&cli.BoolFlag{Name: "titles"},
			&cli.IntFlag{Name: "padding", Value: 2},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			fn(cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
}

func defaultAttrs(t *testing.T, spec string) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set(spec))
	return al
}

func TestRecordRows(t *testing.T) {
	s := sampleSnapshot(t)

	rows := RecordRows(s)
	require.Len(t, rows, 3)
	assert.Equal(t, "rpm", rows[0]["category"])
	assert.Equal(t, "bash.x86_64", rows[0]["key"])
	assert.Equal(t, "galaxy", rows[2]["provenance"])

	rows = RecordRows(s, inventory.CategoryPython)
	require.Len(t, rows, 1)
	assert.Equal(t, "jinja2", rows[0]["name"])
}

func TestChangeRows(t *testing.T) {
	d := differ.SnapshotDiff{
		From: "a",
		To:   "b",
		Changes: map[inventory.Category][]differ.ChangeEntry{
			inventory.CategoryPython: {
				{Key: "jinja2", Name: "jinja2", Kind: differ.Changed, Direction: differ.Upgrade, OldVersion: "3.1.2", NewVersion: "3.1.4"},
			},
		},
	}

	rows := ChangeRows(d)
	require.Len(t, rows, 1)
	assert.Equal(t, "upgrade", rows[0]["direction"])
	assert.Equal(t, "3.1.2", rows[0]["from"])
	assert.Equal(t, "b", rows[0]["toTag"])
}

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"name": "zebra", "count": 3, "category": "python", "version": "1.10"},
		{"name": "Alpha", "count": 1, "category": "python", "version": "1.9"},
		{"name": "beta", "count": 2, "category": "python", "version": "1.2"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{"ascending by name", "name", []string{"Alpha", "beta", "zebra"}},
		{"descending by name", "-name", []string{"zebra", "beta", "Alpha"}},
		{"case sensitive", "!name", []string{"Alpha", "beta", "zebra"}},
		{"by count", "-count", []string{"zebra", "beta", "Alpha"}},
		{"version aware", "version", []string{"beta", "Alpha", "zebra"}},
		{"empty spec", "", []string{"zebra", "Alpha", "beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		empty []string
		want  string
	}{
		{"nil", nil, nil, ""},
		{"nil custom empty", nil, []string{"-"}, "-"},
		{"empty string", "", []string{"-"}, "-"},
		{"string", "bash", nil, "bash"},
		{"int", 42, nil, "42"},
		{"int64", int64(7), nil, "7"},
		{"float", 1.5, nil, "1.5"},
		{"bool", true, nil, "true"},
		{"category", inventory.CategoryRPM, nil, "rpm"},
		{"slice", []string{"a", "b"}, nil, `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterfaceToString(tt.value, tt.empty...))
		})
	}
}

func TestSliceDiceSpitText(t *testing.T) {
	s := sampleSnapshot(t)
	var buf bytes.Buffer

	runWith(t, []string{"--titles", "--filter", "category=rpm"}, func(cmd *cli.Command) {
		require.NoError(t, SliceDiceSpit(RecordRows(s), defaultAttrs(t, DefaultRecordAttrs), cmd, &buf))
	})

	out := buf.String()
	assert.Contains(t, out, "bash")
	assert.Contains(t, out, "x86_64")
	assert.Contains(t, out, "provenance")
	assert.NotContains(t, out, "jinja2")
}

func TestSliceDiceSpitJSON(t *testing.T) {
	s := sampleSnapshot(t)
	var buf bytes.Buffer

	runWith(t, []string{"--output", "json", "--sort", "-name"}, func(cmd *cli.Command) {
		require.NoError(t, SliceDiceSpit(RecordRows(s), defaultAttrs(t, "name,version:ver:u,!category"), cmd, &buf))
	})

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "jinja2", got[0]["name"])
	assert.Equal(t, "5.1.8-6.EL9", got[1]["ver"])
	assert.NotContains(t, got[0], "category")
}

func TestSliceDiceSpitYAML(t *testing.T) {
	s := sampleSnapshot(t)
	var buf bytes.Buffer

	runWith(t, []string{"--output", "yaml", "--filter", "category=collection"}, func(cmd *cli.Command) {
		require.NoError(t, SliceDiceSpit(RecordRows(s), defaultAttrs(t, "name,provenance"), cmd, &buf))
	})

	var got []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]string{{"name": "ansible.posix", "provenance": "galaxy"}}, got)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("name:")), bytes.Index(buf.Bytes(), []byte("provenance:")))
}

func TestTableWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	runWith(t, nil, func(cmd *cli.Command) {
		TableWriter(nil, defaultAttrs(t, "name"), cmd, &buf)
	})
	assert.Empty(t, buf.String())
}

func TestTableWriterHeaderFooter(t *testing.T) {
	var buf bytes.Buffer
	runWith(t, nil, func(cmd *cli.Command) {
		cmd.Metadata = map[string]interface{}{"header": "HEAD", "footer": "FOOT"}
		TableWriter([]map[string]interface{}{{"name": "bash"}}, defaultAttrs(t, "name"), cmd, &buf)
	})
	out := buf.String()
	assert.Contains(t, out, "HEAD")
	assert.Contains(t, out, "bash")
	assert.Contains(t, out, "FOOT")
}

func TestDumpSchema(t *testing.T) {
	var buf bytes.Buffer
	DumpSchema(ChangeColumns, &buf)
	assert.Contains(t, buf.String(), "direction")
	assert.Contains(t, buf.String(), "--attrs")
}
