// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePythonFormatsAgree(t *testing.T) {
	jsonText := `[{"name": "ansible-core", "version": "2.15.3"}, {"name": "PyYAML", "version": "6.0.1"}]`
	freezeText := "# generated\nansible-core==2.15.3\n\nPyYAML==6.0.1\n"

	fromJSON, warns, err := ParsePython(jsonText)
	require.NoError(t, err)
	assert.Empty(t, warns)

	fromFreeze, warns, err := ParsePython(freezeText)
	require.NoError(t, err)
	assert.Empty(t, warns)

	assert.Equal(t, fromJSON, fromFreeze)
	assert.Equal(t, "pyyaml", fromJSON[1].Key())
}

func TestParsePython(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantNames []string
		wantWarns int
		wantErr   bool
	}{
		{name: "empty", text: "  \n"},
		{name: "json skips bad entries", text: `[{"name":"a","version":"1"},{"name":"b"},"c"]`, wantNames: []string{"a"}, wantWarns: 2},
		{name: "json duplicate normalised names", text: `[{"name":"Foo_Bar","version":"1"},{"name":"foo-bar","version":"2"}]`, wantNames: []string{"Foo_Bar"}, wantWarns: 1},
		{name: "json object top level", text: `{"name":"a","version":"1"}`, wantErr: true},
		{name: "malformed json", text: `[{"name":`, wantErr: true},
		{name: "freeze skips editable and urls", text: "a==1\n-e git+https://x/y.git#egg=y\nz @ file:///tmp/z\n", wantNames: []string{"a"}, wantWarns: 2},
		{name: "freeze arbitrary equality and extras", text: "a===1.0\nb[extra]==2\n", wantNames: []string{"a", "b"}},
		{name: "no pins at all", text: "pip: command not found\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, warns, err := ParsePython(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			var names []string
			for _, r := range records {
				names = append(names, r.Name)
				assert.Equal(t, CategoryPython, r.Category)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Len(t, warns, tt.wantWarns)
		})
	}
}

func TestParsePythonArbitraryEqualityVersion(t *testing.T) {
	records, _, err := ParsePython("a===1.0\n")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1.0", records[0].Version)
}
