// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rootA = "usr/share/ansible/collections/ansible_collections"
	rootB = "usr/lib/python3.11/site-packages/ansible_collections"
)

func scanFS() fstest.MapFS {
	return fstest.MapFS{
		rootA + "/ansible/posix/MANIFEST.json":        {Data: []byte(`{"collection_info": {"namespace": "ansible", "name": "posix", "version": "1.5.4"}}`)},
		rootA + "/community/general/galaxy.yml":       {Data: []byte("namespace: community\nname: general\nversion: 7.3.0\n")},
		rootA + "/broken/manifest/MANIFEST.json":      {Data: []byte(`{"collection_info":`)},
		rootA + "/empty/nothing/README.md":            {Data: []byte("hi")},
		rootA + "/ansible.posix-1.5.4.info/GALAXY.yml": {Data: []byte("version: 1.5.4\n")},
		rootB + "/ansible/posix/MANIFEST.json":        {Data: []byte(`{"collection_info": {"version": "1.3.0"}}`)},
		rootB + "/ansible/utils/MANIFEST.json":        {Data: []byte(`{"collection_info": {"version": "2.10.3"}}`)},
	}
}

func TestScanCollections(t *testing.T) {
	records, warns, err := ScanCollections(scanFS(), []string{"/" + rootA, "does/not/exist", rootB})
	require.NoError(t, err)

	got := map[string]string{}
	for _, r := range records {
		assert.Equal(t, ProvenanceFilesystem, r.Provenance)
		got[r.Name] = r.Version
	}
	assert.Equal(t, map[string]string{
		"ansible.posix":     "1.5.4",
		"community.general": "7.3.0",
		"ansible.utils":     "2.10.3",
	}, got)

	require.Len(t, warns, 1)
	assert.Equal(t, rootA+"/broken/manifest", warns[0].Text)
	assert.Equal(t, SourceFilesystem, warns[0].Source)
}

func TestScanCollectionsNoRoots(t *testing.T) {
	records, warns, err := ScanCollections(scanFS(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, warns)

	_, _, err = ScanCollections(nil, []string{rootA})
	assert.Error(t, err)
}

func TestCleanRoot(t *testing.T) {
	assert.Equal(t, "usr/share", cleanRoot("/usr/share/"))
	assert.Equal(t, ".", cleanRoot("/"))
	assert.Equal(t, "a/b", cleanRoot(" a//b "))
}
