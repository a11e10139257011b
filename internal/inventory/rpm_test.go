// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRPM(t *testing.T) {
	text := `
bash|(none)|5.1.8|6.el9|x86_64
openssl-libs|1|3.0.7|27.el9|x86_64
glibc|0|2.34|100.el9|i686
glibc|0|2.34|100.el9|x86_64
gpg-pubkey|(none)|fd431d51|4ae0493b|(none)
python3-pip|21.2.3|7.el9|noarch
garbage line
only|two
`
	records, warns, err := ParseRPM(text)
	require.NoError(t, err)
	require.Len(t, records, 6)

	assert.Equal(t, Record{Name: "bash", Version: "5.1.8-6.el9", Category: CategoryRPM, Release: "6.el9", Arch: "x86_64"}, records[0])
	assert.Equal(t, "1:3.0.7-27.el9", records[1].Version)
	assert.Equal(t, "1", records[1].Epoch)
	assert.Equal(t, "glibc.i686", records[2].Key())
	assert.Equal(t, "glibc.x86_64", records[3].Key())
	assert.Equal(t, "gpg-pubkey", records[4].Key())
	assert.Equal(t, "21.2.3-7.el9", records[5].Version)

	require.Len(t, warns, 2)
	assert.Equal(t, 8, warns[0].Line)
	assert.Equal(t, "not a package line", warns[0].Reason)
	assert.Equal(t, "only|two", warns[1].Text)
	assert.Equal(t, SourceRPM, warns[1].Source)
}

func TestParseRPMDuplicateKeepsHighest(t *testing.T) {
	text := "kernel|(none)|5.14.0|70.el9|x86_64\nkernel|(none)|5.14.0|162.el9|x86_64\nkernel|(none)|5.14.0|100.el9|x86_64\n"
	records, warns, err := ParseRPM(text)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "5.14.0-162.el9", records[0].Version)
	assert.Len(t, warns, 2)
}

func TestParseRPMStructuralFailure(t *testing.T) {
	_, _, err := ParseRPM("rpm: command not found\n")
	require.Error(t, err)

	records, warns, err := ParseRPM("\n\n")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, warns)
}

func TestCollectionPattern(t *testing.T) {
	p := MustCollectionPattern("")

	fqcn, ok := p.FQCN("ansible-collection-redhat-rhel_mgmt")
	require.True(t, ok)
	assert.Equal(t, "redhat.rhel_mgmt", fqcn)

	_, ok = p.FQCN("ansible-core")
	assert.False(t, ok)

	_, err := NewCollectionPattern(`^(?P<ns>\w+)$`)
	assert.Error(t, err)
	_, err = NewCollectionPattern(`(`)
	assert.Error(t, err)
}

func TestRPMCollections(t *testing.T) {
	rpms := []Record{
		{Name: "ansible-collection-redhat-rhel_mgmt", Version: "1:1.0.0-2.el9", Epoch: "1", Release: "2.el9", Category: CategoryRPM},
		{Name: "bash", Version: "5.1.8-6.el9", Release: "6.el9", Category: CategoryRPM},
	}
	got := RPMCollections(rpms, MustCollectionPattern(""))
	require.Len(t, got, 1)
	assert.Equal(t, Record{Name: "redhat.rhel_mgmt", Version: "1.0.0", Category: CategoryCollection, Provenance: ProvenanceRPM}, got[0])
}
