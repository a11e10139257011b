// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaw(t *testing.T) {
	a := snap(t, "A", py("foo", "1.0"))
	b := snap(t, "B", py("foo", "1.1"))
	left, err := json.Marshal(a)
	require.NoError(t, err)
	right, err := json.Marshal(b)
	require.NoError(t, err)

	var buf bytes.Buffer
	changed, err := Raw(&buf, left, right, []string{"identifier"}, false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, buf.String(), "1.1")

	buf.Reset()
	same := snap(t, "C", py("foo", "1.0"))
	right, err = json.Marshal(same)
	require.NoError(t, err)
	changed, err = Raw(&buf, left, right, []string{"identifier"}, false)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Contains(t, buf.String(), "identical")

	_, err = Raw(&buf, []byte("nope"), right, nil, false)
	assert.Error(t, err)
}
