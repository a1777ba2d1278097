/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_Build(t *testing.T) {
	root := t.TempDir()
	ws := NewWorkspace(root)
	require.NoError(t, ws.Build())
	assert.DirExists(t, ws.GetDbDir())
	assert.DirExists(t, ws.GetLogDir())
	assert.Equal(t, filepath.Join(root, "db"), ws.GetDbDir())

	marker := filepath.Join(ws.GetDbDir(), "CURRENT")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0644))
	require.NoError(t, ws.RemoveAndBuild())
	assert.NoFileExists(t, marker)
	assert.DirExists(t, ws.GetDbDir())
}

func TestWorkspace_Empty(t *testing.T) {
	assert.Error(t, NewWorkspace("").Build())
	assert.Error(t, NewWorkspace("").RemoveAndBuild())
}
