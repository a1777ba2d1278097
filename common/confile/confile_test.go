/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package confile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestConfig_Templete(t *testing.T) {
	ws := filepath.Join(t.TempDir(), "ws")
	conf := strings.Replace(ConfigTemplete, `workspace: "/kvcache"`, `workspace: "`+ws+`"`, 1)
	c, err := NewConfig(writeConf(t, "conf.yaml", conf))
	require.NoError(t, err)
	assert.Equal(t, ws, c.Workspace)
	assert.Equal(t, uint32(8080), c.Application.Port)
	assert.Equal(t, 1024, c.OverlaySize())
	assert.True(t, c.Compression)
	assert.Equal(t, "public", c.Access.Mode)
	assert.DirExists(t, ws)
}

func TestConfig_Hujson(t *testing.T) {
	ws := filepath.Join(t.TempDir(), "ws")
	conf := `{
	// comments and trailing commas are allowed
	"application": {"workspace": "` + ws + `", "mode": "debug",},
	"cache": {"lru": false, "compression": false},
	"access": {"mode": "private", "secret": "s3cret"},
}`
	c, err := NewConfig(writeConf(t, "conf.hujson", conf))
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Application.Mode)
	assert.Equal(t, 0, c.OverlaySize())
	assert.False(t, c.Compression)
	assert.Equal(t, "s3cret", c.Secret)
	// defaults fill what the file leaves out
	assert.Equal(t, float64(100), c.Rate)
	assert.Equal(t, 200, c.Burst)
}

func TestConfig_Invalid(t *testing.T) {
	ws := filepath.Join(t.TempDir(), "ws")
	tests := map[string]string{
		"mode":    "application:\n  workspace: " + ws + "\n  mode: fast\n",
		"access":  "application:\n  workspace: " + ws + "\naccess:\n  mode: open\n",
		"secret":  "application:\n  workspace: " + ws + "\naccess:\n  mode: private\n",
		"port":    "application:\n  workspace: " + ws + "\n  port: 70000\n",
		"nowspce": "cache:\n  lru: true\n",
	}
	for name, conf := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewConfig(writeConf(t, "conf.yaml", conf))
			assert.Error(t, err)
		})
	}

	_, err := NewConfig(t.TempDir())
	assert.Error(t, err)
	_, err = NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
