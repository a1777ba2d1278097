/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogs(t *testing.T) {
	dir := t.TempDir()
	log_files := make(map[string]string, len(LogFiles))
	for _, name := range LogFiles {
		log_files[name] = filepath.Join(dir, "log", name+".log")
	}
	l, err := NewLogs(log_files)
	require.NoError(t, err)

	l.Log("info", "opened")
	l.Logget("err", "boom")
	l.Pnc("panic")

	data, err := os.ReadFile(log_files["get"])
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom")
	assert.Contains(t, string(data), "[ERROR]")
}

func TestNewLogs_Partial(t *testing.T) {
	l, err := NewLogs(map[string]string{"log": filepath.Join(t.TempDir(), "log.log")})
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		l.Logput("info", "no put logger configured")
		l.Loghttp("err", "no http logger configured")
	})
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	assert.NotPanics(t, func() {
		l.Log("info", "x")
		l.Pnc("x")
		l.Logiter("err", "x")
		l.Logdel("info", "x")
	})
}
