/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverError(t *testing.T) {
	msg := func() (s string) {
		defer func() {
			if err := recover(); err != nil {
				s = RecoverError(err)
			}
		}()
		panic("boom")
	}()
	assert.Contains(t, msg, "[panic]")
	assert.Contains(t, msg, "boom")
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512 B", HumanBytes(512))
	assert.Equal(t, "1.0 KiB", HumanBytes(1024))
	assert.Equal(t, "1.5 MiB", HumanBytes(1536*1024))
}

func TestGetDirFreeSpace(t *testing.T) {
	free, err := GetDirFreeSpace(t.TempDir())
	require.NoError(t, err)
	assert.Greater(t, free, uint64(0))
}
