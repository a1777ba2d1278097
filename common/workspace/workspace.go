/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dbDir  = "db"
	logDir = "log"
)

type Workspace interface {
	Build() error
	RemoveAndBuild() error
	GetRootDir() string
	GetDbDir() string
	GetLogDir() string
}

type workspace struct {
	rootDir string
	dbDir   string
	logDir  string
}

var _ Workspace = (*workspace)(nil)

func NewWorkspace(ws string) Workspace {
	return &workspace{
		rootDir: ws,
		dbDir:   filepath.Join(ws, dbDir),
		logDir:  filepath.Join(ws, logDir),
	}
}

// RemoveAndBuild wipes the store and logs and recreates empty directories.
func (w *workspace) RemoveAndBuild() error {
	if w.rootDir == "" {
		return fmt.Errorf("Please initialize the workspace first")
	}
	for _, dir := range []string{w.dbDir, w.logDir} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return w.Build()
}

func (w *workspace) Build() error {
	if w.rootDir == "" {
		return fmt.Errorf("Please initialize the workspace first")
	}
	if err := os.MkdirAll(w.logDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(w.dbDir, 0755)
}

func (w *workspace) GetRootDir() string {
	return w.rootDir
}
func (w *workspace) GetDbDir() string {
	return w.dbDir
}
func (w *workspace) GetLogDir() string {
	return w.logDir
}
