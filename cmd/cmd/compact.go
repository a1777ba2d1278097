/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"context"
	"log"
	"os"

	"github.com/CESSProject/kvcache/common/workspace"
	"github.com/spf13/cobra"
)

// cmd_compact_func compacts the store range of a namespace.
func cmd_compact_func(cmd *cobra.Command, args []string) {
	ns, _ := cmd.Flags().GetString("ns")
	_, c, err := openOffline(cmd)
	if err != nil {
		exitErr(err)
	}
	defer c.Close()
	if err = namespaceView(c, ns).Compact(context.Background()); err != nil {
		exitErr(err)
	}
	log.Printf("[ok] compacted %s\n", c.Path())
	c.Close()
	os.Exit(0)
}

// cmd_reset_func wipes the store and logs of the workspace.
func cmd_reset_func(cmd *cobra.Command, args []string) {
	cfg, err := buildConfigFile(cmd)
	if err != nil {
		exitErr(err)
	}
	ws := workspace.NewWorkspace(cfg.Application.Workspace)
	if err = ws.RemoveAndBuild(); err != nil {
		exitErr(err)
	}
	lg, err := buildLogs(ws.GetLogDir())
	if err != nil {
		exitErr(err)
	}
	lg.Log("info", "workspace reset")
	log.Printf("[ok] %s\n", ws.GetRootDir())
	os.Exit(0)
}
