/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"os"

	"github.com/CESSProject/kvcache/common/utils"
	"github.com/CESSProject/kvcache/configs"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// cmd_stat_func is an implementation of the stat command,
// which is used to view the statistics of the cache.
func cmd_stat_func(cmd *cobra.Command, args []string) {
	cfg, c, err := openOffline(cmd)
	if err != nil {
		exitErr(err)
	}
	defer c.Close()

	st, err := c.Stats()
	if err != nil {
		exitErr(err)
	}
	var tableRows = []table.Row{
		{"version", configs.Version},
		{"workspace", cfg.Application.Workspace},
		{"store", c.Path()},
		{"entries", st.Entries},
		{"size", utils.HumanBytes(uint64(st.SizeBytes))},
		{"overlay", fmt.Sprintf("%d / %d", st.Overlay, st.OverlayCap)},
		{"compressed", st.Compressed},
	}
	if free, err := utils.GetDirFreeSpace(cfg.Application.Workspace); err == nil {
		tableRows = append(tableRows, table.Row{"disk free", utils.HumanBytes(free)})
	}
	if mem, err := utils.GetSysMemAvailable(); err == nil {
		tableRows = append(tableRows, table.Row{"memory available", utils.HumanBytes(mem)})
	}
	tw := table.NewWriter()
	tw.AppendRows(tableRows)
	fmt.Println(tw.Render())
	c.Close()
	os.Exit(0)
}
