/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/CESSProject/kvcache/node"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// cmd_dump_func prints the entries of a namespace as a table.
func cmd_dump_func(cmd *cobra.Command, args []string) {
	ns, _ := cmd.Flags().GetString("ns")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")

	_, c, err := openOffline(cmd)
	if err != nil {
		exitErr(err)
	}
	defer c.Close()

	view := namespaceView(c, ns)
	if reverse {
		view = view.Reverse()
	}
	it, err := view.Iterator(context.Background())
	if err != nil {
		exitErr(err)
	}
	defer it.Release()

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "key", "value"})
	var count int
	for it.Next() {
		if limit > 0 && count >= limit {
			break
		}
		b, err := node.Marshal(it.Value())
		if err != nil {
			exitErr(err)
		}
		count++
		tw.AppendRow(table.Row{count, fmt.Sprintf("%v", it.Key()), string(b)})
	}
	if err = it.Err(); err != nil {
		exitErr(err)
	}
	tw.AppendFooter(table.Row{"", "total", count})
	fmt.Println(tw.Render())
	it.Release()
	c.Close()
	os.Exit(0)
}
