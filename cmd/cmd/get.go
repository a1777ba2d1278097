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
	"strconv"

	"github.com/CESSProject/kvcache/pkg/codec"
	"github.com/spf13/cobra"
)

// cmd_get_func prints the value stored under a key.
func cmd_get_func(cmd *cobra.Command, args []string) {
	ns, _ := cmd.Flags().GetString("ns")
	asInt, _ := cmd.Flags().GetBool("int")

	var key any = args[0]
	if asInt {
		i, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			exitErr(err)
		}
		key = i
	}

	_, c, err := openOffline(cmd)
	if err != nil {
		exitErr(err)
	}
	defer c.Close()

	v, err := namespaceView(c, ns).Get(context.Background(), key)
	if err != nil {
		exitErr(err)
	}
	if codec.IsUndefined(v) {
		log.Printf("[err] %v not found\n", args[0])
		c.Close()
		os.Exit(1)
	}
	printValue(v)
	c.Close()
	os.Exit(0)
}
