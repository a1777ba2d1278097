/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"os"

	"github.com/CESSProject/kvcache/common/confile"
	"github.com/CESSProject/kvcache/configs"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   configs.Name,
	Short: configs.Description,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// init
func init() {
	rootCmd.AddCommand(
		Command_Config(),
		Command_Version(),
		Command_Run(),
		Command_Stat(),
		Command_Dump(),
		Command_Get(),
		Command_Token(),
		Command_Compact(),
		Command_Reset(),
	)
	rootCmd.PersistentFlags().StringP("config", "c", confile.DefaultConfig, "Custom profile")
}

func Command_Version() *cobra.Command {
	cc := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(configs.Version)
			os.Exit(0)
		},
		DisableFlagsInUseLine: true,
	}
	return cc
}

func Command_Config() *cobra.Command {
	cc := &cobra.Command{
		Use:                   "config",
		Short:                 "Generate configuration file template",
		Run:                   configCmd,
		DisableFlagsInUseLine: true,
	}
	return cc
}

func Command_Run() *cobra.Command {
	cc := &cobra.Command{
		Use:                   "run",
		Short:                 "Running services",
		Run:                   cmd_run_func,
		DisableFlagsInUseLine: true,
	}
	return cc
}

func Command_Stat() *cobra.Command {
	cc := &cobra.Command{
		Use:                   "stat",
		Short:                 "Query cache statistics",
		Run:                   cmd_stat_func,
		DisableFlagsInUseLine: true,
	}
	return cc
}

func Command_Dump() *cobra.Command {
	cc := &cobra.Command{
		Use:                   "dump",
		Short:                 "Print cached entries in key order",
		Run:                   cmd_dump_func,
		DisableFlagsInUseLine: true,
	}
	cc.Flags().String("ns", "", "namespace path, segments separated by /")
	cc.Flags().Bool("reverse", false, "descending key order")
	cc.Flags().Int("limit", 0, "maximum number of entries, 0 prints all")
	return cc
}

func Command_Get() *cobra.Command {
	cc := &cobra.Command{
		Use:                   "get <key>",
		Short:                 "Print the value stored under a key",
		Args:                  cobra.ExactArgs(1),
		Run:                   cmd_get_func,
		DisableFlagsInUseLine: true,
	}
	cc.Flags().String("ns", "", "namespace path, segments separated by /")
	cc.Flags().Bool("int", false, "treat the key as an integer")
	return cc
}

func Command_Token() *cobra.Command {
	cc := &cobra.Command{
		Use:                   "token <subject>",
		Short:                 "Issue an access token for private mode",
		Args:                  cobra.ExactArgs(1),
		Run:                   cmd_token_func,
		DisableFlagsInUseLine: true,
	}
	cc.Flags().Int("hours", configs.DefaultTokenHours, "token validity in hours")
	return cc
}

func Command_Compact() *cobra.Command {
	cc := &cobra.Command{
		Use:                   "compact",
		Short:                 "Compact the store",
		Run:                   cmd_compact_func,
		DisableFlagsInUseLine: true,
	}
	cc.Flags().String("ns", "", "namespace path, segments separated by /")
	return cc
}

func Command_Reset() *cobra.Command {
	cc := &cobra.Command{
		Use:                   "reset",
		Short:                 "Remove every entry and log of the workspace",
		Run:                   cmd_reset_func,
		DisableFlagsInUseLine: true,
	}
	return cc
}
