/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/CESSProject/kvcache/configs"
	"github.com/CESSProject/kvcache/node"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// cmd_token_func issues a bearer token signed with the configured secret.
func cmd_token_func(cmd *cobra.Command, args []string) {
	hours, _ := cmd.Flags().GetInt("hours")
	if hours <= 0 {
		exitErr(errors.New("--hours must be positive"))
	}
	cfg, err := buildConfigFile(cmd)
	if err != nil {
		exitErr(err)
	}
	if cfg.Access.Mode != configs.Access_Private {
		exitErr(errors.Errorf("access mode is %s, tokens are only checked in %s mode", cfg.Access.Mode, configs.Access_Private))
	}
	token, err := node.NewToken(cfg.Secret, args[0], time.Duration(hours)*time.Hour)
	if err != nil {
		exitErr(err)
	}
	fmt.Println(token)
	os.Exit(0)
}
