/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/CESSProject/kvcache/common/confile"
	"github.com/CESSProject/kvcache/common/db"
	"github.com/CESSProject/kvcache/common/logger"
	"github.com/CESSProject/kvcache/common/workspace"
	"github.com/CESSProject/kvcache/node"
	"github.com/CESSProject/kvcache/pkg/cache"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// cmd_run_func is an implementation of the run command,
// which is used to start the cache service.
func cmd_run_func(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := buildConfigFile(cmd)
	if err != nil {
		log.Printf("[err] %v\n", err)
		os.Exit(1)
	}

	if !confile.FreeLocalPort(cfg.Application.Port) {
		log.Printf("[err] port [%d] is in use\n", cfg.Application.Port)
		os.Exit(1)
	}

	ws := workspace.NewWorkspace(cfg.Application.Workspace)
	if err = ws.Build(); err != nil {
		log.Printf("[err] %v\n", err)
		os.Exit(1)
	}

	lg, err := buildLogs(ws.GetLogDir())
	if err != nil {
		log.Printf("[err] %v\n", err)
		os.Exit(1)
	}

	c, err := buildCache(ctx, cfg, ws, lg)
	if err != nil {
		log.Printf("[err] %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	log.Printf("[ok] workspace: %s\n", ws.GetRootDir())
	log.Printf("[ok] listening on port %d\n", cfg.Application.Port)

	// run
	if err = node.New(c, cfg, lg).Run(ctx); err != nil {
		lg.Log("err", err.Error())
		log.Printf("[err] %v\n", err)
		os.Exit(1)
	}
}

func buildConfigFile(cmd *cobra.Command) (*confile.Config, error) {
	conFilePath, _ := cmd.Flags().GetString("config")
	if conFilePath == "" {
		conFilePath = confile.DefaultConfig
	}
	cfg, err := confile.NewConfig(conFilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "[NewConfig %s]", conFilePath)
	}
	return cfg, nil
}

func buildLogs(logDir string) (logger.Logger, error) {
	var logs_info = make(map[string]string)
	for _, v := range logger.LogFiles {
		logs_info[v] = filepath.Join(logDir, v+".log")
	}
	return logger.NewLogs(logs_info)
}

func buildCache(ctx context.Context, cfg *confile.Config, ws workspace.Workspace, lg logger.Logger) (*cache.Cache, error) {
	c, err := cache.Open(
		ctx,
		ws.GetDbDir(),
		cache.WithLRU(cfg.LRU),
		cache.WithLRUSize(cfg.OverlaySize()),
		cache.WithCompression(cfg.Compression),
		cache.WithLogger(lg),
		cache.WithDBOptions(db.Options{
			CacheMiB:       cfg.BlockCache,
			Handles:        cfg.Handles,
			WriteBufferMiB: cfg.WriteBuffer,
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "[open cache %s]", ws.GetDbDir())
	}
	return c, nil
}

// openOffline opens the cache of the configured workspace for a one-shot
// command. The service must not be running since the store is locked.
func openOffline(cmd *cobra.Command) (*confile.Config, *cache.Cache, error) {
	cfg, err := buildConfigFile(cmd)
	if err != nil {
		return nil, nil, err
	}
	ws := workspace.NewWorkspace(cfg.Application.Workspace)
	if err = ws.Build(); err != nil {
		return nil, nil, err
	}
	c, err := buildCache(context.Background(), cfg, ws, logger.NewNop())
	if err != nil {
		return nil, nil, err
	}
	return cfg, c, nil
}

// namespaceView walks c down the slash separated namespace path.
func namespaceView(c *cache.Cache, path string) *cache.Cache {
	for _, seg := range strings.Split(path, node.HTTP_NamespaceSeparator) {
		if seg != "" {
			c = c.Scope(seg)
		}
	}
	return c
}

func exitErr(err error) {
	log.Printf("[err] %v\n", err)
	os.Exit(1)
}

func printValue(v any) {
	b, err := node.Marshal(v)
	if err != nil {
		exitErr(err)
	}
	fmt.Println(string(b))
}
