/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/CESSProject/kvcache/common/confile"
	"github.com/CESSProject/kvcache/common/logger"
	"github.com/CESSProject/kvcache/configs"
	"github.com/CESSProject/kvcache/pkg/cache"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

type Node struct {
	logger.Logger
	*confile.Config
	*rate.Limiter
	*gin.Engine
	cache *cache.Cache
}

// New is used to build a node serving c over HTTP
func New(c *cache.Cache, cfg *confile.Config, lg logger.Logger) *Node {
	if lg == nil {
		lg = logger.NewNop()
	}
	if cfg.Application.Mode == configs.App_Mode_Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	n := &Node{
		Logger:  lg,
		Config:  cfg,
		Limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		Engine:  gin.New(),
		cache:   c,
	}
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"HEAD", "GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AddAllowHeaders(
		HTTPHeader_Authorization,
		HTTPHeader_RequestID,
		"*",
	)
	config.AddExposeHeaders(HTTPHeader_RequestID)
	n.Engine.Use(n.recoverMdl, n.requestMdl, cors.New(config), n.limitMdl)
	n.Engine.NoRoute(n.NotFoundHandler)
	n.RegisterRoutes(n.Engine)
	return n
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (n *Node) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", n.Application.Port),
		Handler:           n.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		n.Log("info", fmt.Sprintf("listening on port %d", n.Application.Port))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	n.Log("info", "shutting down")
	return srv.Shutdown(shutdownCtx)
}
