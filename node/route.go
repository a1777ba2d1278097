/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"fmt"

	"github.com/CESSProject/kvcache/configs"
	"github.com/gin-gonic/gin"
)

func (n *Node) RegisterRoutes(server *gin.Engine) {
	server.GET("/version", n.VersionHandle)

	kvgroup := server.Group("/kv")
	statgroup := server.Group("/stat")
	if n.Access.Mode == configs.Access_Private {
		kvgroup.Use(n.authMdl)
		statgroup.Use(n.authMdl)
	}

	kvgroup.GET("", n.ListHandle)
	kvgroup.DELETE("", n.ClearHandle)

	kvgroup.GET(fmt.Sprintf("/:%s", HTTP_ParameterKey), n.GetHandle)
	kvgroup.HEAD(fmt.Sprintf("/:%s", HTTP_ParameterKey), n.HeadHandle)
	kvgroup.PUT(fmt.Sprintf("/:%s", HTTP_ParameterKey), n.PutHandle)
	kvgroup.DELETE(fmt.Sprintf("/:%s", HTTP_ParameterKey), n.DelHandle)

	batchgroup := kvgroup.Group("/batch")
	batchgroup.POST("/get", n.BatchGetHandle)
	batchgroup.POST("/has", n.BatchHasHandle)
	batchgroup.POST("/set", n.BatchSetHandle)
	batchgroup.POST("/delete", n.BatchDelHandle)

	statgroup.GET("", n.StatHandle)
}
