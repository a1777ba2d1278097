/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (n *Node) NotFoundHandler(c *gin.Context) {
	n.Loghttp("err", clientIP(c)+" "+c.Request.URL.Path+" "+ERR_RouteNotExists)
	ReturnJSON(c, http.StatusNotFound, ERR_RouteNotExists, nil)
}
