/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"fmt"
	"net/http"
	"time"

	"github.com/CESSProject/kvcache/common/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func clientIP(c *gin.Context) string {
	clientIp := c.Request.Header.Get(HTTPHeader_X_Forwarded_For)
	if clientIp == "" {
		clientIp = c.ClientIP()
	}
	return clientIp
}

func (n *Node) recoverMdl(c *gin.Context) {
	defer func() {
		if err := recover(); err != nil {
			n.Pnc(utils.RecoverError(err))
			abortJSON(c, http.StatusInternalServerError, ERR_SystemErr)
		}
	}()
	c.Next()
}

// requestMdl tags each request with an id and writes the access log.
func (n *Node) requestMdl(c *gin.Context) {
	id := c.Request.Header.Get(HTTPHeader_RequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(HTTP_ContextRequestID, id)
	c.Header(HTTPHeader_RequestID, id)
	start := time.Now()
	c.Next()
	n.Loghttp("info", utils.StringBuilder(200,
		clientIP(c),
		id,
		c.Request.Method,
		c.Request.URL.RequestURI(),
		fmt.Sprintf("%d", c.Writer.Status()),
		time.Since(start).String(),
	))
}

func (n *Node) limitMdl(c *gin.Context) {
	if !n.Allow() {
		abortJSON(c, http.StatusTooManyRequests, ERR_ServerBusy)
		return
	}
	c.Next()
}

// authMdl requires a valid bearer token.
func (n *Node) authMdl(c *gin.Context) {
	subject, err := verifyToken(n.Access.Secret, c.Request.Header.Get(HTTPHeader_Authorization))
	if err != nil {
		n.Loghttp("err", clientIP(c)+" "+err.Error())
		abortJSON(c, http.StatusForbidden, ERR_NoPermission)
		return
	}
	c.Set(HTTP_ContextSubject, subject)
	c.Next()
}
