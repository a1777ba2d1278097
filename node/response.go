/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
)

type RespType struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// ReturnJSON always answers with HTTP 200 and carries the outcome in code.
func ReturnJSON(c *gin.Context, code int, msg string, data any) {
	body, err := sonic.Marshal(RespType{
		Code: code,
		Msg:  msg,
		Data: data,
	})
	if err != nil {
		body, _ = sonic.Marshal(RespType{Code: http.StatusInternalServerError, Msg: ERR_SystemErr})
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func abortJSON(c *gin.Context, code int, msg string) {
	ReturnJSON(c, code, msg, nil)
	c.Abort()
}
