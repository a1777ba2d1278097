/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"net/http"

	"github.com/CESSProject/kvcache/configs"
	"github.com/CESSProject/kvcache/pkg/codec"
	"github.com/gin-gonic/gin"
)

type entryResp struct {
	Key   any `json:"key"`
	Value any `json:"value"`
}

func (n *Node) VersionHandle(c *gin.Context) {
	ReturnJSON(c, http.StatusOK, MSG_OK, configs.Version)
}

// GetHandle returns the value under :key
func (n *Node) GetHandle(c *gin.Context) {
	view, err := n.view(c)
	if err != nil {
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidQuery, nil)
		return
	}
	key, err := pathKey(c)
	if err != nil {
		n.fail(c, n.Logget, err)
		return
	}
	v, err := view.Get(c.Request.Context(), key)
	if err != nil {
		n.fail(c, n.Logget, err)
		return
	}
	if codec.IsUndefined(v) {
		ReturnJSON(c, http.StatusNotFound, ERR_NotFound, nil)
		return
	}
	ReturnJSON(c, http.StatusOK, MSG_OK, render(v))
}

// HeadHandle answers with the bare status, 200 when :key exists.
func (n *Node) HeadHandle(c *gin.Context) {
	view, err := n.view(c)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	key, err := pathKey(c)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	ok, err := view.Has(c.Request.Context(), key)
	if err != nil {
		code, _ := errCode(err)
		n.Logget("err", clientIP(c)+" "+err.Error())
		c.Status(code)
		return
	}
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

// PutHandle stores the JSON body under :key
func (n *Node) PutHandle(c *gin.Context) {
	view, err := n.view(c)
	if err != nil {
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidQuery, nil)
		return
	}
	key, err := pathKey(c)
	if err != nil {
		n.fail(c, n.Logput, err)
		return
	}
	body, err := readBody(c)
	if err != nil {
		n.bodyFail(c, n.Logput, err)
		return
	}
	value, err := parseJSON(body)
	if err != nil {
		n.Logput("err", clientIP(c)+" "+err.Error())
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidBody, nil)
		return
	}
	v, err := view.Set(c.Request.Context(), key, value)
	if err != nil {
		n.fail(c, n.Logput, err)
		return
	}
	ReturnJSON(c, http.StatusOK, MSG_OK, render(v))
}

// DelHandle removes :key, succeeding whether or not it existed
func (n *Node) DelHandle(c *gin.Context) {
	view, err := n.view(c)
	if err != nil {
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidQuery, nil)
		return
	}
	key, err := pathKey(c)
	if err != nil {
		n.fail(c, n.Logdel, err)
		return
	}
	ok, err := view.Delete(c.Request.Context(), key)
	if err != nil {
		n.fail(c, n.Logdel, err)
		return
	}
	ReturnJSON(c, http.StatusOK, MSG_OK, ok)
}

// ListHandle returns the entries of the view in order
func (n *Node) ListHandle(c *gin.Context) {
	view, err := n.view(c)
	if err != nil {
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidQuery, nil)
		return
	}
	entries, err := view.Entries(c.Request.Context())
	if err != nil {
		n.fail(c, n.Logiter, err)
		return
	}
	out := make([]entryResp, len(entries))
	for i, e := range entries {
		out[i] = entryResp{Key: e.Key, Value: render(e.Value)}
	}
	ReturnJSON(c, http.StatusOK, MSG_OK, out)
}

// ClearHandle removes every entry of the view
func (n *Node) ClearHandle(c *gin.Context) {
	view, err := n.view(c)
	if err != nil {
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidQuery, nil)
		return
	}
	if err = view.Clear(c.Request.Context()); err != nil {
		n.fail(c, n.Logdel, err)
		return
	}
	n.Logdel("info", clientIP(c)+" clear "+view.Namespace())
	ReturnJSON(c, http.StatusOK, MSG_OK, nil)
}
