/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"net/http"

	"github.com/CESSProject/kvcache/pkg/codec"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
)

func (n *Node) batchKeys(c *gin.Context, family func(string, string)) ([]any, bool) {
	body, err := readBody(c)
	if err != nil {
		n.bodyFail(c, family, err)
		return nil, false
	}
	var req KeysReq
	if err = sonic.Unmarshal(body, &req); err != nil {
		family("err", clientIP(c)+" "+err.Error())
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidBody, nil)
		return nil, false
	}
	ks, err := parseKeys(req.Keys)
	if err != nil {
		family("err", clientIP(c)+" "+err.Error())
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidKey, nil)
		return nil, false
	}
	return ks, true
}

// BatchGetHandle returns the values of keys aligned by index, null when absent
func (n *Node) BatchGetHandle(c *gin.Context) {
	view, err := n.view(c)
	if err != nil {
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidQuery, nil)
		return
	}
	ks, ok := n.batchKeys(c, n.Logget)
	if !ok {
		return
	}
	values, err := view.GetMany(c.Request.Context(), ks)
	if err != nil {
		n.fail(c, n.Logget, err)
		return
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = render(v)
	}
	ReturnJSON(c, http.StatusOK, MSG_OK, out)
}

func (n *Node) BatchHasHandle(c *gin.Context) {
	view, err := n.view(c)
	if err != nil {
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidQuery, nil)
		return
	}
	ks, ok := n.batchKeys(c, n.Logget)
	if !ok {
		return
	}
	has, err := view.HasMany(c.Request.Context(), ks)
	if err != nil {
		n.fail(c, n.Logget, err)
		return
	}
	ReturnJSON(c, http.StatusOK, MSG_OK, has)
}

// BatchSetHandle writes every member of the JSON object body atomically
func (n *Node) BatchSetHandle(c *gin.Context) {
	view, err := n.view(c)
	if err != nil {
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidQuery, nil)
		return
	}
	body, err := readBody(c)
	if err != nil {
		n.bodyFail(c, n.Logput, err)
		return
	}
	doc, err := parseJSON(body)
	if err != nil {
		n.Logput("err", clientIP(c)+" "+err.Error())
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidBody, nil)
		return
	}
	obj, ok := doc.(*codec.Object)
	if !ok {
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidBody, nil)
		return
	}
	written, err := view.SetMany(c.Request.Context(), obj)
	if err != nil {
		n.fail(c, n.Logput, err)
		return
	}
	ks := make([]any, len(written))
	for i, e := range written {
		ks[i] = e.Key
	}
	ReturnJSON(c, http.StatusOK, MSG_OK, ks)
}

func (n *Node) BatchDelHandle(c *gin.Context) {
	view, err := n.view(c)
	if err != nil {
		ReturnJSON(c, http.StatusBadRequest, ERR_InvalidQuery, nil)
		return
	}
	ks, ok := n.batchKeys(c, n.Logdel)
	if !ok {
		return
	}
	done, err := view.DeleteMany(c.Request.Context(), ks)
	if err != nil {
		n.fail(c, n.Logdel, err)
		return
	}
	ReturnJSON(c, http.StatusOK, MSG_OK, done)
}
