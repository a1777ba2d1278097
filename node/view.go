/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/CESSProject/kvcache/pkg/cache"
	"github.com/CESSProject/kvcache/pkg/codec"
	"github.com/CESSProject/kvcache/pkg/keys"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

var errBodyTooLarge = errors.Errorf("request body exceeds %d bytes", MaxBodySize)

// view resolves the ?ns=a/b and ?reverse=true query to a cache view.
// Namespace views are built per request and not memoized.
func (n *Node) view(c *gin.Context) (*cache.Cache, error) {
	v := n.cache
	for _, seg := range strings.Split(c.Query(HTTP_QueryNamespace), HTTP_NamespaceSeparator) {
		if seg != "" {
			v = v.Scope(seg)
		}
	}
	if r := c.Query(HTTP_QueryReverse); r != "" {
		reverse, err := strconv.ParseBool(r)
		if err != nil {
			return nil, errors.Wrap(err, HTTP_QueryReverse)
		}
		if reverse {
			v = v.Reverse()
		}
	}
	return v, nil
}

// pathKey reads the :key parameter, as an integer when ?int=1.
func pathKey(c *gin.Context) (any, error) {
	key := c.Param(HTTP_ParameterKey)
	asInt, _ := strconv.ParseBool(c.Query(HTTP_QueryInt))
	if !asInt {
		return key, nil
	}
	i, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(keys.ErrInvalidKey, "integer key %q", key)
	}
	return i, nil
}

// readBody reads the whole body, failing when it is larger than MaxBodySize.
func readBody(c *gin.Context) ([]byte, error) {
	defer c.Request.Body.Close()
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxBodySize {
		return nil, errBodyTooLarge
	}
	return body, nil
}

func (n *Node) bodyFail(c *gin.Context, family func(string, string), err error) {
	family("err", clientIP(c)+" "+err.Error())
	if errors.Is(err, errBodyTooLarge) {
		ReturnJSON(c, http.StatusRequestEntityTooLarge, ERR_BodyTooLarge, nil)
		return
	}
	ReturnJSON(c, http.StatusBadRequest, ERR_InvalidBody, nil)
}

// errCode maps a cache error to a response code and message.
func errCode(err error) (int, string) {
	switch {
	case errors.Is(err, keys.ErrInvalidKey):
		return http.StatusBadRequest, ERR_InvalidKey
	case errors.Is(err, codec.ErrUnsupportedType):
		return http.StatusBadRequest, ERR_InvalidBody
	case errors.Is(err, codec.ErrCorruptEncoding), errors.Is(err, codec.ErrUnknownType):
		return http.StatusInternalServerError, ERR_CorruptValue
	case errors.Is(err, cache.ErrClosed), errors.Is(err, cache.ErrStoreIO):
		return http.StatusServiceUnavailable, ERR_StoreUnavail
	}
	return http.StatusInternalServerError, ERR_SystemErr
}

func (n *Node) fail(c *gin.Context, family func(string, string), err error) {
	code, msg := errCode(err)
	family("err", clientIP(c)+" "+c.Request.URL.RequestURI()+" "+err.Error())
	ReturnJSON(c, code, msg, nil)
}
