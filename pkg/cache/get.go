/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package cache

import (
	"context"
	"fmt"

	"github.com/CESSProject/kvcache/common/db"
	"github.com/CESSProject/kvcache/pkg/codec"
	"github.com/pkg/errors"
)

// Get returns the value stored under key, or codec.Undefined when absent.
func (c *Cache) Get(ctx context.Context, key any) (any, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	k, err := c.canonical(key)
	if err != nil {
		return nil, err
	}
	if v, ok := c.st.overlay.Get(string(k)); ok {
		return v, nil
	}
	data, err := c.st.store.Get(k)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return codec.Undefined, nil
		}
		c.st.log.Logget("err", fmt.Sprintf("get %x: %v", k, err))
		return nil, &storeError{op: "get", err: err}
	}
	return c.decode(k, data)
}

// GetMany returns one value per key, aligned by index. Absent keys yield
// codec.Undefined. Keys not held by the overlay are fetched with a single
// store round trip.
func (c *Cache) GetMany(ctx context.Context, ks []any) ([]any, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	canon, err := c.canonicalAll(ks)
	if err != nil {
		return nil, err
	}
	result := make([]any, len(ks))
	var (
		missIdx  []int
		missKeys [][]byte
	)
	for i, k := range canon {
		if v, ok := c.st.overlay.Get(string(k)); ok {
			result[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missKeys = append(missKeys, k)
	}
	if len(missKeys) == 0 {
		return result, nil
	}
	values, err := c.st.store.GetMany(missKeys)
	if err != nil {
		c.st.log.Logget("err", fmt.Sprintf("get many (%d keys): %v", len(missKeys), err))
		return nil, &storeError{op: "get many", err: err}
	}
	for j, data := range values {
		i := missIdx[j]
		if data == nil {
			result[i] = codec.Undefined
			continue
		}
		if result[i], err = c.decode(missKeys[j], data); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Has reports whether key is present.
func (c *Cache) Has(ctx context.Context, key any) (bool, error) {
	if err := c.ready(ctx); err != nil {
		return false, err
	}
	k, err := c.canonical(key)
	if err != nil {
		return false, err
	}
	if c.st.overlay.Has(string(k)) {
		return true, nil
	}
	ok, err := c.st.store.Has(k)
	if err != nil {
		c.st.log.Logget("err", fmt.Sprintf("has %x: %v", k, err))
		return false, &storeError{op: "has", err: err}
	}
	return ok, nil
}

// HasMany reports presence per key, aligned by index.
func (c *Cache) HasMany(ctx context.Context, ks []any) ([]bool, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	canon, err := c.canonicalAll(ks)
	if err != nil {
		return nil, err
	}
	result := make([]bool, len(ks))
	var (
		missIdx  []int
		missKeys [][]byte
	)
	for i, k := range canon {
		if c.st.overlay.Has(string(k)) {
			result[i] = true
			continue
		}
		missIdx = append(missIdx, i)
		missKeys = append(missKeys, k)
	}
	if len(missKeys) == 0 {
		return result, nil
	}
	values, err := c.st.store.GetMany(missKeys)
	if err != nil {
		c.st.log.Logget("err", fmt.Sprintf("has many (%d keys): %v", len(missKeys), err))
		return nil, &storeError{op: "has many", err: err}
	}
	for j, data := range values {
		result[missIdx[j]] = data != nil
	}
	return result, nil
}
