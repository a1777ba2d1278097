/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package cache

import (
	"context"
	"fmt"
	"sort"

	"github.com/CESSProject/kvcache/common/db"
	"github.com/CESSProject/kvcache/pkg/codec"
	"github.com/CESSProject/kvcache/pkg/keys"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// resolveLimit bounds the deferred values awaited at once by SetMany.
const resolveLimit = 16

// Set stores value under key and returns the stored value. A Deferred
// value is awaited first. The overlay is written once the store accepted
// the value, under the key's write lock.
func (c *Cache) Set(ctx context.Context, key any, value any) (any, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	k, err := c.canonical(key)
	if err != nil {
		return nil, err
	}
	value, err = resolve(ctx, value)
	if err != nil {
		return nil, err
	}
	data, err := c.st.codec.Marshal(value)
	if err != nil {
		return nil, errors.Wrapf(err, "encode value of %v", key)
	}
	if value, err = c.stored(value, data); err != nil {
		return nil, errors.Wrapf(err, "key %v", key)
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	unlock := c.st.lockKeys(k)
	defer unlock()
	if err = c.st.store.Put(k, data); err != nil {
		c.st.log.Logput("err", fmt.Sprintf("put %x: %v", k, err))
		return nil, &storeError{op: "put", err: err}
	}
	c.st.overlay.Set(string(k), value)
	return value, nil
}

// SetMany writes all entries in one atomic batch. entries may be []Entry,
// [][2]any, map[string]any, *codec.Object or *codec.Map. Deferred values are
// awaited concurrently. It returns the entries as written.
func (c *Cache) SetMany(ctx context.Context, entries any) ([]Entry, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	list, err := normalize(entries)
	if err != nil {
		return nil, err
	}
	ops := make([]db.Op, len(list))
	for i, e := range list {
		k, err := c.canonical(e.Key)
		if err != nil {
			return nil, err
		}
		ops[i].Key = k
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveLimit)
	for i := range list {
		i := i
		if _, ok := list[i].Value.(Deferred); !ok {
			continue
		}
		g.Go(func() error {
			v, err := resolve(gctx, list[i].Value)
			if err != nil {
				return errors.Wrapf(err, "entry %v", list[i].Key)
			}
			list[i].Value = v
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	canon := make([][]byte, len(list))
	for i, e := range list {
		data, err := c.st.codec.Marshal(e.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "encode value of %v", e.Key)
		}
		if list[i].Value, err = c.stored(e.Value, data); err != nil {
			return nil, errors.Wrapf(err, "key %v", e.Key)
		}
		ops[i] = db.Put(ops[i].Key, data)
		canon[i] = ops[i].Key
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	unlock := c.st.lockKeys(canon...)
	defer unlock()
	if err = c.st.store.Batch(ops); err != nil {
		c.st.log.Logput("err", fmt.Sprintf("batch put (%d entries): %v", len(ops), err))
		return nil, &storeError{op: "batch put", err: err}
	}
	for i, e := range list {
		c.st.overlay.Set(string(ops[i].Key), e.Value)
	}
	return list, nil
}

func normalize(entries any) ([]Entry, error) {
	switch es := entries.(type) {
	case []Entry:
		return append([]Entry(nil), es...), nil
	case [][2]any:
		list := make([]Entry, len(es))
		for i, e := range es {
			list[i] = Entry{Key: e[0], Value: e[1]}
		}
		return list, nil
	case map[string]any:
		names := make([]string, 0, len(es))
		for k := range es {
			names = append(names, k)
		}
		sort.Strings(names)
		list := make([]Entry, len(names))
		for i, k := range names {
			list[i] = Entry{Key: k, Value: es[k]}
		}
		return list, nil
	case *codec.Object:
		list := make([]Entry, 0, es.Len())
		for _, k := range es.Keys() {
			v, _ := es.Get(k)
			list = append(list, Entry{Key: k, Value: v})
		}
		return list, nil
	case *codec.Map:
		list := make([]Entry, 0, es.Len())
		es.Range(func(k, v any) bool {
			list = append(list, Entry{Key: k, Value: v})
			return true
		})
		return list, nil
	}
	return nil, errors.Wrapf(keys.ErrInvalidKey, "entries of type %T", entries)
}

// Delete removes key. Removing an absent key succeeds.
func (c *Cache) Delete(ctx context.Context, key any) (bool, error) {
	if err := c.ready(ctx); err != nil {
		return false, err
	}
	k, err := c.canonical(key)
	if err != nil {
		return false, err
	}
	unlock := c.st.lockKeys(k)
	defer unlock()
	c.st.overlay.Delete(string(k))
	if err = c.st.store.Delete(k); err != nil {
		c.st.log.Logdel("err", fmt.Sprintf("delete %x: %v", k, err))
		return false, &storeError{op: "delete", err: err}
	}
	return true, nil
}

// DeleteMany removes all keys in one atomic batch.
func (c *Cache) DeleteMany(ctx context.Context, ks []any) (bool, error) {
	if err := c.ready(ctx); err != nil {
		return false, err
	}
	canon, err := c.canonicalAll(ks)
	if err != nil {
		return false, err
	}
	unlock := c.st.lockKeys(canon...)
	defer unlock()
	ops := make([]db.Op, len(canon))
	for i, k := range canon {
		c.st.overlay.Delete(string(k))
		ops[i] = db.Del(k)
	}
	if err = c.st.store.Batch(ops); err != nil {
		c.st.log.Logdel("err", fmt.Sprintf("batch delete (%d keys): %v", len(ops), err))
		return false, &storeError{op: "batch delete", err: err}
	}
	return true, nil
}

// Clear removes every entry of the view, nested namespaces included.
// On the root view this empties the store. The whole overlay is purged.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.ready(ctx); err != nil {
		return err
	}
	unlock := c.st.lockAll()
	defer unlock()
	c.st.overlay.Purge()
	if err := c.st.store.Clear(c.prefix); err != nil {
		c.st.log.Logdel("err", fmt.Sprintf("clear %q: %v", c.name, err))
		return &storeError{op: "clear", err: err}
	}
	c.st.log.Logdel("info", fmt.Sprintf("clear %q", c.name))
	return nil
}

// Compact compacts the store range of the view, nested namespaces included.
func (c *Cache) Compact(ctx context.Context) error {
	if err := c.ready(ctx); err != nil {
		return err
	}
	start, limit := keys.Range(c.prefix)
	limit[len(limit)-1]++
	if err := c.st.store.Compact(start, limit); err != nil {
		return &storeError{op: "compact", err: err}
	}
	c.st.log.Log("info", fmt.Sprintf("compact %q", c.name))
	return nil
}
