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
	"github.com/CESSProject/kvcache/common/utils"
	"github.com/CESSProject/kvcache/pkg/codec"
	"github.com/CESSProject/kvcache/pkg/keys"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Iterator walks the entries of a view lazily, decoding each value on
// demand. It must be released after use.
type Iterator struct {
	c        *Cache
	ctx      context.Context
	it       db.Iterator
	keysOnly bool
	key      any
	value    any
	err      error
	released bool
}

// Iterator returns an iterator over the view's own keys in ascending
// canonical order, or descending order on a reversed view. Entries of
// nested namespaces are not visited.
func (c *Cache) Iterator(ctx context.Context) (*Iterator, error) {
	return c.iterator(ctx, false)
}

func (c *Cache) iterator(ctx context.Context, keysOnly bool) (*Iterator, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	start, limit := keys.Range(c.prefix)
	return &Iterator{
		c:        c,
		ctx:      ctx,
		it:       c.st.store.NewIterator(db.IterOptions{Start: start, Limit: limit, Reverse: c.reverse}),
		keysOnly: keysOnly,
	}, nil
}

func (it *Iterator) Next() bool {
	if it.err != nil || it.released {
		return false
	}
	if it.err = it.ctx.Err(); it.err != nil {
		return false
	}
	if it.c.st.closed.Load() {
		it.err = ErrClosed
		return false
	}
	if !it.it.Next() {
		if err := it.it.Error(); err != nil {
			it.c.st.log.Logiter("err", fmt.Sprintf("iterate %q: %v", it.c.name, err))
			it.err = &storeError{op: "iterate", err: err}
		}
		return false
	}
	k := it.it.Key()
	if it.key, it.err = keys.Parse(it.c.prefix, k); it.err != nil {
		it.err = errors.Wrap(codec.ErrCorruptEncoding, it.err.Error())
		return false
	}
	if it.keysOnly {
		return true
	}
	if it.value, it.err = it.c.decode(k, it.it.Value()); it.err != nil {
		it.c.st.log.Logiter("err", fmt.Sprintf("iterate %q: %v", it.c.name, it.err))
		return false
	}
	return true
}

// Key returns the current key, a string or an int64.
func (it *Iterator) Key() any { return it.key }

func (it *Iterator) Value() any { return it.value }

func (it *Iterator) Entry() Entry { return Entry{Key: it.key, Value: it.value} }

// Err returns the error that stopped the iteration, if any.
func (it *Iterator) Err() error { return it.err }

func (it *Iterator) Release() {
	if !it.released {
		it.released = true
		it.it.Release()
	}
}

// Keys returns all keys of the view in iteration order.
func (c *Cache) Keys(ctx context.Context) ([]any, error) {
	it, err := c.iterator(ctx, true)
	if err != nil {
		return nil, err
	}
	defer it.Release()
	var out []any
	for it.Next() {
		out = append(out, it.Key())
	}
	return out, it.Err()
}

// Values returns all values of the view in iteration order.
func (c *Cache) Values(ctx context.Context) ([]any, error) {
	it, err := c.Iterator(ctx)
	if err != nil {
		return nil, err
	}
	defer it.Release()
	var out []any
	for it.Next() {
		out = append(out, it.Value())
	}
	return out, it.Err()
}

// Entries returns all key/value pairs of the view in iteration order.
func (c *Cache) Entries(ctx context.Context) ([]Entry, error) {
	it, err := c.Iterator(ctx)
	if err != nil {
		return nil, err
	}
	defer it.Release()
	var out []Entry
	for it.Next() {
		out = append(out, it.Entry())
	}
	return out, it.Err()
}

// slot carries one entry through a traversal. Workers only write their own slot.
type slot struct {
	Entry
	result any
	keep   bool
}

// traverse calls fn for each entry with at most concurrency calls in
// flight and returns the slots in iteration order.
func (c *Cache) traverse(ctx context.Context, concurrency int, fn func(ctx context.Context, s *slot) error) ([]*slot, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	it, err := c.Iterator(gctx)
	if err != nil {
		return nil, err
	}
	defer it.Release()
	var slots []*slot
	for it.Next() {
		s := &slot{Entry: it.Entry()}
		slots = append(slots, s)
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					c.st.log.Pnc(utils.RecoverError(p))
					err = errors.Errorf("callback panicked on key %v: %v", s.Key, p)
				}
			}()
			return fn(gctx, s)
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	if err = it.Err(); err != nil {
		return nil, err
	}
	return slots, ctx.Err()
}

// ForEach calls fn for every entry. With concurrency above 1 calls may
// overlap and complete in any order.
func (c *Cache) ForEach(ctx context.Context, fn func(ctx context.Context, key, value any) error, concurrency int) error {
	_, err := c.traverse(ctx, concurrency, func(ctx context.Context, s *slot) error {
		return fn(ctx, s.Key, s.Value)
	})
	return err
}

// Map returns fn applied to every entry, paired with its key, in
// iteration order regardless of concurrency.
func (c *Cache) Map(ctx context.Context, fn func(ctx context.Context, key, value any) (any, error), concurrency int) ([]Entry, error) {
	slots, err := c.traverse(ctx, concurrency, func(ctx context.Context, s *slot) (err error) {
		s.result, err = fn(ctx, s.Key, s.Value)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(slots))
	for i, s := range slots {
		out[i] = Entry{Key: s.Key, Value: s.result}
	}
	return out, nil
}

// Filter returns the entries for which fn reports true, in iteration order.
func (c *Cache) Filter(ctx context.Context, fn func(ctx context.Context, key, value any) (bool, error), concurrency int) ([]Entry, error) {
	slots, err := c.traverse(ctx, concurrency, func(ctx context.Context, s *slot) (err error) {
		s.keep, err = fn(ctx, s.Key, s.Value)
		return err
	})
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, s := range slots {
		if s.keep {
			out = append(out, s.Entry)
		}
	}
	return out, nil
}

// Reduce folds fn over the entries in iteration order. When initial is
// codec.Undefined the first value seeds the accumulator and fn starts at
// the second entry. Each step depends on the previous one, so the fold is
// sequential; concurrency is accepted for symmetry with Map.
func (c *Cache) Reduce(ctx context.Context, fn func(ctx context.Context, acc, key, value any) (any, error), initial any, concurrency int) (any, error) {
	it, err := c.Iterator(ctx)
	if err != nil {
		return nil, err
	}
	defer it.Release()
	acc := initial
	first := codec.IsUndefined(initial)
	for it.Next() {
		if first {
			acc, first = it.Value(), false
			continue
		}
		if acc, err = c.step(ctx, fn, acc, it.Entry()); err != nil {
			return nil, err
		}
	}
	if err = it.Err(); err != nil {
		return nil, err
	}
	return acc, nil
}

func (c *Cache) step(ctx context.Context, fn func(ctx context.Context, acc, key, value any) (any, error), acc any, e Entry) (res any, err error) {
	defer func() {
		if p := recover(); p != nil {
			c.st.log.Pnc(utils.RecoverError(p))
			err = errors.Errorf("callback panicked on key %v: %v", e.Key, p)
		}
	}()
	return fn(ctx, acc, e.Key, e.Value)
}
