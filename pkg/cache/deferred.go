/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package cache

import (
	"context"

	"github.com/CESSProject/kvcache/common/utils"
	"github.com/pkg/errors"
)

// Deferred is a value computed asynchronously. Set and SetMany await a
// Deferred passed as the top-level value and store its result. A Deferred
// nested inside a container is not awaited.
type Deferred interface {
	Await(ctx context.Context) (any, error)
}

// Future is a Deferred backed by a goroutine.
type Future struct {
	done chan struct{}
	val  any
	err  error
}

var _ Deferred = (*Future)(nil)

// Go runs fn in a new goroutine and returns its Future. A panic in fn is
// reported as the Future's error.
func Go(fn func() (any, error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if err := recover(); err != nil {
				f.err = errors.Errorf("deferred value panicked: %s", utils.RecoverError(err))
			}
		}()
		f.val, f.err = fn()
	}()
	return f
}

// Resolved returns a Future already holding v.
func Resolved(v any) *Future {
	f := &Future{done: make(chan struct{}), val: v}
	close(f.done)
	return f
}

func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func resolve(ctx context.Context, v any) (any, error) {
	d, ok := v.(Deferred)
	if !ok {
		return v, nil
	}
	r, err := d.Await(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "resolve deferred value")
	}
	return r, nil
}
