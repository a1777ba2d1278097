/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package cache

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/CESSProject/kvcache/common/db"
	"github.com/CESSProject/kvcache/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore delays every write by a random amount.
type slowStore struct {
	db.Store
}

func (s *slowStore) Put(key, value []byte) error {
	time.Sleep(time.Duration(rand.Intn(300)) * time.Microsecond)
	return s.Store.Put(key, value)
}

func (s *slowStore) Delete(key []byte) error {
	time.Sleep(time.Duration(rand.Intn(300)) * time.Microsecond)
	return s.Store.Delete(key)
}

func TestCache_OverlayKeepsStoredTypes(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCache(t, WithLRUSize(1))
	// reads every value back from the store
	direct, err := OpenStore(ctx, store.Store, WithLRU(false))
	require.NoError(t, err)

	huge := uint64(1 << 63)
	now := time.Now()
	values := []any{1, int32(-7), float32(0.5), huge, now}
	for i, v := range values {
		key := fmt.Sprintf("v%d", i)
		written, err := c.Set(ctx, key, v)
		require.NoError(t, err)

		cached, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, written, cached)
		persisted, err := direct.Get(ctx, key)
		require.NoError(t, err)
		assert.IsType(t, persisted, cached, "%T", v)
		assert.Equal(t, persisted, cached, "%T", v)
	}
	assert.Equal(t, int32(0), store.gets.Load())

	// v0 was evicted; the store read has the type the overlay gave
	v, err := c.Get(ctx, "v0")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	v, err = c.Get(ctx, "v3")
	require.NoError(t, err)
	assert.IsType(t, &big.Int{}, v)

	written, err := c.SetMany(ctx, map[string]any{"m": 2})
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"m", int64(2)}}, written)

	// composites keep their identity
	arr := codec.NewArray(1)
	got, err := c.Set(ctx, "arr", arr)
	require.NoError(t, err)
	assert.Same(t, arr, got)
}

func TestCache_FailedWriteKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCache(t)
	_, err := c.Set(ctx, "k", "old")
	require.NoError(t, err)

	store.failWrite.Store(true)
	_, err = c.Set(ctx, "k", "new")
	assert.ErrorIs(t, err, ErrStoreIO)

	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "old", v)
}

func TestCache_ConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	mem, err := db.NewMemLevelDB()
	require.NoError(t, err)
	c, err := OpenStore(ctx, &slowStore{Store: mem})
	require.NoError(t, err)
	defer c.Close()
	direct, err := OpenStore(ctx, mem, WithLRU(false))
	require.NoError(t, err)

	for round := 0; round < 50; round++ {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if i%4 == 3 {
					_, err := c.Delete(ctx, "k")
					assert.NoError(t, err)
					return
				}
				_, err := c.Set(ctx, "k", int64(round*10+i))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		cached, err := c.Get(ctx, "k")
		require.NoError(t, err)
		persisted, err := direct.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, persisted, cached, "round %d", round)
	}
}

func TestCache_ScopeIsNotMemoized(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	_, err := c.Sub("ns").Set(ctx, "k", "v")
	require.NoError(t, err)

	s := c.Scope("ns")
	assert.NotSame(t, s, c.Scope("ns"))
	assert.Equal(t, "ns", s.Namespace())
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Len(t, c.subs, 1)
}
