/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

// Package cache is a persistent key-value cache with a collection-style API.
//
// Values are encoded with package codec and stored in an ordered leveldb
// store under canonical keys from package keys. Recently written values are
// kept decoded in a bounded LRU overlay. A Cache is safe for concurrent use;
// its reverse and sub-namespace views share the store, codec and overlay.
package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/CESSProject/kvcache/common/db"
	"github.com/CESSProject/kvcache/common/logger"
	"github.com/CESSProject/kvcache/common/lru"
	"github.com/CESSProject/kvcache/pkg/codec"
	"github.com/CESSProject/kvcache/pkg/keys"
	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// keyStripes is the number of locks serializing writers per canonical key.
const keyStripes = 256

var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("cache closed")
	// ErrStoreIO marks a failure reported by the underlying store.
	ErrStoreIO = errors.New("store io")
)

type storeError struct {
	op  string
	err error
}

func (e *storeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStoreIO, e.op, e.err)
}

func (e *storeError) Unwrap() error { return e.err }

func (e *storeError) Is(target error) bool { return target == ErrStoreIO }

// Entry is one key/value pair. Keys read back from the store are
// string or int64.
type Entry struct {
	Key   any
	Value any
}

type Stats struct {
	Entries     int
	SizeBytes   int64
	Overlay     int
	OverlayCap  int
	Compressed  bool
	StoreDetail string
}

// state is shared by a cache and all of its views.
type state struct {
	store   db.Store
	codec   *codec.Codec
	overlay *lru.LRUCache
	log     logger.Logger
	closed  atomic.Bool
	once    sync.Once
	stripes [keyStripes]sync.Mutex
}

// lockKeys holds the write locks of ks until the returned func is called.
// Stripes are taken in ascending order so overlapping batches cannot deadlock.
func (s *state) lockKeys(ks ...[]byte) func() {
	idx := make([]int, 0, len(ks))
	seen := make(map[uint64]bool, len(ks))
	for _, k := range ks {
		i := xxhash.Sum64(k) % keyStripes
		if !seen[i] {
			seen[i] = true
			idx = append(idx, int(i))
		}
	}
	sort.Ints(idx)
	for _, i := range idx {
		s.stripes[i].Lock()
	}
	return func() {
		for j := len(idx) - 1; j >= 0; j-- {
			s.stripes[idx[j]].Unlock()
		}
	}
}

func (s *state) lockAll() func() {
	for i := range s.stripes {
		s.stripes[i].Lock()
	}
	return func() {
		for i := len(s.stripes) - 1; i >= 0; i-- {
			s.stripes[i].Unlock()
		}
	}
}

type Cache struct {
	st      *state
	prefix  []byte
	name    string
	reverse bool

	mu   sync.Mutex
	rev  *Cache
	subs map[string]*Cache
}

type options struct {
	lru      bool
	lruSize  int
	compress bool
	types    []codec.Type
	fallback func(code uint32, args []any) (any, error)
	entries  any
	log      logger.Logger
	dbOpts   db.Options
}

type Option func(*options)

// WithLRU turns the overlay on or off. It is on by default.
func WithLRU(enabled bool) Option {
	return func(o *options) { o.lru = enabled }
}

// WithLRUSize sets the overlay capacity in entries. Default 1024.
func WithLRUSize(n int) Option {
	return func(o *options) { o.lruSize = n }
}

// WithCompression toggles snappy compression of stored values. Default on.
func WithCompression(enabled bool) Option {
	return func(o *options) { o.compress = enabled }
}

// WithTypes registers custom extended types with the codec.
func WithTypes(types ...codec.Type) Option {
	return func(o *options) { o.types = append(o.types, types...) }
}

// WithUnknownTypes sets the decoder fallback for unregistered type codes.
func WithUnknownTypes(fallback func(code uint32, args []any) (any, error)) Option {
	return func(o *options) { o.fallback = fallback }
}

// WithEntries writes the given entries with SetMany once the store is open.
// Any shape accepted by SetMany is allowed.
func WithEntries(entries any) Option {
	return func(o *options) { o.entries = entries }
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithDBOptions(dbOpts db.Options) Option {
	return func(o *options) { o.dbOpts = dbOpts }
}

func defaultOptions() *options {
	return &options{
		lru:      true,
		lruSize:  1024,
		compress: true,
	}
}

// Open opens or creates the cache stored at path.
func Open(ctx context.Context, path string, opts ...Option) (*Cache, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	store, err := db.NewLevelDB(path, o.dbOpts)
	if err != nil {
		return nil, &storeError{op: "open", err: err}
	}
	c, err := newCache(ctx, store, o)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

// OpenStore builds a cache over an already opened store. The cache takes
// ownership of store and closes it on Close.
func OpenStore(ctx context.Context, store db.Store, opts ...Option) (*Cache, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newCache(ctx, store, o)
}

func newCache(ctx context.Context, store db.Store, o *options) (*Cache, error) {
	reg, err := codec.NewRegistry(o.types...)
	if err != nil {
		return nil, err
	}
	reg.Fallback = o.fallback
	if o.log == nil {
		o.log = logger.NewNop()
	}
	size := o.lruSize
	if !o.lru {
		size = 0
	}
	c := &Cache{
		st: &state{
			store:   store,
			codec:   codec.New(reg, o.compress),
			overlay: lru.NewLRUCache(size),
			log:     o.log,
		},
	}
	c.st.log.Log("info", fmt.Sprintf("open %s lru=%d compression=%v", store.Path(), size, o.compress))
	if o.entries != nil {
		if _, err = c.SetMany(ctx, o.entries); err != nil {
			return nil, errors.Wrap(err, "initial entries")
		}
	}
	return c, nil
}

func (c *Cache) ready(ctx context.Context) error {
	if c.st.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

// Reverse returns the view of the same data in descending key order.
// The view is created once; Reverse on it returns c.
func (c *Cache) Reverse() *Cache {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rev == nil {
		c.rev = &Cache{
			st:      c.st,
			prefix:  c.prefix,
			name:    c.name,
			reverse: !c.reverse,
			rev:     c,
		}
	}
	return c.rev
}

// Sub returns the namespace view name nested under c. Keys in a namespace
// never collide with keys of its parent or siblings. Views are memoized and
// keep c's iteration direction.
func (c *Cache) Sub(name string) *Cache {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.subs[name]; ok {
		return s
	}
	if c.subs == nil {
		c.subs = make(map[string]*Cache)
	}
	s := c.Scope(name)
	c.subs[name] = s
	return s
}

// Scope returns the same namespace view as Sub without memoizing it, for
// names taken from untrusted input.
func (c *Cache) Scope(name string) *Cache {
	full := name
	if c.name != "" {
		full = c.name + "/" + name
	}
	return &Cache{
		st:      c.st,
		prefix:  keys.Namespace(c.prefix, name),
		name:    full,
		reverse: c.reverse,
	}
}

// Namespace is the slash-joined path of the view, empty at the root.
func (c *Cache) Namespace() string {
	return c.name
}

func (c *Cache) Reversed() bool {
	return c.reverse
}

func (c *Cache) Compressed() bool {
	return c.st.codec.Compressed()
}

func (c *Cache) Path() string {
	return c.st.store.Path()
}

// Close closes the shared store. It is safe to call more than once and
// from any view.
func (c *Cache) Close() error {
	var err error
	c.st.once.Do(func() {
		c.st.closed.Store(true)
		c.st.overlay.Purge()
		if err = c.st.store.Close(); err != nil {
			err = &storeError{op: "close", err: err}
		}
		c.st.log.Log("info", fmt.Sprintf("close %s", c.st.store.Path()))
	})
	return err
}

func (c *Cache) Stats() (Stats, error) {
	if c.st.closed.Load() {
		return Stats{}, ErrClosed
	}
	s, err := c.st.store.Stats()
	if err != nil {
		return Stats{}, &storeError{op: "stats", err: err}
	}
	return Stats{
		Entries:     s.Entries,
		SizeBytes:   s.SizeBytes,
		Overlay:     c.st.overlay.Len(),
		OverlayCap:  c.st.overlay.Capacity(),
		Compressed:  c.Compressed(),
		StoreDetail: s.Detail,
	}, nil
}

func (c *Cache) canonical(key any) ([]byte, error) {
	return keys.Canonical(c.prefix, key)
}

func (c *Cache) canonicalAll(ks []any) ([][]byte, error) {
	out := make([][]byte, len(ks))
	for i, k := range ks {
		b, err := c.canonical(k)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// stored returns the value a later read of data yields. Composite nodes keep
// their identity; primitives and extended values are replaced by their
// decoded form so overlay hits and store reads return the same types.
func (c *Cache) stored(v any, data []byte) (any, error) {
	switch v.(type) {
	case *codec.Array, *codec.Object, *codec.Map, *codec.Set, *codec.Boxed, *codec.Buffer:
		return v, nil
	}
	out, err := c.st.codec.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode stored value")
	}
	return out, nil
}

func (c *Cache) decode(canonical, data []byte) (any, error) {
	v, err := c.st.codec.Unmarshal(data)
	if err != nil {
		c.st.log.Logget("err", fmt.Sprintf("decode %x: %v", canonical, err))
		return nil, errors.Wrapf(err, "key %x", canonical)
	}
	return v, nil
}
