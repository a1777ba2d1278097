/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package db

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	// minCache is the minimum amount of memory in megabytes to allocate to leveldb
	minCache = 16

	// minHandles is the minimum number of files handles to allocate to the open
	// database files.
	minHandles = 16

	// clearChunk is the number of deletions written per batch by Clear.
	clearChunk = 1000
)

type LevelDB struct {
	fn string
	db *leveldb.DB
}

var _ Store = (*LevelDB)(nil)

// Options tunes the underlying engine. Zero values fall back to the minimums.
type Options struct {
	CacheMiB       int
	Handles        int
	WriteBufferMiB int
}

// NewLevelDB opens or creates the store at file, recovering it if the
// manifest is corrupted.
func NewLevelDB(file string, o Options) (*LevelDB, error) {
	if _, err := os.Stat(file); err != nil {
		if err = os.MkdirAll(file, 0755); err != nil {
			return nil, errors.Wrap(err, "create db dir")
		}
	}
	options := configureOptions(o)
	db, err := leveldb.OpenFile(file, options)
	if _, corrupted := err.(*lerrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", file)
	}
	return &LevelDB{fn: file, db: db}, nil
}

// NewMemLevelDB opens a store held entirely in memory.
func NewMemLevelDB() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), configureOptions(Options{}))
	if err != nil {
		return nil, errors.Wrap(err, "open memory db")
	}
	return &LevelDB{db: db}, nil
}

func configureOptions(o Options) *opt.Options {
	// Set default options
	options := &opt.Options{
		Filter:                 filter.NewBloomFilter(10),
		DisableSeeksCompaction: true,
		// values are compressed by the codec when enabled
		Compression: opt.NoCompression,
	}
	cache, handles := o.CacheMiB, o.Handles
	if cache < minCache {
		cache = minCache
	}
	if handles < minHandles {
		handles = minHandles
	}
	options.OpenFilesCacheCapacity = handles
	options.BlockCacheCapacity = cache / 2 * opt.MiB
	options.WriteBuffer = cache / 4 * opt.MiB // Two of these are used internally
	if o.WriteBufferMiB > 0 {
		options.WriteBuffer = o.WriteBufferMiB * opt.MiB
	}
	return options
}

func (db *LevelDB) Path() string {
	return db.fn
}

func (db *LevelDB) Close() error {
	return db.db.Close()
}

func (db *LevelDB) Has(key []byte) (bool, error) {
	return db.db.Has(key, nil)
}

func (db *LevelDB) Get(key []byte) ([]byte, error) {
	dat, err := db.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return dat, nil
}

func (db *LevelDB) GetMany(keys [][]byte) ([][]byte, error) {
	snap, err := db.db.GetSnapshot()
	if err != nil {
		return nil, err
	}
	defer snap.Release()
	values := make([][]byte, len(keys))
	for i, k := range keys {
		v, err := snap.Get(k, nil)
		if err != nil {
			if errors.Is(err, leveldb.ErrNotFound) {
				continue
			}
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (db *LevelDB) Put(key []byte, value []byte) error {
	return db.db.Put(key, value, nil)
}

func (db *LevelDB) Delete(key []byte) error {
	return db.db.Delete(key, nil)
}

func (db *LevelDB) Batch(ops []Op) error {
	b := new(leveldb.Batch)
	for _, op := range ops {
		switch op.Type {
		case OpPut:
			b.Put(op.Key, op.Value)
		case OpDel:
			b.Delete(op.Key)
		default:
			return errors.Errorf("unknown batch op %d", op.Type)
		}
	}
	return db.db.Write(b, nil)
}

func (db *LevelDB) Clear(prefix []byte) error {
	it := db.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()
	b := new(leveldb.Batch)
	for it.Next() {
		b.Delete(it.Key())
		if b.Len() >= clearChunk {
			if err := db.db.Write(b, nil); err != nil {
				return err
			}
			b.Reset()
		}
	}
	if err := it.Error(); err != nil {
		return err
	}
	if b.Len() == 0 {
		return nil
	}
	return db.db.Write(b, nil)
}

func (db *LevelDB) Compact(start []byte, limit []byte) error {
	return db.db.CompactRange(util.Range{Start: start, Limit: limit})
}

func (db *LevelDB) Stats() (Stats, error) {
	var st Stats
	it := db.db.NewIterator(nil, nil)
	for it.Next() {
		st.Entries++
	}
	it.Release()
	if err := it.Error(); err != nil {
		return st, err
	}
	detail, err := db.db.GetProperty("leveldb.stats")
	if err != nil {
		return st, err
	}
	st.Detail = detail
	if db.fn != "" {
		_ = filepath.Walk(db.fn, func(_ string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				st.SizeBytes += info.Size()
			}
			return nil
		})
	}
	return st, nil
}

func (db *LevelDB) NewIterator(opts IterOptions) Iterator {
	var r *util.Range
	if opts.Start != nil || opts.Limit != nil {
		r = &util.Range{Start: opts.Start, Limit: opts.Limit}
	}
	return &levelIterator{it: db.db.NewIterator(r, nil), reverse: opts.Reverse}
}

type levelIterator struct {
	it      iterator.Iterator
	reverse bool
	started bool
}

func (l *levelIterator) Next() bool {
	if !l.reverse {
		return l.it.Next()
	}
	if !l.started {
		l.started = true
		return l.it.Last()
	}
	return l.it.Prev()
}

func (l *levelIterator) Key() []byte   { return l.it.Key() }
func (l *levelIterator) Value() []byte { return l.it.Value() }
func (l *levelIterator) Error() error  { return l.it.Error() }
func (l *levelIterator) Release()      { l.it.Release() }
