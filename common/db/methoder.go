/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package db

import (
	"io"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a key is absent from the store.
var ErrNotFound = errors.New("not found")

type Reader interface {
	Has(key []byte) (bool, error)

	// Get fetch the given key if it's present in the key-value data store.
	Get(key []byte) ([]byte, error)

	// GetMany fetches all keys from one consistent snapshot. A missing key
	// yields a nil slot, not an error.
	GetMany(keys [][]byte) ([][]byte, error)
}

type Writer interface {
	// Put store the given key-value in the key-value data store
	Put(key []byte, value []byte) error

	// Delete removes the key from the key-value data store.
	Delete(key []byte) error

	// Batch applies all ops atomically.
	Batch(ops []Op) error

	// Clear removes every key starting with prefix. An empty prefix wipes the store.
	Clear(prefix []byte) error
}

type Iteratee interface {
	NewIterator(opts IterOptions) Iterator
}

type Compacter interface {
	Compact(start []byte, limit []byte) error
}

type Store interface {
	Reader
	Writer
	Iteratee
	Compacter
	Stats() (Stats, error)
	Path() string
	io.Closer
}

type OpType uint8

const (
	OpPut OpType = iota
	OpDel
)

type Op struct {
	Type  OpType
	Key   []byte
	Value []byte
}

func Put(key, value []byte) Op {
	return Op{Type: OpPut, Key: key, Value: value}
}

func Del(key []byte) Op {
	return Op{Type: OpDel, Key: key}
}

// IterOptions bounds an iteration to [Start, Limit). A nil bound is open.
type IterOptions struct {
	Start   []byte
	Limit   []byte
	Reverse bool
}

// Iterator walks key/value pairs in order. Key and Value are only valid
// until the next call to Next.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Release()
}

type Stats struct {
	Entries   int
	SizeBytes int64
	Detail    string
}
