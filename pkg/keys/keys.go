/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

// Package keys maps application keys to canonical, order-preserving bytes.
//
// A canonical key is prefix ‖ tag ‖ payload. Integers are written as 8 bytes
// big-endian with the sign bit flipped so that byte order matches numeric
// order. Strings are written verbatim. A namespace prefix is a sequence of
// segments, each tag ‖ uvarint(len) ‖ name.
package keys

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

const (
	TagInt       byte = 0x01
	TagString    byte = 0x02
	TagNamespace byte = 0x03
)

var ErrInvalidKey = errors.New("invalid key")

// Canonical returns the canonical bytes of key under prefix.
// key must be a string or an integer.
func Canonical(prefix []byte, key any) ([]byte, error) {
	var n int64
	switch k := key.(type) {
	case string:
		b := make([]byte, 0, len(prefix)+1+len(k))
		b = append(b, prefix...)
		b = append(b, TagString)
		return append(b, k...), nil
	case int:
		n = int64(k)
	case int8:
		n = int64(k)
	case int16:
		n = int64(k)
	case int32:
		n = int64(k)
	case int64:
		n = k
	case uint8:
		n = int64(k)
	case uint16:
		n = int64(k)
	case uint32:
		n = int64(k)
	case uint:
		if uint64(k) > math.MaxInt64 {
			return nil, errors.Wrapf(ErrInvalidKey, "integer %d out of range", k)
		}
		n = int64(k)
	case uint64:
		if k > math.MaxInt64 {
			return nil, errors.Wrapf(ErrInvalidKey, "integer %d out of range", k)
		}
		n = int64(k)
	default:
		return nil, errors.Wrapf(ErrInvalidKey, "type %T", key)
	}
	b := make([]byte, len(prefix)+9)
	copy(b, prefix)
	b[len(prefix)] = TagInt
	binary.BigEndian.PutUint64(b[len(prefix)+1:], uint64(n)^(1<<63))
	return b, nil
}

// Parse strips prefix from a canonical key and returns the application key.
func Parse(prefix, canonical []byte) (any, error) {
	if len(canonical) <= len(prefix) || string(canonical[:len(prefix)]) != string(prefix) {
		return nil, errors.Wrapf(ErrInvalidKey, "key %x outside namespace %x", canonical, prefix)
	}
	rest := canonical[len(prefix):]
	switch rest[0] {
	case TagString:
		return string(rest[1:]), nil
	case TagInt:
		if len(rest) != 9 {
			return nil, errors.Wrapf(ErrInvalidKey, "integer key of %d bytes", len(rest)-1)
		}
		return int64(binary.BigEndian.Uint64(rest[1:]) ^ (1 << 63)), nil
	}
	return nil, errors.Wrapf(ErrInvalidKey, "tag %#x", rest[0])
}

// Namespace appends one namespace segment to prefix.
func Namespace(prefix []byte, name string) []byte {
	b := make([]byte, 0, len(prefix)+1+binary.MaxVarintLen64+len(name))
	b = append(b, prefix...)
	b = append(b, TagNamespace)
	b = binary.AppendUvarint(b, uint64(len(name)))
	return append(b, name...)
}

// Range returns the [start, limit) bounds covering the keys that belong
// directly to prefix, excluding nested namespaces.
func Range(prefix []byte) (start, limit []byte) {
	start = append(append(make([]byte, 0, len(prefix)+1), prefix...), TagInt)
	limit = append(append(make([]byte, 0, len(prefix)+1), prefix...), TagNamespace)
	return start, limit
}
