/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package codec

import (
	"encoding/binary"
	"math"
	"math/big"
	"reflect"

	"github.com/pkg/errors"
)

// format version written as the first byte of every stream
const version byte = 1

// MaxDepth bounds the nesting of composite and extended nodes accepted by
// Encode and Decode.
const MaxDepth = 10000

// node tags
const (
	tagNull byte = iota
	tagUndefined
	tagFalse
	tagTrue
	tagInt
	tagFloat
	tagString
	tagBigInt
	tagRef
	tagBoxed
	tagBuffer
	tagArray
	tagObject
	tagMap
	tagSet
	tagExt
)

type encoder struct {
	reg   *Registry
	buf   []byte
	ids   map[any]uint64
	next  uint64
	depth int
}

// Encode serializes a value graph. Composite nodes are numbered in
// pre-order; a node met again is written as a back-reference.
func Encode(reg *Registry, v any) ([]byte, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	e := &encoder{
		reg: reg,
		buf: make([]byte, 0, 64),
		ids: make(map[any]uint64),
	}
	e.buf = append(e.buf, version)
	if err := e.encode(v); err != nil {
		return nil, err
	}
	return e.buf, nil
}

func (e *encoder) uvarint(n uint64) {
	e.buf = binary.AppendUvarint(e.buf, n)
}

func (e *encoder) str(s string) {
	e.uvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// visit assigns the next id to a composite node. It returns false and
// writes a back-reference if the node was seen before.
func (e *encoder) visit(v any) bool {
	if id, ok := e.ids[v]; ok {
		e.buf = append(e.buf, tagRef)
		e.uvarint(id)
		return false
	}
	e.ids[v] = e.next
	e.next++
	return true
}

func (e *encoder) primitive(v any) (bool, error) {
	switch x := v.(type) {
	case nil:
		e.buf = append(e.buf, tagNull)
	case undefined:
		e.buf = append(e.buf, tagUndefined)
	case bool:
		if x {
			e.buf = append(e.buf, tagTrue)
		} else {
			e.buf = append(e.buf, tagFalse)
		}
	case int:
		e.integer(int64(x))
	case int8:
		e.integer(int64(x))
	case int16:
		e.integer(int64(x))
	case int32:
		e.integer(int64(x))
	case int64:
		e.integer(x)
	case uint8:
		e.integer(int64(x))
	case uint16:
		e.integer(int64(x))
	case uint32:
		e.integer(int64(x))
	case uint:
		e.unsigned(uint64(x))
	case uint64:
		e.unsigned(x)
	case float32:
		e.float(float64(x))
	case float64:
		e.float(x)
	case string:
		e.buf = append(e.buf, tagString)
		e.str(x)
	case *big.Int:
		e.bigint(x)
	default:
		return false, nil
	}
	return true, nil
}

func (e *encoder) integer(n int64) {
	e.buf = append(e.buf, tagInt)
	e.buf = binary.AppendVarint(e.buf, n)
}

func (e *encoder) unsigned(n uint64) {
	if n <= math.MaxInt64 {
		e.integer(int64(n))
		return
	}
	e.bigint(new(big.Int).SetUint64(n))
}

func (e *encoder) float(f float64) {
	e.buf = append(e.buf, tagFloat)
	e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(f))
}

func (e *encoder) bigint(x *big.Int) {
	e.buf = append(e.buf, tagBigInt)
	if x.Sign() < 0 {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
	mag := x.Bytes()
	e.uvarint(uint64(len(mag)))
	e.buf = append(e.buf, mag...)
}

func (e *encoder) encode(v any) error {
	ok, err := e.primitive(v)
	if ok || err != nil {
		return err
	}
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > MaxDepth {
		return errors.Wrapf(ErrUnsupportedType, "nesting deeper than %d", MaxDepth)
	}

	switch x := v.(type) {
	case *Boxed:
		if !e.visit(x) {
			return nil
		}
		e.buf = append(e.buf, tagBoxed)
		switch x.Value.(type) {
		case bool, string, int, int8, int16, int32, int64, uint8, uint16, uint32, float32, float64:
		default:
			return errors.Wrapf(ErrUnsupportedType, "boxed %T", x.Value)
		}
		_, err = e.primitive(x.Value)
		return err

	case *Buffer:
		if !e.visit(x) {
			return nil
		}
		if !x.Kind.valid() || len(x.Data)%x.Kind.Width() != 0 {
			return errors.Wrapf(ErrUnsupportedType, "buffer kind %d with %d bytes", x.Kind, len(x.Data))
		}
		e.buf = append(e.buf, tagBuffer, byte(x.Kind))
		e.uvarint(uint64(len(x.Data)))
		e.buf = append(e.buf, x.Data...)
		return nil

	case *Array:
		if !e.visit(x) {
			return nil
		}
		e.buf = append(e.buf, tagArray)
		e.uvarint(uint64(len(x.Items)))
		for _, item := range x.Items {
			if err = e.encode(item); err != nil {
				return err
			}
		}
		return nil

	case *Object:
		if !e.visit(x) {
			return nil
		}
		e.buf = append(e.buf, tagObject)
		if x.NullProto {
			e.buf = append(e.buf, 1)
		} else {
			e.buf = append(e.buf, 0)
		}
		e.uvarint(uint64(len(x.keys)))
		for _, k := range x.keys {
			e.str(k)
			if err = e.encode(x.values[k]); err != nil {
				return err
			}
		}
		return nil

	case *Map:
		if !e.visit(x) {
			return nil
		}
		e.buf = append(e.buf, tagMap)
		e.uvarint(uint64(len(x.keys)))
		for i := range x.keys {
			if err = e.encode(x.keys[i]); err != nil {
				return err
			}
			if err = e.encode(x.values[i]); err != nil {
				return err
			}
		}
		return nil

	case *Set:
		if !e.visit(x) {
			return nil
		}
		e.buf = append(e.buf, tagSet)
		e.uvarint(uint64(len(x.items)))
		for _, item := range x.items {
			if err = e.encode(item); err != nil {
				return err
			}
		}
		return nil

	case *Extension:
		if !e.visit(x) {
			return nil
		}
		return e.extension(x.Code, x.Args)
	}

	t := e.reg.match(v)
	if t == nil {
		return errors.Wrapf(ErrUnsupportedType, "%T", v)
	}
	if reflect.TypeOf(v).Comparable() {
		if !e.visit(v) {
			return nil
		}
	} else {
		// not addressable by identity, still consumes an id
		e.next++
	}
	args, err := t.Args(v)
	if err != nil {
		return errors.Wrapf(err, "flatten %s", t.Name)
	}
	return e.extension(t.Code, args)
}

func (e *encoder) extension(code uint32, args []any) error {
	e.buf = append(e.buf, tagExt)
	e.uvarint(uint64(code))
	e.uvarint(uint64(len(args)))
	for _, a := range args {
		if err := e.encode(a); err != nil {
			return err
		}
	}
	return nil
}
