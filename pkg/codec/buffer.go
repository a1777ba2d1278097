/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package codec

import (
	"encoding/binary"
	"math"
)

// BufferKind identifies the element layout of a Buffer view.
type BufferKind uint8

const (
	Bytes BufferKind = iota + 1
	Int8
	Uint8
	Uint8Clamped
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
	BigInt64
	BigUint64
)

var kindNames = map[BufferKind]string{
	Bytes:        "Bytes",
	Int8:         "Int8Array",
	Uint8:        "Uint8Array",
	Uint8Clamped: "Uint8ClampedArray",
	Int16:        "Int16Array",
	Uint16:       "Uint16Array",
	Int32:        "Int32Array",
	Uint32:       "Uint32Array",
	Float32:      "Float32Array",
	Float64:      "Float64Array",
	BigInt64:     "BigInt64Array",
	BigUint64:    "BigUint64Array",
}

func (k BufferKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

func (k BufferKind) valid() bool {
	return k >= Bytes && k <= BigUint64
}

// Width is the element size in bytes.
func (k BufferKind) Width() int {
	switch k {
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64, BigInt64, BigUint64:
		return 8
	default:
		return 1
	}
}

func (k BufferKind) Signed() bool {
	switch k {
	case Int8, Int16, Int32, Float32, Float64, BigInt64:
		return true
	}
	return false
}

func (k BufferKind) Float() bool {
	return k == Float32 || k == Float64
}

// Buffer is a fixed-width binary view. Data holds the elements in
// little-endian order; len(Data) is always a multiple of Kind.Width().
type Buffer struct {
	Kind BufferKind
	Data []byte
}

// NewBuffer allocates a zeroed view of n elements.
func NewBuffer(kind BufferKind, n int) *Buffer {
	return &Buffer{Kind: kind, Data: make([]byte, n*kind.Width())}
}

func (b *Buffer) Len() int {
	return len(b.Data) / b.Kind.Width()
}

// Int returns element i as a signed integer.
func (b *Buffer) Int(i int) int64 {
	switch b.Kind {
	case Int8:
		return int64(int8(b.Data[i]))
	case Int16:
		return int64(int16(binary.LittleEndian.Uint16(b.Data[i*2:])))
	case Int32:
		return int64(int32(binary.LittleEndian.Uint32(b.Data[i*4:])))
	case BigInt64:
		return int64(binary.LittleEndian.Uint64(b.Data[i*8:]))
	case Float32, Float64:
		return int64(b.Float(i))
	}
	return int64(b.Uint(i))
}

// Uint returns element i as an unsigned integer.
func (b *Buffer) Uint(i int) uint64 {
	switch b.Kind.Width() {
	case 2:
		return uint64(binary.LittleEndian.Uint16(b.Data[i*2:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b.Data[i*4:]))
	case 8:
		return binary.LittleEndian.Uint64(b.Data[i*8:])
	}
	return uint64(b.Data[i])
}

// Float returns element i of a float view.
func (b *Buffer) Float(i int) float64 {
	switch b.Kind {
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b.Data[i*4:])))
	case Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b.Data[i*8:]))
	}
	if b.Kind.Signed() {
		return float64(b.Int(i))
	}
	return float64(b.Uint(i))
}

// SetInt stores v at element i, truncating to the element width.
// Uint8Clamped saturates into [0,255].
func (b *Buffer) SetInt(i int, v int64) {
	switch b.Kind {
	case Uint8Clamped:
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		b.Data[i] = byte(v)
	case Float32, Float64:
		b.SetFloat(i, float64(v))
	default:
		b.SetUint(i, uint64(v))
	}
}

func (b *Buffer) SetUint(i int, v uint64) {
	switch b.Kind.Width() {
	case 2:
		binary.LittleEndian.PutUint16(b.Data[i*2:], uint16(v))
	case 4:
		if b.Kind == Float32 {
			b.SetFloat(i, float64(v))
			return
		}
		binary.LittleEndian.PutUint32(b.Data[i*4:], uint32(v))
	case 8:
		if b.Kind == Float64 {
			b.SetFloat(i, float64(v))
			return
		}
		binary.LittleEndian.PutUint64(b.Data[i*8:], v)
	default:
		b.Data[i] = byte(v)
	}
}

func (b *Buffer) SetFloat(i int, v float64) {
	switch b.Kind {
	case Float32:
		binary.LittleEndian.PutUint32(b.Data[i*4:], math.Float32bits(float32(v)))
	case Float64:
		binary.LittleEndian.PutUint64(b.Data[i*8:], math.Float64bits(v))
	default:
		b.SetInt(i, int64(v))
	}
}
