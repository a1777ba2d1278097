/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package codec

import (
	"bytes"
	"math"
	"math/big"
	"regexp"
	"testing"
	"time"

	"github.com/golang/snappy"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var graphOpts = cmp.Options{
	cmp.AllowUnexported(Object{}, Map{}, Set{}),
	cmp.Comparer(func(a, b *big.Int) bool { return a.Cmp(b) == 0 }),
	cmp.Comparer(func(a, b *regexp.Regexp) bool { return a.String() == b.String() }),
}

func mustBig(t *testing.T, s string) *big.Int {
	x, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok)
	return x
}

func int16Buffer(vals ...int64) *Buffer {
	b := NewBuffer(Int16, len(vals))
	for i, v := range vals {
		b.SetInt(i, v)
	}
	return b
}

func float64Buffer(vals ...float64) *Buffer {
	b := NewBuffer(Float64, len(vals))
	for i, v := range vals {
		b.SetFloat(i, v)
	}
	return b
}

func roundTrip(t *testing.T, c *Codec, v any) any {
	t.Helper()
	b, err := c.Marshal(v)
	require.NoError(t, err)
	out, err := c.Unmarshal(b)
	require.NoError(t, err)
	return out
}

func TestCodec_RoundTrip(t *testing.T) {
	obj := NewObject()
	obj.Set("key", "value")
	obj.Set("n", int64(7))

	m := NewMap()
	m.Set("key1", "value1")
	m.Set(int64(2), "value2")

	bigint := NewBuffer(BigInt64, 2)
	bigint.SetInt(0, math.MinInt64+1)
	bigint.SetInt(1, math.MaxInt64)

	date := time.UnixMilli(1700000000123)

	tests := []struct {
		name  string
		value any
	}{
		{"string", "Hello, world!"},
		{"empty string", ""},
		{"integer", int64(42)},
		{"negative integer", int64(-9007199254740993)},
		{"float", 3.25},
		{"negative zero float", math.Copysign(0, -1)},
		{"bool", true},
		{"null", nil},
		{"undefined", Undefined},
		{"bigint", mustBig(t, "12345678901234567821234567890123456782")},
		{"negative bigint", mustBig(t, "-123456789012345678901234567890123456789012345678901234567890")},
		{"array", NewArray(int64(1), int64(2), int64(3))},
		{"object", obj},
		{"null prototype object", NewNullProtoObject()},
		{"map", m},
		{"set", NewSet(int64(1), int64(2), int64(3))},
		{"int16 buffer", int16Buffer(1, -2, 3)},
		{"float64 buffer", float64Buffer(1.1, -2.2, 5234348950.432534)},
		{"bigint64 buffer", bigint},
		{"boxed bool", Box(true)},
		{"boxed number", Box(int64(3))},
		{"boxed string", Box("hello")},
		{"date", date},
		{"regexp", regexp.MustCompile(`^test$`)},
	}
	for _, compress := range []bool{false, true} {
		c := New(nil, compress)
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				out := roundTrip(t, c, tt.value)
				if d, ok := tt.value.(time.Time); ok {
					assert.True(t, d.Equal(out.(time.Time)))
					return
				}
				if diff := cmp.Diff(tt.value, out, graphOpts); diff != "" {
					t.Errorf("round trip mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestCodec_NarrowTypesWiden(t *testing.T) {
	c := New(nil, false)
	assert.Equal(t, int64(5), roundTrip(t, c, int8(5)))
	assert.Equal(t, int64(65535), roundTrip(t, c, uint16(65535)))
	assert.Equal(t, float64(float32(1.5)), roundTrip(t, c, float32(1.5)))

	out := roundTrip(t, c, uint64(math.MaxUint64))
	assert.Equal(t, 0, new(big.Int).SetUint64(math.MaxUint64).Cmp(out.(*big.Int)))
}

func TestCodec_BoxedIsDistinctFromPrimitive(t *testing.T) {
	c := New(nil, false)
	out := roundTrip(t, c, NewArray(Box("x"), "x"))
	arr := out.(*Array)
	require.Len(t, arr.Items, 2)
	boxed, ok := arr.Items[0].(*Boxed)
	require.True(t, ok)
	assert.Equal(t, "x", boxed.Value)
	assert.Equal(t, "x", arr.Items[1])
}

func TestCodec_SelfReference(t *testing.T) {
	o := NewObject()
	o.Set("self", o)

	out := roundTrip(t, New(nil, false), o)
	o2 := out.(*Object)
	self, ok := o2.Get("self")
	require.True(t, ok)
	assert.Same(t, o2, self)
}

func TestCodec_SharedReference(t *testing.T) {
	shared := NewObject()
	shared.Set("n", int64(1))
	root := NewArray(shared, shared, NewArray(shared))

	out := roundTrip(t, New(nil, true), root).(*Array)
	require.Len(t, out.Items, 3)
	assert.Same(t, out.Items[0], out.Items[1])
	assert.Same(t, out.Items[0], out.Items[2].(*Array).Items[0])
	n, _ := out.Items[0].(*Object).Get("n")
	assert.Equal(t, int64(1), n)
}

func TestCodec_CyclesThroughContainers(t *testing.T) {
	m := NewMap()
	s := NewSet()
	a := NewArray()
	m.Set("set", s)
	m.Set(a, m)
	s.Add(a)
	s.Add(m)
	a.Append(m, s, a)

	out := roundTrip(t, New(nil, false), m).(*Map)
	s2v, ok := out.Get("set")
	require.True(t, ok)
	s2 := s2v.(*Set)
	require.Equal(t, 2, s2.Len())
	a2 := s2.Values()[0].(*Array)
	assert.Same(t, out, s2.Values()[1])
	assert.Same(t, out, a2.Items[0])
	assert.Same(t, s2, a2.Items[1])
	assert.Same(t, a2, a2.Items[2])

	v, ok := out.Get(a2)
	require.True(t, ok)
	assert.Same(t, out, v)
}

func TestCodec_SharedBoxAndBuffer(t *testing.T) {
	box := Box(int64(3))
	buf := int16Buffer(1, 2)
	out := roundTrip(t, New(nil, false), NewArray(box, buf, box, buf)).(*Array)
	assert.Same(t, out.Items[0], out.Items[2])
	assert.Same(t, out.Items[1], out.Items[3])
}

func TestCodec_ReencodeIsStable(t *testing.T) {
	o := NewObject()
	inner := NewSet(o, "a", int64(1))
	o.Set("inner", inner)
	o.Set("list", NewArray(inner, o))

	c := New(nil, false)
	b1, err := c.Marshal(o)
	require.NoError(t, err)
	out, err := c.Unmarshal(b1)
	require.NoError(t, err)
	b2, err := c.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestCodec_UnsupportedType(t *testing.T) {
	_, err := Encode(nil, struct{ A int }{1})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Encode(nil, NewArray(make(chan int)))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Encode(nil, Box(NewArray()))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDecode_Corrupt(t *testing.T) {
	good, err := Encode(nil, NewArray("abc", int64(1)))
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad version", []byte{9, tagNull}},
		{"truncated", good[:len(good)-1]},
		{"trailing", append(append([]byte{}, good...), 0)},
		{"unknown tag", []byte{version, 0xfe}},
		{"forward reference", []byte{version, tagArray, 1, tagRef, 5}},
		{"huge length", []byte{version, tagArray, 0xff, 0xff, 0xff, 0x0f}},
		{"bad buffer kind", []byte{version, tagBuffer, 0x7f, 0}},
		{"odd buffer size", []byte{version, tagBuffer, byte(Int16), 3, 1, 2, 3}},
		{"boxed container", []byte{version, tagBoxed, tagArray, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(nil, tt.data)
			assert.ErrorIs(t, err, ErrCorruptEncoding)
		})
	}
}

func TestDecode_CorruptCompressed(t *testing.T) {
	c := New(nil, true)
	_, err := c.Unmarshal([]byte{0xff, 0xff, 0xff})
	assert.ErrorIs(t, err, ErrCorruptEncoding)
}

func nested(depth int) *Array {
	root := NewArray()
	cur := root
	for i := 1; i < depth; i++ {
		next := NewArray()
		cur.Append(next)
		cur = next
	}
	cur.Append(int64(1))
	return root
}

func TestCodec_DepthLimit(t *testing.T) {
	data, err := Encode(nil, nested(MaxDepth))
	require.NoError(t, err)
	v, err := Decode(nil, data)
	require.NoError(t, err)
	assert.Equal(t, 1, v.(*Array).Len())

	_, err = Encode(nil, nested(MaxDepth+1))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	deep := append([]byte{version}, bytes.Repeat([]byte{tagArray, 1}, 1<<20)...)
	_, err = Decode(nil, deep)
	assert.ErrorIs(t, err, ErrCorruptEncoding)

	c := New(nil, true)
	_, err = c.Unmarshal(snappy.Encode(nil, deep))
	assert.ErrorIs(t, err, ErrCorruptEncoding)
}
