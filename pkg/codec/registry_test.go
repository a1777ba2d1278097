/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package codec

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int64
	Tag  any
}

func pointType(code uint32) Type {
	return Type{
		Code: code,
		Name: "point",
		Match: func(v any) bool {
			_, ok := v.(*point)
			return ok
		},
		Args: func(v any) ([]any, error) {
			p := v.(*point)
			return []any{p.X, p.Y, p.Tag}, nil
		},
		Build: func(args []any) (any, error) {
			if len(args) != 3 {
				return nil, errors.New("want 3 args")
			}
			return &point{X: args[0].(int64), Y: args[1].(int64), Tag: args[2]}, nil
		},
	}
}

func TestNewRegistry(t *testing.T) {
	_, err := NewRegistry(pointType(MinCustomCode))
	assert.NoError(t, err)

	_, err = NewRegistry(pointType(DateCode))
	assert.Error(t, err)

	_, err = NewRegistry(pointType(20), pointType(20))
	assert.Error(t, err)

	_, err = NewRegistry(Type{Code: 30, Name: "broken"})
	assert.Error(t, err)
}

func TestRegistry_CustomType(t *testing.T) {
	reg, err := NewRegistry(pointType(20))
	require.NoError(t, err)
	c := New(reg, false)

	p := &point{X: 1, Y: -2, Tag: "a"}
	out := roundTrip(t, c, NewArray(p, p)).(*Array)
	p2, ok := out.Items[0].(*point)
	require.True(t, ok)
	assert.Equal(t, int64(1), p2.X)
	assert.Equal(t, int64(-2), p2.Y)
	assert.Equal(t, "a", p2.Tag)
	assert.Same(t, p2, out.Items[1])
}

func TestRegistry_UnknownType(t *testing.T) {
	reg, err := NewRegistry(pointType(20))
	require.NoError(t, err)
	b, err := Encode(reg, &point{X: 1, Y: 2})
	require.NoError(t, err)

	_, err = Decode(DefaultRegistry(), b)
	assert.ErrorIs(t, err, ErrUnknownType)

	fallback := DefaultRegistry()
	fallback.Fallback = KeepUnknown
	v, err := Decode(fallback, b)
	require.NoError(t, err)
	ext, ok := v.(*Extension)
	require.True(t, ok)
	assert.Equal(t, uint32(20), ext.Code)
	assert.Equal(t, []any{int64(1), int64(2), nil}, ext.Args)

	// the preserved extension decodes as a point again under the full registry
	b2, err := Encode(fallback, ext)
	require.NoError(t, err)
	assert.Equal(t, b, b2)
}

func TestRegistry_ExtensionCannotReferenceItself(t *testing.T) {
	reg, err := NewRegistry(pointType(20))
	require.NoError(t, err)
	p := &point{X: 1, Y: 2}
	p.Tag = p
	b, err := Encode(reg, p)
	require.NoError(t, err)

	_, err = Decode(reg, b)
	assert.ErrorIs(t, err, ErrCorruptEncoding)
}

func TestRegistry_ExtensionInsideCycle(t *testing.T) {
	reg, err := NewRegistry(pointType(20))
	require.NoError(t, err)
	o := NewObject()
	o.Set("p", &point{X: 3, Y: 4, Tag: o})

	out := roundTrip(t, New(reg, true), o).(*Object)
	pv, _ := out.Get("p")
	assert.Same(t, out, pv.(*point).Tag)
}
