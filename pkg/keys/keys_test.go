/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package keys

import (
	"bytes"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical_RoundTrip(t *testing.T) {
	ns := Namespace(Namespace(nil, "users"), "2024")
	tests := []struct {
		name string
		key  any
		want any
	}{
		{"string", "a", "a"},
		{"empty string", "", ""},
		{"int", 42, int64(42)},
		{"negative", int32(-7), int64(-7)},
		{"min", int64(math.MinInt64), int64(math.MinInt64)},
		{"max uint32", uint32(math.MaxUint32), int64(math.MaxUint32)},
	}
	for _, prefix := range [][]byte{nil, ns} {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				b, err := Canonical(prefix, tt.key)
				require.NoError(t, err)
				got, err := Parse(prefix, b)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestCanonical_IntegerOrder(t *testing.T) {
	ints := []int64{5, -1, math.MaxInt64, 0, math.MinInt64, -300, 300}
	enc := make([][]byte, len(ints))
	for i, n := range ints {
		b, err := Canonical(nil, n)
		require.NoError(t, err)
		enc[i] = b
	}
	sort.Slice(enc, func(i, j int) bool { return bytes.Compare(enc[i], enc[j]) < 0 })
	var got []int64
	for _, b := range enc {
		v, err := Parse(nil, b)
		require.NoError(t, err)
		got = append(got, v.(int64))
	}
	assert.Equal(t, []int64{math.MinInt64, -300, -1, 0, 5, 300, math.MaxInt64}, got)
}

func TestCanonical_IntAndStringDoNotCollide(t *testing.T) {
	i, err := Canonical(nil, 1)
	require.NoError(t, err)
	s, err := Canonical(nil, "1")
	require.NoError(t, err)
	assert.NotEqual(t, i, s)
	assert.Negative(t, bytes.Compare(i, s))
}

func TestCanonical_InvalidKey(t *testing.T) {
	for _, k := range []any{nil, 1.5, []byte("a"), struct{}{}, uint64(math.MaxUint64)} {
		_, err := Canonical(nil, k)
		assert.ErrorIs(t, err, ErrInvalidKey)
	}
}

func TestRange(t *testing.T) {
	ns := Namespace(nil, "a")
	start, limit := Range(nil)
	own, _ := Canonical(nil, "zzz")
	nested, _ := Canonical(ns, "b")
	assert.True(t, bytes.Compare(own, start) >= 0 && bytes.Compare(own, limit) < 0)
	assert.False(t, bytes.Compare(nested, start) >= 0 && bytes.Compare(nested, limit) < 0)

	start, limit = Range(ns)
	assert.True(t, bytes.Compare(nested, start) >= 0 && bytes.Compare(nested, limit) < 0)
	assert.False(t, bytes.Compare(own, start) >= 0 && bytes.Compare(own, limit) < 0)
}

func TestParse_OutsideNamespace(t *testing.T) {
	b, err := Canonical(Namespace(nil, "a"), "k")
	require.NoError(t, err)
	_, err = Parse(Namespace(nil, "b"), b)
	assert.ErrorIs(t, err, ErrInvalidKey)
}
