/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/CESSProject/kvcache/pkg/codec"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	v, err := parseJSON([]byte(`{"b":1,"a":[2.5,"x",true,null],"n":{"z":-3}}`))
	require.NoError(t, err)
	obj, ok := v.(*codec.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a", "n"}, obj.Keys())
	b, _ := obj.Get("b")
	assert.Equal(t, int64(1), b)
	a, _ := obj.Get("a")
	assert.Equal(t, []any{2.5, "x", true, nil}, a.(*codec.Array).Items)
	nested, _ := obj.Get("n")
	z, _ := nested.(*codec.Object).Get("z")
	assert.Equal(t, int64(-3), z)

	for _, bad := range []string{``, `{"a":`, `[1,2`, `1 2`, `{"a":1}}`} {
		_, err = parseJSON([]byte(bad))
		assert.Error(t, err, bad)
	}
}

func TestParseJSON_Depth(t *testing.T) {
	ok := strings.Repeat("[", codec.MaxDepth) + strings.Repeat("]", codec.MaxDepth)
	v, err := parseJSON([]byte(ok))
	require.NoError(t, err)
	assert.IsType(t, &codec.Array{}, v)

	deep := strings.Repeat("[", codec.MaxDepth+1) + strings.Repeat("]", codec.MaxDepth+1)
	_, err = parseJSON([]byte(deep))
	assert.Error(t, err)

	_, err = parseJSON(bytes.Repeat([]byte("["), 1<<20))
	assert.Error(t, err)
}

func TestParseKeys(t *testing.T) {
	ks, err := parseKeys([]json.RawMessage{[]byte(`"a"`), []byte(`42`), []byte(`-1`)})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", int64(42), int64(-1)}, ks)

	for _, bad := range []string{`1.5`, `true`, `null`, `{}`, `[]`} {
		_, err = parseKeys([]json.RawMessage{[]byte(bad)})
		assert.Error(t, err, bad)
	}
}

func TestRender(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"undefined", codec.Undefined, `null`},
		{"bigint", new(big.Int).Lsh(big.NewInt(1), 80), `1208925819614629174706176`},
		{"nan", math.NaN(), `"NaN"`},
		{"inf", math.Inf(-1), `"-Inf"`},
		{"bytes", &codec.Buffer{Kind: codec.Bytes, Data: []byte("hi")}, `{"$buffer":"` + codec.Bytes.String() + `","data":"aGk="}`},
		{"extension", &codec.Extension{Code: 20, Args: []any{"x", int64(1)}}, `{"$ext":20,"args":["x",1]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := sonic.Marshal(render(tc.in))
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(out))
		})
	}
}

func TestRender_OrderAndCycles(t *testing.T) {
	o := codec.NewObject()
	o.Set("z", int64(1))
	o.Set("a", int64(2))
	arr := codec.NewArray(o)
	o.Set("back", arr)

	out, err := sonic.Marshal(render(arr))
	require.NoError(t, err)
	assert.Equal(t, `[{"z":1,"a":2,"back":{"$ref":0}}]`, string(out))
}
