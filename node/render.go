/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"regexp"
	"time"

	"github.com/CESSProject/kvcache/pkg/codec"
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// orderedObject keeps the key order of a codec.Object when marshaled.
type orderedObject struct {
	keys   []string
	values []any
}

func (o *orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := sonic.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := sonic.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type renderer struct {
	ids    map[any]int
	onPath map[any]bool
}

// render converts a decoded value graph into JSON-ready values. Shared nodes
// are expanded; a node reached again through its own descendants is written
// as {"$ref": id} where id numbers composites in visiting order.
func render(v any) any {
	r := &renderer{ids: make(map[any]int), onPath: make(map[any]bool)}
	return r.value(v)
}

func (r *renderer) enter(node any) (ref any, ok bool) {
	if r.onPath[node] {
		return &orderedObject{keys: []string{"$ref"}, values: []any{r.ids[node]}}, false
	}
	if _, seen := r.ids[node]; !seen {
		r.ids[node] = len(r.ids)
	}
	r.onPath[node] = true
	return nil, true
}

func (r *renderer) leave(node any) {
	delete(r.onPath, node)
}

func (r *renderer) value(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool, string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return x
	case float32:
		return number(float64(x))
	case float64:
		return number(x)
	case *big.Int:
		return json.Number(x.String())
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case *regexp.Regexp:
		return &orderedObject{keys: []string{"$regexp"}, values: []any{x.String()}}
	case *codec.Boxed:
		return r.value(x.Value)
	case *codec.Buffer:
		if x.Kind == codec.Bytes {
			return &orderedObject{keys: []string{"$buffer", "data"}, values: []any{x.Kind.String(), base64.StdEncoding.EncodeToString(x.Data)}}
		}
		items := make([]any, x.Len())
		for i := range items {
			switch {
			case x.Kind.Float():
				items[i] = number(x.Float(i))
			case x.Kind.Signed():
				items[i] = x.Int(i)
			default:
				items[i] = x.Uint(i)
			}
		}
		return &orderedObject{keys: []string{"$buffer", "data"}, values: []any{x.Kind.String(), items}}
	case *codec.Array:
		if ref, ok := r.enter(x); !ok {
			return ref
		}
		defer r.leave(x)
		items := make([]any, len(x.Items))
		for i, it := range x.Items {
			items[i] = r.value(it)
		}
		return items
	case *codec.Object:
		if ref, ok := r.enter(x); !ok {
			return ref
		}
		defer r.leave(x)
		o := &orderedObject{keys: x.Keys(), values: make([]any, x.Len())}
		for i, k := range o.keys {
			val, _ := x.Get(k)
			o.values[i] = r.value(val)
		}
		return o
	case *codec.Map:
		if ref, ok := r.enter(x); !ok {
			return ref
		}
		defer r.leave(x)
		pairs := make([]any, 0, x.Len())
		x.Range(func(k, val any) bool {
			pairs = append(pairs, []any{r.value(k), r.value(val)})
			return true
		})
		return &orderedObject{keys: []string{"$map"}, values: []any{pairs}}
	case *codec.Set:
		if ref, ok := r.enter(x); !ok {
			return ref
		}
		defer r.leave(x)
		items := make([]any, 0, x.Len())
		for _, it := range x.Values() {
			items = append(items, r.value(it))
		}
		return &orderedObject{keys: []string{"$set"}, values: []any{items}}
	case *codec.Extension:
		args := make([]any, len(x.Args))
		for i, a := range x.Args {
			args[i] = r.value(a)
		}
		return &orderedObject{keys: []string{"$ext", "args"}, values: []any{x.Code, args}}
	}
	if codec.IsUndefined(v) {
		return nil
	}
	return fmt.Sprintf("%v", v)
}

// number maps values JSON cannot carry to strings.
func number(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprintf("%v", f)
	}
	return f
}

// parseJSON decodes a JSON document into a value graph. Objects become
// *codec.Object with their key order kept, arrays *codec.Array, integral
// numbers int64 and other numbers float64. Nesting is bounded by
// codec.MaxDepth so the graph stays encodable.
func parseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseValue(dec, 0)
	if err != nil {
		return nil, err
	}
	if _, err = dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder, depth int) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if depth >= codec.MaxDepth {
			return nil, errors.Errorf("nesting deeper than %d", codec.MaxDepth)
		}
		switch t {
		case '{':
			obj := codec.NewObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := parseValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				obj.Set(kt.(string), val)
			}
			_, err = dec.Token()
			return obj, err
		case '[':
			arr := codec.NewArray()
			for dec.More() {
				val, err := parseValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				arr.Append(val)
			}
			_, err = dec.Token()
			return arr, err
		}
		return nil, errors.Errorf("unexpected delimiter %v", t)
	case json.Number:
		return parseNumber(t)
	}
	return tok, nil
}

func parseNumber(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, errors.Wrapf(err, "number %s", n)
	}
	return f, nil
}

// parseKeys decodes a JSON array of keys. Strings stay strings and
// integral numbers become int64 keys.
func parseKeys(raw []json.RawMessage) ([]any, error) {
	out := make([]any, len(raw))
	for i, r := range raw {
		v, err := parseJSON(r)
		if err != nil {
			return nil, err
		}
		switch v.(type) {
		case string, int64:
			out[i] = v
		default:
			return nil, errors.Errorf("key %s is neither a string nor an integer", string(r))
		}
	}
	return out, nil
}

// Marshal renders v as the HTTP API does.
func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(render(v))
}
