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

	"github.com/pkg/errors"
)

// pending marks an arena slot reserved for an extended value whose args are
// still being decoded.
type pending struct{}

type decoder struct {
	reg   *Registry
	data  []byte
	pos   int
	arena []any
	depth int
}

// Decode rebuilds a value graph in a single pass. A composite node is
// registered in the arena before its children are read, so references to
// ancestors resolve to the shell under construction.
func Decode(reg *Registry, data []byte) (any, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	if len(data) == 0 {
		return nil, corrupt("empty input")
	}
	if data[0] != version {
		return nil, corrupt("unsupported format version %d", data[0])
	}
	d := &decoder{reg: reg, data: data, pos: 1}
	v, err := d.decode()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, corrupt("%d trailing bytes", len(d.data)-d.pos)
	}
	return v, nil
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, corrupt("unexpected end of input at %d", d.pos)
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) uvarint() (uint64, error) {
	n, w := binary.Uvarint(d.data[d.pos:])
	if w <= 0 {
		return 0, corrupt("bad uvarint at %d", d.pos)
	}
	d.pos += w
	return n, nil
}

// count reads a length prefix and checks it against the remaining input,
// each element occupying at least min bytes.
func (d *decoder) count(min int) (int, error) {
	n, err := d.uvarint()
	if err != nil {
		return 0, err
	}
	if n > uint64(len(d.data)-d.pos)/uint64(min) {
		return 0, corrupt("length %d exceeds input", n)
	}
	return int(n), nil
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if n > len(d.data)-d.pos {
		return nil, corrupt("truncated at %d", d.pos)
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) str() (string, error) {
	n, err := d.count(1)
	if err != nil {
		return "", err
	}
	b, err := d.bytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) register(v any) int {
	d.arena = append(d.arena, v)
	return len(d.arena) - 1
}

func (d *decoder) decode() (any, error) {
	tag, err := d.readByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagNull, tagUndefined, tagFalse, tagTrue, tagInt, tagFloat, tagString, tagBigInt:
		return d.primitive(tag)
	}

	// only composite and extended nodes count towards the depth
	if tag != tagRef {
		d.depth++
		defer func() { d.depth-- }()
		if d.depth > MaxDepth {
			return nil, corrupt("nesting deeper than %d at %d", MaxDepth, d.pos-1)
		}
	}

	switch tag {
	case tagRef:
		id, err := d.uvarint()
		if err != nil {
			return nil, err
		}
		if id >= uint64(len(d.arena)) {
			return nil, corrupt("reference to unassigned id %d", id)
		}
		v := d.arena[id]
		if _, ok := v.(pending); ok {
			return nil, corrupt("reference to id %d inside its own arguments", id)
		}
		return v, nil

	case tagBoxed:
		b := &Boxed{}
		d.register(b)
		t, err := d.readByte()
		if err != nil {
			return nil, err
		}
		switch t {
		case tagFalse, tagTrue, tagInt, tagFloat, tagString:
		default:
			return nil, corrupt("boxed tag %d", t)
		}
		b.Value, err = d.primitive(t)
		if err != nil {
			return nil, err
		}
		return b, nil

	case tagBuffer:
		kind, err := d.readByte()
		if err != nil {
			return nil, err
		}
		k := BufferKind(kind)
		if !k.valid() {
			return nil, corrupt("buffer kind %d", kind)
		}
		n, err := d.count(1)
		if err != nil {
			return nil, err
		}
		if n%k.Width() != 0 {
			return nil, corrupt("%s with %d bytes", k, n)
		}
		raw, err := d.bytes(n)
		if err != nil {
			return nil, err
		}
		buf := &Buffer{Kind: k, Data: make([]byte, n)}
		copy(buf.Data, raw)
		d.register(buf)
		return buf, nil

	case tagArray:
		a := &Array{}
		d.register(a)
		n, err := d.count(1)
		if err != nil {
			return nil, err
		}
		a.Items = make([]any, 0, n)
		for i := 0; i < n; i++ {
			v, err := d.decode()
			if err != nil {
				return nil, err
			}
			a.Items = append(a.Items, v)
		}
		return a, nil

	case tagObject:
		o := NewObject()
		d.register(o)
		flags, err := d.readByte()
		if err != nil {
			return nil, err
		}
		o.NullProto = flags&1 == 1
		n, err := d.count(2)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			k, err := d.str()
			if err != nil {
				return nil, err
			}
			v, err := d.decode()
			if err != nil {
				return nil, err
			}
			o.Set(k, v)
		}
		return o, nil

	case tagMap:
		m := NewMap()
		d.register(m)
		n, err := d.count(2)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			k, err := d.decode()
			if err != nil {
				return nil, err
			}
			if !hashable(k) {
				return nil, corrupt("map key of type %T", k)
			}
			v, err := d.decode()
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil

	case tagSet:
		s := NewSet()
		d.register(s)
		n, err := d.count(1)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			v, err := d.decode()
			if err != nil {
				return nil, err
			}
			if !hashable(v) {
				return nil, corrupt("set element of type %T", v)
			}
			s.Add(v)
		}
		return s, nil

	case tagExt:
		return d.extension()
	}
	return nil, corrupt("unknown tag %d at %d", tag, d.pos-1)
}

func (d *decoder) primitive(tag byte) (any, error) {
	switch tag {
	case tagNull:
		return nil, nil
	case tagUndefined:
		return Undefined, nil
	case tagFalse:
		return false, nil
	case tagTrue:
		return true, nil
	case tagInt:
		n, w := binary.Varint(d.data[d.pos:])
		if w <= 0 {
			return nil, corrupt("bad varint at %d", d.pos)
		}
		d.pos += w
		return n, nil
	case tagFloat:
		b, err := d.bytes(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	case tagString:
		return d.str()
	case tagBigInt:
		sign, err := d.readByte()
		if err != nil {
			return nil, err
		}
		n, err := d.count(1)
		if err != nil {
			return nil, err
		}
		mag, err := d.bytes(n)
		if err != nil {
			return nil, err
		}
		x := new(big.Int).SetBytes(mag)
		if sign == 1 {
			x.Neg(x)
		}
		return x, nil
	}
	return nil, corrupt("unknown tag %d", tag)
}

func (d *decoder) extension() (any, error) {
	id := d.register(pending{})
	code, err := d.uvarint()
	if err != nil {
		return nil, err
	}
	if code > math.MaxUint32 {
		return nil, corrupt("extended type code %d", code)
	}
	n, err := d.count(1)
	if err != nil {
		return nil, err
	}
	args := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := d.decode()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	v, err := d.reg.build(uint32(code), args)
	if err != nil {
		if errors.Is(err, ErrUnknownType) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "extended type %d", code)
	}
	d.arena[id] = v
	return v, nil
}
