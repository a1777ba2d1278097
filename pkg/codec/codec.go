/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

// Package codec serializes value graphs with shared and cyclic references
// into a compact byte stream and reads them back with identity preserved.
package codec

import (
	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// Codec binds a registry and a compression mode. It is safe for
// concurrent use as long as the registry is not modified.
type Codec struct {
	reg      *Registry
	compress bool
}

func New(reg *Registry, compress bool) *Codec {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Codec{reg: reg, compress: compress}
}

func (c *Codec) Compressed() bool {
	return c.compress
}

func (c *Codec) Registry() *Registry {
	return c.reg
}

func (c *Codec) Marshal(v any) ([]byte, error) {
	b, err := Encode(c.reg, v)
	if err != nil {
		return nil, err
	}
	if c.compress {
		return snappy.Encode(nil, b), nil
	}
	return b, nil
}

func (c *Codec) Unmarshal(data []byte) (any, error) {
	if c.compress {
		b, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, errors.Wrapf(ErrCorruptEncoding, "snappy: %v", err)
		}
		data = b
	}
	return Decode(c.reg, data)
}
