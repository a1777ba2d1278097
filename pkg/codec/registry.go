/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package codec

import (
	"regexp"
	"time"

	"github.com/pkg/errors"
)

const (
	DateCode   uint32 = 1
	RegExpCode uint32 = 2

	// MinCustomCode is the smallest code available to user-registered types.
	MinCustomCode uint32 = 16
)

// Type describes an extended value. Args flattens a value into a list of
// encodable values; Build reconstructs it from the decoded list.
type Type struct {
	Code  uint32
	Name  string
	Match func(v any) bool
	Args  func(v any) ([]any, error)
	Build func(args []any) (any, error)
}

// Registry maps extended types to their stable codes.
type Registry struct {
	types  []*Type
	byCode map[uint32]*Type
	// Fallback, when set, builds values whose code has no registered type.
	Fallback func(code uint32, args []any) (any, error)
}

// NewRegistry returns a registry holding the builtin Date and RegExp types
// followed by the given custom types.
func NewRegistry(custom ...Type) (*Registry, error) {
	r := &Registry{byCode: make(map[uint32]*Type)}
	for _, t := range builtins() {
		if err := r.add(t); err != nil {
			return nil, err
		}
	}
	for _, t := range custom {
		if t.Code < MinCustomCode {
			return nil, errors.Errorf("type %q: code %d is reserved, use %d or above", t.Name, t.Code, MinCustomCode)
		}
		if err := r.add(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry with only the builtin types.
func DefaultRegistry() *Registry {
	r, _ := NewRegistry()
	return r
}

func (r *Registry) add(t Type) error {
	if t.Match == nil || t.Args == nil || t.Build == nil {
		return errors.Errorf("type %q: Match, Args and Build are required", t.Name)
	}
	if _, ok := r.byCode[t.Code]; ok {
		return errors.Errorf("type %q: code %d already registered", t.Name, t.Code)
	}
	tt := t
	r.types = append(r.types, &tt)
	r.byCode[t.Code] = &tt
	return nil
}

func (r *Registry) match(v any) *Type {
	for _, t := range r.types {
		if t.Match(v) {
			return t
		}
	}
	return nil
}

func (r *Registry) build(code uint32, args []any) (any, error) {
	t, ok := r.byCode[code]
	if !ok {
		if r.Fallback != nil {
			return r.Fallback(code, args)
		}
		return nil, errors.Wrapf(ErrUnknownType, "code %d", code)
	}
	v, err := t.Build(args)
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptEncoding, "build %s: %v", t.Name, err)
	}
	return v, nil
}

// KeepUnknown is a Fallback that preserves unknown values as *Extension.
func KeepUnknown(code uint32, args []any) (any, error) {
	return &Extension{Code: code, Args: args}, nil
}

func builtins() []Type {
	return []Type{
		{
			Code: DateCode,
			Name: "Date",
			Match: func(v any) bool {
				_, ok := v.(time.Time)
				return ok
			},
			Args: func(v any) ([]any, error) {
				return []any{v.(time.Time).UnixMilli()}, nil
			},
			Build: func(args []any) (any, error) {
				if len(args) != 1 {
					return nil, errors.New("want 1 arg")
				}
				ms, ok := args[0].(int64)
				if !ok {
					return nil, errors.Errorf("want int64, got %T", args[0])
				}
				return time.UnixMilli(ms), nil
			},
		},
		{
			Code: RegExpCode,
			Name: "RegExp",
			Match: func(v any) bool {
				_, ok := v.(*regexp.Regexp)
				return ok
			},
			Args: func(v any) ([]any, error) {
				return []any{v.(*regexp.Regexp).String()}, nil
			},
			Build: func(args []any) (any, error) {
				if len(args) != 1 {
					return nil, errors.New("want 1 arg")
				}
				src, ok := args[0].(string)
				if !ok {
					return nil, errors.Errorf("want string, got %T", args[0])
				}
				return regexp.Compile(src)
			},
		},
	}
}
