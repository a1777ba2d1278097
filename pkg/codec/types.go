/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package codec

import "reflect"

type undefined struct{}

// Undefined is the absent value. It is distinct from nil, which encodes null.
var Undefined = undefined{}

func (undefined) String() string { return "undefined" }

// IsUndefined reports whether v is the absent value.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Boxed wraps a bool, number or string so that the wrapper itself has
// identity, independent of the primitive it holds.
type Boxed struct {
	Value any
}

func Box(v any) *Boxed {
	return &Boxed{Value: v}
}

// Array is an ordered container.
type Array struct {
	Items []any
}

func NewArray(items ...any) *Array {
	if items == nil {
		items = make([]any, 0)
	}
	return &Array{Items: items}
}

func (a *Array) Len() int { return len(a.Items) }

func (a *Array) Append(v ...any) { a.Items = append(a.Items, v...) }

// Object is a string-keyed record that keeps insertion order.
// NullProto marks a record created without a prototype.
type Object struct {
	NullProto bool
	keys      []string
	values    map[string]any
}

func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// NewNullProtoObject returns an empty record flagged as prototype-less.
func NewNullProtoObject() *Object {
	o := NewObject()
	o.NullProto = true
	return o
}

func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (o *Object) Keys() []string { return o.keys }

func (o *Object) Len() int { return len(o.keys) }

// Map is an associative container that accepts any comparable value as key
// and keeps insertion order.
type Map struct {
	keys   []any
	values []any
	index  map[any]int
}

func NewMap() *Map {
	return &Map{index: make(map[any]int)}
}

func (m *Map) Set(key, value any) {
	if m.index == nil {
		m.index = make(map[any]int)
	}
	if i, ok := m.index[key]; ok {
		m.values[i] = value
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

func (m *Map) Get(key any) (any, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.values[i], true
}

func (m *Map) Has(key any) bool {
	_, ok := m.index[key]
	return ok
}

func (m *Map) Delete(key any) {
	i, ok := m.index[key]
	if !ok {
		return
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.values = append(m.values[:i], m.values[i+1:]...)
	delete(m.index, key)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
}

func (m *Map) Len() int { return len(m.keys) }

// Range calls fn for each pair in insertion order until fn returns false.
func (m *Map) Range(fn func(key, value any) bool) {
	for i := range m.keys {
		if !fn(m.keys[i], m.values[i]) {
			return
		}
	}
}

// Set is a unique-element container that keeps insertion order.
type Set struct {
	items []any
	index map[any]int
}

func NewSet(items ...any) *Set {
	s := &Set{index: make(map[any]int)}
	for _, v := range items {
		s.Add(v)
	}
	return s
}

func (s *Set) Add(v any) {
	if s.index == nil {
		s.index = make(map[any]int)
	}
	if _, ok := s.index[v]; ok {
		return
	}
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
}

func (s *Set) Has(v any) bool {
	_, ok := s.index[v]
	return ok
}

func (s *Set) Delete(v any) {
	i, ok := s.index[v]
	if !ok {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, v)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
}

func (s *Set) Len() int { return len(s.items) }

// Values returns the elements in insertion order. The slice must not be modified.
func (s *Set) Values() []any { return s.items }

// Extension carries an extended value whose type code had no registered
// handler at decode time. It encodes back to the same code and args.
type Extension struct {
	Code uint32
	Args []any
}

// hashable reports whether v can be used as a Map key or Set element.
func hashable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}
