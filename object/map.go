// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package object

import (
	"strings"

	"github.com/benbjohnson/immutable"
)

type fieldOrder struct{}

func (fieldOrder) Compare(a string, b string) int {
	return strings.Compare(a, b)
}

// shared by every empty Map
var noFields = immutable.NewSortedMap[string, Value](fieldOrder{})

// Map - field name to value, the shape of every ledger object
//
// the zero value is an empty map
type Map struct {
	fields *immutable.SortedMap[string, Value]
}

func (Map) Kind() Kind { return KindMap }

// NewMap - build from a Go map, the argument is copied
func NewMap(fields map[string]Value) Map {
	m := noFields
	for k, v := range fields {
		m = m.Set(k, v)
	}
	return Map{fields: m}
}

func (m Map) tree() *immutable.SortedMap[string, Value] {
	if nil == m.fields {
		return noFields
	}
	return m.fields
}

// Len - number of fields
func (m Map) Len() int {
	return m.tree().Len()
}

// Keys - sorted field names
func (m Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.Each(func(key string, _ Value) {
		keys = append(keys, key)
	})
	return keys
}

// Has - check for a field
func (m Map) Has(key string) bool {
	_, ok := m.tree().Get(key)
	return ok
}

// Get - a field
func (m Map) Get(key string) (Value, bool) {
	return m.tree().Get(key)
}

// GetString - a string field or "" if missing or another kind
func (m Map) GetString(key string) string {
	v, _ := m.Get(key)
	if s, ok := v.(String); ok {
		return string(s)
	}
	return ""
}

// GetNumber - a numeric field, numeric strings are also accepted
func (m Map) GetNumber(key string) (Number, bool) {
	field, _ := m.Get(key)
	switch v := field.(type) {
	case Number:
		return v, true
	case String:
		n := Number(v)
		if _, ok := n.Float64(); ok {
			return n, true
		}
	}
	return "", false
}

// GetMap - a map field or an empty map
func (m Map) GetMap(key string) Map {
	field, _ := m.Get(key)
	if sub, ok := field.(Map); ok {
		return sub
	}
	return Map{}
}

// GetSet - a set field, a list of strings is converted
func (m Map) GetSet(key string) (Set, bool) {
	v, ok := m.Get(key)
	if !ok {
		return Set{}, false
	}
	switch v.(type) {
	case Set, List:
		return ToSet(v), true
	}
	return Set{}, false
}

// GetIn - walk a path of map keys
func (m Map) GetIn(path ...string) (Value, bool) {
	var v Value = m
	for _, key := range path {
		sub, ok := v.(Map)
		if !ok {
			return nil, false
		}
		v, ok = sub.Get(key)
		if !ok {
			return nil, false
		}
	}
	return v, true
}

// Id - the "id" field
func (m Map) Id() string {
	return m.GetString("id")
}

// With - copy with one field replaced
func (m Map) With(key string, value Value) Map {
	return Map{fields: m.tree().Set(key, value)}
}

// WithIn - copy with the value at a path replaced, intermediate maps are created
func (m Map) WithIn(path []string, value Value) Map {
	if 0 == len(path) {
		return m
	}
	if 1 == len(path) {
		return m.With(path[0], value)
	}
	return m.With(path[0], m.GetMap(path[0]).WithIn(path[1:], value))
}

// Without - copy with a field removed
func (m Map) Without(key string) Map {
	if !m.Has(key) {
		return m
	}
	return Map{fields: m.tree().Delete(key)}
}

// Each - visit fields in key order
func (m Map) Each(f func(key string, value Value)) {
	itr := m.tree().Iterator()
	for !itr.Done() {
		k, v, _ := itr.Next()
		f(k, v)
	}
}
