// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package object

import (
	"strconv"
)

// Kind - discriminator of the variant tree
type Kind int

// all kinds
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindSet
	KindMap
)

// Value - any node of the tree
type Value interface {
	Kind() Kind
}

// Null - JSON null, also used for a removed object
type Null struct{}

// Bool - true/false
type Bool bool

// Number - decimal text exactly as received so 64 bit amounts
// never pass through a float
type Number string

// String - text
type String string

// List - ordered sequence
type List []Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (List) Kind() Kind   { return KindList }

// Int64 - integer value of a number, ok is false if not an integer
func (n Number) Int64() (int64, bool) {
	i, err := strconv.ParseInt(string(n), 10, 64)
	return i, nil == err
}

// Uint64 - unsigned integer value of a number
func (n Number) Uint64() (uint64, bool) {
	i, err := strconv.ParseUint(string(n), 10, 64)
	return i, nil == err
}

// Float64 - floating point value of a number
func (n Number) Float64() (float64, bool) {
	f, err := strconv.ParseFloat(string(n), 64)
	return f, nil == err
}

// Int - build a number from an integer
func Int(i int64) Number {
	return Number(strconv.FormatInt(i, 10))
}

// IsNull - true for nil or Null
func IsNull(v Value) bool {
	if nil == v {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Strings - the string elements of a list or set, other elements are skipped
func Strings(v Value) []string {
	switch t := v.(type) {
	case Set:
		return t.Items()
	case List:
		s := make([]string, 0, len(t))
		for _, e := range t {
			if str, ok := e.(String); ok {
				s = append(s, string(str))
			}
		}
		return s
	}
	return nil
}

// Equal - deep comparison
//
// a set compares equal to another set with the same members in any order
func Equal(a Value, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Bool:
		return x == b.(Bool)
	case Number:
		return x == b.(Number)
	case String:
		return x == b.(String)
	case List:
		y := b.(List)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Set:
		y := b.(Set)
		if x.Len() != y.Len() {
			return false
		}
		for _, s := range x.Items() {
			if !y.Contains(s) {
				return false
			}
		}
		return true
	case Map:
		y := b.(Map)
		if x.Len() != y.Len() {
			return false
		}
		equal := true
		x.Each(func(k string, v Value) {
			w, ok := y.Get(k)
			if !ok || !Equal(v, w) {
				equal = false
			}
		})
		return equal
	}
	return false
}
