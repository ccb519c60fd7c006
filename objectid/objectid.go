// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package objectid

import (
	"strconv"
	"strings"

	"github.com/bitmark-inc/chainstore/fault"
)

// Id - a ledger object identifier: space.type.instance
type Id struct {
	Space    uint64
	Type     uint64
	Instance uint64
}

// Namespace - the (space, type) pair used to select handling rules
type Namespace struct {
	Space uint64
	Type  uint64
}

// Parse - convert text to an Id
//
// malformed text gives ErrInvalidObjectId; a well formed id with a
// part beyond 64 bits gives ErrObjectIdRange, such an id is still
// Valid and can be cached and fetched
func Parse(s string) (Id, error) {
	parts, ok := split(s)
	if !ok {
		return Id{}, fault.ErrInvalidObjectId
	}

	var n [3]uint64
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 64)
		if nil != err {
			return Id{}, fault.ErrObjectIdRange
		}
		n[i] = v
	}

	return Id{Space: n[0], Type: n[1], Instance: n[2]}, nil
}

// the three digit strings of an id
func split(s string) ([]string, bool) {
	parts := strings.Split(s, ".")
	if 3 != len(parts) {
		return nil, false
	}
	for _, p := range parts {
		if !isDigits(p) {
			return nil, false
		}
	}
	return parts, true
}

// MustParse - parse or panic, only for constant ids
func MustParse(s string) Id {
	id, err := Parse(s)
	if nil != err {
		panic("objectid: invalid constant: " + s)
	}
	return id
}

// Valid - check the textual form of an id: digits.digits.digits of
// any length
func Valid(s string) bool {
	_, ok := split(s)
	return ok
}

func isDigits(s string) bool {
	if 0 == len(s) {
		return false
	}
	for i := 0; i < len(s); i += 1 {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String - the canonical text form
func (id Id) String() string {
	return strconv.FormatUint(id.Space, 10) + "." +
		strconv.FormatUint(id.Type, 10) + "." +
		strconv.FormatUint(id.Instance, 10)
}

// Namespace - the (space, type) part of the id
func (id Id) Namespace() Namespace {
	return Namespace{Space: id.Space, Type: id.Type}
}

// In - check if the id belongs to a namespace
func (id Id) In(ns Namespace) bool {
	return id.Space == ns.Space && id.Type == ns.Type
}

// Id - build an id within this namespace
func (ns Namespace) Id(instance uint64) Id {
	return Id{Space: ns.Space, Type: ns.Type, Instance: instance}
}

// Prefix - the "space.type." text prefix
func (ns Namespace) Prefix() string {
	return strconv.FormatUint(ns.Space, 10) + "." + strconv.FormatUint(ns.Type, 10) + "."
}

// String - name of a well known namespace or its prefix
func (ns Namespace) String() string {
	if name, ok := names[ns]; ok {
		return name
	}
	return ns.Prefix() + "*"
}

// NamespaceOf - classify a textual id, the instance may be of any
// size; ok is false for malformed ids and for a space or type beyond
// 64 bits, which cannot be any known namespace
func NamespaceOf(s string) (Namespace, bool) {
	parts, ok := split(s)
	if !ok {
		return Namespace{}, false
	}
	space, err := strconv.ParseUint(parts[0], 10, 64)
	if nil != err {
		return Namespace{}, false
	}
	t, err := strconv.ParseUint(parts[1], 10, 64)
	if nil != err {
		return Namespace{}, false
	}
	return Namespace{Space: space, Type: t}, true
}

// CompareInstances - numeric order of the instances of two ids
//
// returns -1, 0 or +1; ok is false if either id is malformed
func CompareInstances(a string, b string) (int, bool) {
	pa, ok := split(a)
	if !ok {
		return 0, false
	}
	pb, ok := split(b)
	if !ok {
		return 0, false
	}
	x := strings.TrimLeft(pa[2], "0")
	y := strings.TrimLeft(pb[2], "0")
	switch {
	case len(x) < len(y):
		return -1, true
	case len(x) > len(y):
		return 1, true
	}
	return strings.Compare(x, y), true
}
