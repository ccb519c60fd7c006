// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package object

import (
	"hash/fnv"

	"github.com/benbjohnson/immutable"
)

type memberHasher struct{}

func (memberHasher) Hash(item string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(item))
	return h.Sum32()
}

func (memberHasher) Equal(a string, b string) bool {
	return a == b
}

type insertionOrder struct{}

func (insertionOrder) Compare(a uint64, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// shared by every empty Set
var (
	noMembers = immutable.NewMap[string, uint64](memberHasher{})
	noOrder   = immutable.NewSortedMap[uint64, string](insertionOrder{})
)

// Set - unordered collection of distinct strings (usually object ids)
//
// iteration follows insertion order; the zero value is an empty set
type Set struct {
	members *immutable.Map[string, uint64]       // item -> sequence
	order   *immutable.SortedMap[uint64, string] // sequence -> item
	next    uint64
}

func (Set) Kind() Kind { return KindSet }

// NewSet - build a set, duplicates are dropped
func NewSet(items ...string) Set {
	s := Set{}
	for _, item := range items {
		s = s.Add(item)
	}
	return s
}

// ToSet - convert a list of strings or a set into a set
func ToSet(v Value) Set {
	if s, ok := v.(Set); ok {
		return s
	}
	return NewSet(Strings(v)...)
}

func (s Set) trees() (*immutable.Map[string, uint64], *immutable.SortedMap[uint64, string]) {
	if nil == s.members {
		return noMembers, noOrder
	}
	return s.members, s.order
}

// Len - number of members
func (s Set) Len() int {
	members, _ := s.trees()
	return members.Len()
}

// Contains - membership test
func (s Set) Contains(item string) bool {
	members, _ := s.trees()
	_, ok := members.Get(item)
	return ok
}

// Add - new set including item, the receiver is returned if already a member
func (s Set) Add(item string) Set {
	if s.Contains(item) {
		return s
	}
	members, order := s.trees()
	return Set{
		members: members.Set(item, s.next),
		order:   order.Set(s.next, item),
		next:    s.next + 1,
	}
}

// Remove - new set without item, the receiver is returned if not a member
func (s Set) Remove(item string) Set {
	members, order := s.trees()
	seq, ok := members.Get(item)
	if !ok {
		return s
	}
	return Set{
		members: members.Delete(item),
		order:   order.Delete(seq),
		next:    s.next,
	}
}

// Items - copy of the members
func (s Set) Items() []string {
	_, order := s.trees()
	items := make([]string, 0, order.Len())
	itr := order.Iterator()
	for !itr.Done() {
		_, item, _ := itr.Next()
		items = append(items, item)
	}
	return items
}
