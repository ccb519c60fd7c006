// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package index

import (
	"sort"
	"sync"

	"github.com/bitmark-inc/chainstore/cache"
)

// Entry - state of one natural key
type Entry[T any] struct {
	State cache.State
	Value T
}

// Table - natural key to value with lookup state
type Table[T any] struct {
	sync.Mutex
	entries map[string]Entry[T]
}

// NewTable - empty table
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries: make(map[string]Entry[T]),
	}
}

// Get - entry for key, Unknown if never seen
func (t *Table[T]) Get(key string) Entry[T] {
	t.Lock()
	defer t.Unlock()
	return t.entries[key]
}

// Lookup - the value if present
func (t *Table[T]) Lookup(key string) (T, bool) {
	t.Lock()
	defer t.Unlock()
	e := t.entries[key]
	return e.Value, cache.Present == e.State
}

// MarkPending - start a lookup, false if the key is not Unknown
func (t *Table[T]) MarkPending(key string) bool {
	t.Lock()
	defer t.Unlock()
	if _, ok := t.entries[key]; ok {
		return false
	}
	var zero T
	t.entries[key] = Entry[T]{State: cache.Pending, Value: zero}
	return true
}

// Set - key is present with value
func (t *Table[T]) Set(key string, value T) {
	t.Lock()
	t.entries[key] = Entry[T]{State: cache.Present, Value: value}
	t.Unlock()
}

// Update - modify a present value, false if not present
func (t *Table[T]) Update(key string, f func(T) T) bool {
	t.Lock()
	defer t.Unlock()
	e, ok := t.entries[key]
	if !ok || cache.Present != e.State {
		return false
	}
	e.Value = f(e.Value)
	t.entries[key] = e
	return true
}

// MarkAbsent - the server confirmed there is no such key
func (t *Table[T]) MarkAbsent(key string) {
	var zero T
	t.Lock()
	t.entries[key] = Entry[T]{State: cache.Absent, Value: zero}
	t.Unlock()
}

// Revert - failed lookup goes back to Unknown, only from Pending
func (t *Table[T]) Revert(key string) bool {
	t.Lock()
	defer t.Unlock()
	e, ok := t.entries[key]
	if !ok || cache.Pending != e.State {
		return false
	}
	delete(t.entries, key)
	return true
}

// Forget - back to Unknown whatever the state
func (t *Table[T]) Forget(key string) {
	t.Lock()
	delete(t.entries, key)
	t.Unlock()
}

// Len - number of keys not Unknown
func (t *Table[T]) Len() int {
	t.Lock()
	defer t.Unlock()
	return len(t.entries)
}

// Keys - sorted keys that are present
func (t *Table[T]) Keys() []string {
	t.Lock()
	defer t.Unlock()
	keys := make([]string, 0, len(t.entries))
	for k, e := range t.entries {
		if cache.Present == e.State {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Clear - everything back to Unknown
func (t *Table[T]) Clear() {
	t.Lock()
	t.entries = make(map[string]Entry[T])
	t.Unlock()
}
