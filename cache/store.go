// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/immutable"

	"github.com/bitmark-inc/chainstore/object"
)

// State - of a cache entry
type State int

// the possible states, the zero value is Unknown
const (
	Unknown State = iota
	Pending
	Absent
	Present
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Pending:
		return "pending"
	case Absent:
		return "absent"
	case Present:
		return "present"
	default:
		return "invalid"
	}
}

// Entry - state of one key, Value is only meaningful when Present
type Entry struct {
	State State
	Value object.Map
}

// Resolved - a definite answer is known
func (e Entry) Resolved() bool {
	return Present == e.State || Absent == e.State
}

type idHasher struct{}

func (idHasher) Hash(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}

func (idHasher) Equal(a string, b string) bool {
	return a == b
}

func emptyEntries() *immutable.Map[string, Entry] {
	return immutable.NewMap[string, Entry](idHasher{})
}

// Snapshot - immutable view of the whole store
type Snapshot struct {
	entries *immutable.Map[string, Entry]
}

// Get - the entry for a key, Unknown if never stored
func (s *Snapshot) Get(key string) Entry {
	if nil == s || nil == s.entries {
		return Entry{}
	}
	e, _ := s.entries.Get(key)
	return e
}

// Len - number of stored keys (any state other than Unknown)
func (s *Snapshot) Len() int {
	if nil == s || nil == s.entries {
		return 0
	}
	return s.entries.Len()
}

// Range - visit every key, stops early if f returns false
func (s *Snapshot) Range(f func(key string, entry Entry) bool) {
	if nil == s || nil == s.entries {
		return
	}
	itr := s.entries.Iterator()
	for !itr.Done() {
		key, entry, _ := itr.Next()
		if !f(key, entry) {
			return
		}
	}
}

// Store - the tri-state store
type Store struct {
	sync.Mutex // serialise writers
	current    atomic.Value
}

// New - create an empty store
func New() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{entries: emptyEntries()})
	return s
}

// Snapshot - the current immutable view
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load().(*Snapshot)
}

// Get - the entry for a key
func (s *Store) Get(key string) Entry {
	return s.Snapshot().Get(key)
}

// Len - number of stored keys
func (s *Store) Len() int {
	return s.Snapshot().Len()
}

// must hold lock
func (s *Store) set(key string, entry Entry) {
	entries := s.Snapshot().entries
	if Unknown == entry.State {
		entries = entries.Delete(key)
	} else {
		entries = entries.Set(key, entry)
	}
	s.current.Store(&Snapshot{entries: entries})
}

// MarkPending - Unknown -> Pending, returns false for any other state
func (s *Store) MarkPending(key string) bool {
	s.Lock()
	defer s.Unlock()

	if Unknown != s.Get(key).State {
		return false
	}
	s.set(key, Entry{State: Pending})
	return true
}

// Revert - Pending -> Unknown after a failed fetch, other states are untouched
func (s *Store) Revert(key string) bool {
	s.Lock()
	defer s.Unlock()

	if Pending != s.Get(key).State {
		return false
	}
	s.set(key, Entry{State: Unknown})
	return true
}

// MarkAbsent - the key is confirmed not to exist
func (s *Store) MarkAbsent(key string) {
	s.Lock()
	defer s.Unlock()

	s.set(key, Entry{State: Absent})
}

// Merge - merge an update into the entry and store it as Present
//
// returns the merged value and the previous entry
func (s *Store) Merge(key string, update object.Map) (object.Map, Entry) {
	s.Lock()
	defer s.Unlock()

	prior := s.Get(key)
	value := Merged(prior, update)
	s.set(key, Entry{State: Present, Value: value})
	return value, prior
}

// Merged - the value an update would leave without storing it
func Merged(prior Entry, update object.Map) object.Map {
	if Present != prior.State {
		return update
	}
	return object.Merge(prior.Value, update).(object.Map)
}

// Replace - store a value without merging
func (s *Store) Replace(key string, value object.Map) {
	s.Lock()
	defer s.Unlock()

	s.set(key, Entry{State: Present, Value: value})
}

// Update - read-modify-write of a Present entry under the writer lock
//
// f is not called and false is returned unless the entry is Present
func (s *Store) Update(key string, f func(object.Map) object.Map) bool {
	s.Lock()
	defer s.Unlock()

	e := s.Get(key)
	if Present != e.State {
		return false
	}
	s.set(key, Entry{State: Present, Value: f(e.Value)})
	return true
}

// Forget - drop a key back to Unknown whatever its state
func (s *Store) Forget(key string) {
	s.Lock()
	defer s.Unlock()

	s.set(key, Entry{State: Unknown})
}

// Clear - drop everything
func (s *Store) Clear() {
	s.Lock()
	defer s.Unlock()

	s.current.Store(&Snapshot{entries: emptyEntries()})
}
