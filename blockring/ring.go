// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockring

import (
	"sync"
)

// default capacities
const (
	BlockSize     = 20  // recent blocks
	OperationSize = 100 // recent operations
)

// Ring - fixed capacity sequence, most recent first
type Ring[T any] struct {
	sync.RWMutex // to allow locking

	ring  []T
	start int // index of the most recent item
	count int
}

// New - create an empty ring, capacity must be positive
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring[T]{
		ring: make([]T, capacity),
	}
}

// PushFront - add the most recent item, the oldest is evicted when full
func (r *Ring[T]) PushFront(item T) {
	r.Lock()
	defer r.Unlock()

	n := len(r.ring)
	r.start -= 1
	if r.start < 0 {
		r.start = n - 1
	}
	r.ring[r.start] = item
	if r.count < n {
		r.count += 1
	}
}

// Append - add an item older than all present, refused when full
func (r *Ring[T]) Append(item T) bool {
	r.Lock()
	defer r.Unlock()

	n := len(r.ring)
	if r.count >= n {
		return false
	}
	r.ring[(r.start+r.count)%n] = item
	r.count += 1
	return true
}

// Items - copy of the contents, most recent first
func (r *Ring[T]) Items() []T {
	r.RLock()
	defer r.RUnlock()

	items := make([]T, r.count)
	for i := 0; i < r.count; i += 1 {
		items[i] = r.ring[(r.start+i)%len(r.ring)]
	}
	return items
}

// Latest - most recent item
func (r *Ring[T]) Latest() (T, bool) {
	r.RLock()
	defer r.RUnlock()

	if 0 == r.count {
		var zero T
		return zero, false
	}
	return r.ring[r.start], true
}

// Len - number of items held
func (r *Ring[T]) Len() int {
	r.RLock()
	defer r.RUnlock()
	return r.count
}

// Cap - capacity
func (r *Ring[T]) Cap() int {
	return len(r.ring)
}

// Full - no free slot remains
func (r *Ring[T]) Full() bool {
	r.RLock()
	defer r.RUnlock()
	return r.count == len(r.ring)
}

// Clear - drop all items
func (r *Ring[T]) Clear() {
	r.Lock()
	defer r.Unlock()

	var zero T
	for i := range r.ring {
		r.ring[i] = zero
	}
	r.start = 0
	r.count = 0
}
