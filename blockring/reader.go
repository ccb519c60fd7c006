// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockring

// Reader - iterate a ring from the most recent item to the oldest
//
// the reader works on a copy so the ring may change during iteration
type Reader[T any] struct {
	items   []T
	current int
	item    T
}

// NewReader - start of ring iterator
func NewReader[T any](r *Ring[T]) *Reader[T] {
	return &Reader[T]{
		items:   r.Items(),
		current: 0,
	}
}

// Next - fetch the next older item
func (r *Reader[T]) Next() bool {
	if r.current >= len(r.items) {
		return false
	}
	r.item = r.items[r.current]
	r.current += 1
	return true
}

// Get - read the fetched value
func (r *Reader[T]) Get() T {
	return r.item
}
