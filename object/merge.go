// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package object

// Merge - combine an update into an existing value
//
// maps merge field by field recursively with the update winning each
// field; any other pairing takes the update as a whole (lists and sets
// are replaced, not concatenated)
func Merge(existing Value, update Value) Value {
	if nil == update {
		return existing
	}
	old, ok := existing.(Map)
	if !ok {
		return update
	}
	changes, ok := update.(Map)
	if !ok {
		return update
	}

	merged := old
	changes.Each(func(key string, v Value) {
		if prior, ok := merged.Get(key); ok {
			merged = merged.With(key, Merge(prior, v))
		} else {
			merged = merged.With(key, v)
		}
	})
	return merged
}
