// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coalesce

import (
	"sync"
)

// Partition - split keys into those already known and those missing
func Partition(keys []string, known func(string) bool) (found []string, missing []string) {
	for _, k := range keys {
		if known(k) {
			found = append(found, k)
		} else {
			missing = append(missing, k)
		}
	}
	return found, missing
}

// Batch - keys of batched lookups currently in flight
type Batch struct {
	sync.Mutex
	inflight map[string]struct{}
}

// NewBatch - nothing in flight
func NewBatch() *Batch {
	return &Batch{
		inflight: make(map[string]struct{}),
	}
}

// Claim - mark keys as in flight, returns only those not already
// claimed (duplicates within keys are collapsed)
func (b *Batch) Claim(keys []string) []string {
	b.Lock()
	defer b.Unlock()

	claimed := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := b.inflight[k]; ok {
			continue
		}
		b.inflight[k] = struct{}{}
		claimed = append(claimed, k)
	}
	return claimed
}

// Release - the lookup for keys has completed
func (b *Batch) Release(keys []string) {
	b.Lock()
	defer b.Unlock()

	for _, k := range keys {
		delete(b.inflight, k)
	}
}

// InFlight - check a single key
func (b *Batch) InFlight(key string) bool {
	b.Lock()
	defer b.Unlock()
	_, ok := b.inflight[key]
	return ok
}

// Reset - forget everything
func (b *Batch) Reset() {
	b.Lock()
	defer b.Unlock()
	b.inflight = make(map[string]struct{})
}
