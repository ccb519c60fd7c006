// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaintime

import (
	"sort"
	"sync"
	"time"
)

// DefaultWindowSize - offset samples retained
const DefaultWindowSize = 10

// OffsetWindow - recent (server time - local time) samples
type OffsetWindow struct {
	sync.Mutex

	size    int
	samples []time.Duration
}

// NewOffsetWindow - create an empty window, zero selects the default size
func NewOffsetWindow(size int) *OffsetWindow {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &OffsetWindow{
		size:    size,
		samples: make([]time.Duration, 0, size),
	}
}

// Sample - record server time against the local clock
func (w *OffsetWindow) Sample(server time.Time, local time.Time) {
	w.Add(server.Sub(local))
}

// Add - record an offset, the oldest is dropped when the window is full
func (w *OffsetWindow) Add(offset time.Duration) {
	w.Lock()
	defer w.Unlock()

	if len(w.samples) >= w.size {
		copy(w.samples, w.samples[1:])
		w.samples = w.samples[:len(w.samples)-1]
	}
	w.samples = append(w.samples, offset)
}

// Median - the lower median of the samples, zero if none
func (w *OffsetWindow) Median() time.Duration {
	w.Lock()
	defer w.Unlock()

	n := len(w.samples)
	if 0 == n {
		return 0
	}
	sorted := make([]time.Duration, n)
	copy(sorted, w.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[(n-1)/2]
}

// Len - number of samples held
func (w *OffsetWindow) Len() int {
	w.Lock()
	defer w.Unlock()
	return len(w.samples)
}

// Reset - drop all samples
func (w *OffsetWindow) Reset() {
	w.Lock()
	defer w.Unlock()
	w.samples = w.samples[:0]
}
