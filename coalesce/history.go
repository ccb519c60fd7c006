// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coalesce

import (
	"sync"
)

type pendingHistory struct {
	extra  uint
	future *Future
}

// History - at most one history request per account in flight
//
// a request arriving while one is outstanding is counted and shares
// the outstanding future; when the outstanding fetch completes with a
// nonzero count exactly one more fetch is run before the future resolves
type History struct {
	sync.Mutex
	pending map[string]*pendingHistory
}

// NewHistory - empty set of pending requests
func NewHistory() *History {
	return &History{
		pending: make(map[string]*pendingHistory),
	}
}

// Begin - register a request for key
//
// start is true when the caller must issue the fetch and report its
// outcome with Complete, otherwise the returned future is the one of
// the request already in flight
func (h *History) Begin(key string) (future *Future, start bool) {
	h.Lock()
	defer h.Unlock()

	if p, ok := h.pending[key]; ok {
		p.extra += 1
		return p.future, false
	}
	p := &pendingHistory{future: NewFuture()}
	h.pending[key] = p
	return p.future, true
}

// Complete - report the outcome of a fetch
//
// again is true if requests arrived meanwhile: the counter is consumed
// and the caller must fetch once more, the future stays unresolved;
// otherwise the future is resolved with err and the entry removed
func (h *History) Complete(key string, err error) (again bool) {
	h.Lock()
	defer h.Unlock()

	p, ok := h.pending[key]
	if !ok {
		return false
	}
	if p.extra > 0 && nil == err {
		p.extra = 0
		return true
	}
	delete(h.pending, key)
	p.future.Resolve(err)
	return false
}

// Extra - requests counted while key is in flight, -1 if idle
func (h *History) Extra(key string) int {
	h.Lock()
	defer h.Unlock()

	p, ok := h.pending[key]
	if !ok {
		return -1
	}
	return int(p.extra)
}

// Len - accounts with a request in flight
func (h *History) Len() int {
	h.Lock()
	defer h.Unlock()
	return len(h.pending)
}

// Reset - resolve every outstanding future with err and forget them
func (h *History) Reset(err error) {
	h.Lock()
	defer h.Unlock()

	for key, p := range h.pending {
		p.future.Resolve(err)
		delete(h.pending, key)
	}
}
