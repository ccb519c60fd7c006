// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package subscription

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/chainstore/fault"
)

// DefaultInterval - debounce window when none is configured
const DefaultInterval = 40 * time.Millisecond

// Observer - receives a change signal, it must re-read the store to
// see what changed
type Observer interface {
	Changed()
}

type funcObserver struct {
	f func()
}

func (o *funcObserver) Changed() {
	o.f()
}

// Func - wrap a function as an Observer
//
// every call returns a distinct observer, keep the result to unsubscribe
func Func(f func()) Observer {
	return &funcObserver{f: f}
}

// Hub - observer registry with debounced fan-out
type Hub struct {
	sync.Mutex

	log       *logger.L
	observers []Observer
	interval  time.Duration
	scheduled bool
	timer     *time.Timer
	fired     func()
}

// New - create a hub, a zero interval selects the default
func New(log *logger.L, interval time.Duration) *Hub {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Hub{
		log:      log,
		interval: interval,
	}
}

// OnFire - hook called after every fan-out (used for metrics)
func (h *Hub) OnFire(f func()) {
	h.Lock()
	h.fired = f
	h.Unlock()
}

// SetInterval - change the debounce window, applies to the next schedule
func (h *Hub) SetInterval(interval time.Duration) {
	if interval <= 0 {
		return
	}
	h.Lock()
	h.interval = interval
	h.Unlock()
}

// Subscribe - add an observer
func (h *Hub) Subscribe(o Observer) error {
	h.Lock()
	defer h.Unlock()

	for _, existing := range h.observers {
		if existing == o {
			h.log.Warn("subscribe: callback already exists")
			return fault.ErrAlreadySubscribed
		}
	}
	h.observers = append(h.observers, o)
	return nil
}

// Unsubscribe - remove an observer
func (h *Hub) Unsubscribe(o Observer) error {
	h.Lock()
	defer h.Unlock()

	for i, existing := range h.observers {
		if existing == o {
			observers := make([]Observer, 0, len(h.observers)-1)
			observers = append(observers, h.observers[:i]...)
			h.observers = append(observers, h.observers[i+1:]...)
			return nil
		}
	}
	h.log.Warn("unsubscribe: callback does not exist")
	return fault.ErrNotSubscribed
}

// Len - number of observers
func (h *Hub) Len() int {
	h.Lock()
	defer h.Unlock()
	return len(h.observers)
}

// Notify - schedule a fan-out unless one is already scheduled
func (h *Hub) Notify() {
	h.Lock()
	defer h.Unlock()

	if h.scheduled {
		return
	}
	h.scheduled = true
	h.timer = time.AfterFunc(h.interval, h.fire)
}

// Pending - a fan-out is scheduled
func (h *Hub) Pending() bool {
	h.Lock()
	defer h.Unlock()
	return h.scheduled
}

// Stop - cancel any scheduled fan-out
func (h *Hub) Stop() {
	h.Lock()
	defer h.Unlock()

	if nil != h.timer {
		h.timer.Stop()
		h.timer = nil
	}
	h.scheduled = false
}

// observers are called without holding the lock so they may read
// the store or notify again
func (h *Hub) fire() {
	h.Lock()
	if !h.scheduled {
		h.Unlock()
		return
	}
	h.scheduled = false
	h.timer = nil
	observers := make([]Observer, len(h.observers))
	copy(observers, h.observers)
	fired := h.fired
	h.Unlock()

	h.log.Debugf("notify %d observers", len(observers))
	for _, o := range observers {
		o.Changed()
	}
	if nil != fired {
		fired()
	}
}
