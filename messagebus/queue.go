// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"
)

// internal constants
const (
	defaultQueueSize = 1000
)

// Message - one event
type Message struct {
	Command    string
	Parameters interface{}
}

// BroadcastQueue - fan-out of messages to every listener
type BroadcastQueue struct {
	sync.Mutex

	listeners []chan Message
	dropped   uint64
}

// New - broadcast queue without listeners
func New() *BroadcastQueue {
	return &BroadcastQueue{}
}

// Send - queue a message for every current listener
func (b *BroadcastQueue) Send(command string, parameters interface{}) {
	m := Message{
		Command:    command,
		Parameters: parameters,
	}

	b.Lock()
	defer b.Unlock()

	for _, l := range b.listeners {
		select {
		case l <- m:
		default:
			b.dropped += 1
		}
	}
}

// Chan - register a listener, size zero selects the default queue size
func (b *BroadcastQueue) Chan(size int) <-chan Message {
	if size <= 0 {
		size = defaultQueueSize
	}
	c := make(chan Message, size)

	b.Lock()
	b.listeners = append(b.listeners, c)
	b.Unlock()
	return c
}

// Release - remove a listener, its channel is closed
func (b *BroadcastQueue) Release(c <-chan Message) {
	b.Lock()
	defer b.Unlock()

	for i, l := range b.listeners {
		if (<-chan Message)(l) == c {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(l)
			return
		}
	}
}

// Dropped - messages not delivered because a listener was full
func (b *BroadcastQueue) Dropped() uint64 {
	b.Lock()
	defer b.Unlock()
	return b.dropped
}
