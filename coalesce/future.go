// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coalesce

import (
	"context"
	"sync"
)

// Future - completion of an asynchronous request shared by every
// caller that asked for it
type Future struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewFuture - an unresolved future
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved - an already completed future
func Resolved(err error) *Future {
	f := NewFuture()
	f.Resolve(err)
	return f
}

// Resolve - complete the future, later calls are ignored
func (f *Future) Resolve(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done - closed on completion
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Err - result, only valid after Done is closed
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Wait - block until completion or cancellation of ctx
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
