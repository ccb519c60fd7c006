// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"context"
	"time"

	"github.com/bitmark-inc/chainstore/cache"
	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/subscription"
)

// Getter - one of the non-blocking queries, e.g. GetObject with force
// bound to false
type Getter func(key string) (cache.Entry, error)

// FetchChain - wait until every key resolves to present or absent
//
// the getter is re-evaluated after each change notification; a zero
// timeout selects the configured fetch timeout and ErrTimeout is
// returned when it expires first
func (s *Store) FetchChain(ctx context.Context, get Getter, keys []string, timeout time.Duration) ([]cache.Entry, error) {
	if timeout <= 0 {
		timeout = milliseconds(s.configuration.FetchTimeout)
	}

	entries, done, err := evaluate(get, keys)
	if nil != err || done {
		return entries, err
	}

	signal := make(chan struct{}, 1)
	observer := subscription.Func(func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	err = s.hub.Subscribe(observer)
	if nil != err {
		return nil, err
	}
	defer s.hub.Unsubscribe(observer)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		// a change may have fired before the observer was added
		entries, done, err = evaluate(get, keys)
		if nil != err || done {
			return entries, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			s.log.Debugf("fetch chain: %v  timeout", keys)
			return nil, fault.ErrTimeout
		case <-signal:
		}
	}
}

func evaluate(get Getter, keys []string) ([]cache.Entry, bool, error) {
	entries := make([]cache.Entry, len(keys))
	done := true
	for i, key := range keys {
		e, err := get(key)
		if nil != err {
			return nil, false, err
		}
		entries[i] = e
		if !e.Resolved() {
			done = false
		}
	}
	return entries, done, nil
}
