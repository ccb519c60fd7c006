// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"context"

	"github.com/bitmark-inc/chainstore/cache"
	"github.com/bitmark-inc/chainstore/coalesce"
	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/object"
	"github.com/bitmark-inc/chainstore/objectid"
	"github.com/bitmark-inc/chainstore/remote"
)

// FetchRecentHistory - prepend the operations newer than the cached
// history to a cached account's "history" list
//
// a call while a fetch for the account is outstanding shares its
// future; the outstanding fetch then runs once more before resolving.
// a zero limit selects the configured history limit
func (s *Store) FetchRecentHistory(accountId string, limit int) *coalesce.Future {
	if !objectid.Valid(accountId) {
		return coalesce.Resolved(fault.ErrInvalidObjectId)
	}
	if cache.Present != s.cache.Get(accountId).State {
		return coalesce.Resolved(nil)
	}
	if limit <= 0 {
		limit = s.configuration.HistoryLimit
	}

	future, start := s.history.Begin(accountId)
	if !start {
		s.log.Debugf("history: %s  already in flight", accountId)
		return future
	}

	s.async(func(ctx context.Context, generation uint64) {
		for {
			err := s.fetchHistory(ctx, generation, accountId, limit)
			if nil != err {
				s.log.Errorf("history: %s  error: %s", accountId, err)
			}
			again := false
			s.apply(generation, func() {
				again = s.history.Complete(accountId, err)
			})
			if !again {
				return
			}
		}
	})
	return future
}

func (s *Store) fetchHistory(ctx context.Context, generation uint64, accountId string, limit int) error {
	start := objectid.OperationHistoryStart.String()

	mostRecent := start
	history := accountHistory(s.cache.Get(accountId).Value)
	if 0 != len(history) {
		if first, ok := history[0].(object.Map); ok && "" != first.Id() {
			mostRecent = first.Id()
		}
	}

	raw, err := s.call(ctx, remote.History, "get_account_history", []interface{}{accountId, mostRecent, limit, start})
	if nil != err {
		return err
	}
	operations, err := parseList(raw)
	if nil != err {
		return err
	}

	s.apply(generation, func() {
		updated := s.cache.Update(accountId, func(account object.Map) object.Map {
			current := accountHistory(account)
			merged := make(object.List, 0, len(operations)+len(current))
			merged = append(merged, operations...)
			merged = append(merged, current...)
			return account.With("history", merged)
		})
		if updated {
			s.hub.Notify()
		}
	})
	return nil
}

func accountHistory(account object.Map) object.List {
	v, _ := account.Get("history")
	list, _ := v.(object.List)
	return list
}
