// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chainstore/cache"
	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/fixtures"
	"github.com/bitmark-inc/chainstore/index"
	"github.com/bitmark-inc/chainstore/object"
)

func TestVoteIds(t *testing.T) {
	f := newNode()
	f.Handle("lookup_vote_ids", func(params []interface{}) (interface{}, error) {
		result := []interface{}{}
		for _, vote := range params[0].([]string) {
			if "2:7" == vote {
				result = append(result, fixtures.Object(`{"id": "1.14.3", "vote_for": "2:7", "vote_against": "2:8"}`))
			} else {
				result = append(result, nil)
			}
		}
		return result, nil
	})
	s := readyStore(t, f)
	defer s.Close()

	entries := s.GetObjectsByVoteIds([]string{"2:7", "1:1"})
	assert.Equal(t, 2, len(entries), "wrong number of entries")

	waitFor(t, "vote lookup", func() bool {
		entries := s.GetObjectsByVoteIds([]string{"2:7", "1:1"})
		return cache.Present == entries[0].State && cache.Absent == entries[1].State
	})
	assert.Equal(t, 1, f.Calls("lookup_vote_ids"), "lookup repeated")

	// the worker indexes its other vote id too
	e := s.GetObjectByVoteId("2:8")
	assert.Equal(t, cache.Present, e.State, "vote against not indexed")
	assert.Equal(t, "1.14.3", e.Value.Id(), "wrong worker")

	assert.Equal(t, cache.Unknown, s.GetObjectByVoteId("1:99").State, "never looked up")
}

func TestVoteIdsInFlight(t *testing.T) {
	f := newNode()
	f.Handle("lookup_vote_ids", func(params []interface{}) (interface{}, error) {
		return []interface{}{nil}, nil
	})
	release := f.Gate("lookup_vote_ids")
	s := readyStore(t, f)
	defer s.Close()

	entries := s.GetObjectsByVoteIds([]string{"1:5"})
	assert.Equal(t, cache.Pending, entries[0].State, "wrong state")
	entries = s.GetObjectsByVoteIds([]string{"1:5"})
	assert.Equal(t, cache.Pending, entries[0].State, "wrong state")
	release()

	waitFor(t, "absent", func() bool { return cache.Absent == s.GetObjectByVoteId("1:5").State })
	assert.Equal(t, 1, f.Calls("lookup_vote_ids"), "in flight id looked up again")
}

func TestWitnessByAccount(t *testing.T) {
	f := newNode()
	f.Put(fixtures.Object(`{"id": "1.6.1", "witness_account": "1.2.9", "vote_id": "1:0"}`))
	f.Handle("get_witness_by_account", func(params []interface{}) (interface{}, error) {
		if "1.2.9" == params[0] {
			return fixtures.Object(`{"id": "1.6.1", "witness_account": "1.2.9", "vote_id": "1:0"}`), nil
		}
		return nil, nil
	})
	s := readyStore(t, f)
	defer s.Close()

	e, err := s.GetWitnessById("1.2.9")
	assert.Nil(t, err, "get error")
	assert.Equal(t, cache.Pending, e.State, "wrong state")

	waitFor(t, "witness", func() bool {
		e, _ := s.GetWitnessById("1.2.9")
		return cache.Present == e.State
	})
	assert.True(t, s.IsSubscribedTo(Witnesses, "1.6.1"), "witness not subscribed")
	assert.Equal(t, "1.6.1", s.GetObjectByVoteId("1:0").Value.Id(), "vote id not indexed")

	s.GetWitnessById("1.2.10")
	waitFor(t, "no witness", func() bool {
		e, _ := s.GetWitnessById("1.2.10")
		return cache.Absent == e.State
	})

	_, err = s.GetWitnessById("bob")
	assert.Equal(t, fault.ErrInvalidObjectId, err, "wrong error")
}

func TestCommitteeMemberByAccount(t *testing.T) {
	f := newNode()
	f.Handle("get_committee_member_by_account", func(params []interface{}) (interface{}, error) {
		return fixtures.Object(`{"id": "1.5.2", "committee_member_account": "1.2.11", "vote_id": "0:2"}`), nil
	})
	s := readyStore(t, f)
	defer s.Close()

	member, ok, err := s.FetchCommitteeMemberByAccount(context.Background(), "1.2.11")
	assert.Nil(t, err, "fetch error")
	assert.True(t, ok, "not found")
	assert.Equal(t, "1.5.2", member.Id(), "wrong member")

	assert.True(t, s.IsSubscribedTo(Committee, "1.5.2"), "member not subscribed")
	assert.Equal(t, cache.Present, stateOf(s, "1.5.2"), "member not cached")

	e, err := s.GetCommitteeMemberById("1.2.11")
	assert.Nil(t, err, "get error")
	assert.Equal(t, cache.Present, e.State, "member not indexed")
}

func TestWitnessAccounts(t *testing.T) {
	f := newNode()
	f.Put(
		fixtures.Object(`{"id": "1.6.1", "witness_account": "1.2.9"}`),
		fixtures.Object(`{"id": "1.2.9", "name": "init0"}`),
	)
	f.Handle("lookup_witness_accounts", func(params []interface{}) (interface{}, error) {
		return raw(`[["init0", "1.6.1"], ["init1", "1.6.2"]]`), nil
	})
	s := readyStore(t, f)
	defer s.Close()

	ctx := context.Background()
	ids, err := s.FetchWitnessAccounts(ctx)
	assert.Nil(t, err, "lookup error")
	assert.Equal(t, []string{"1.6.1", "1.6.2"}, ids, "wrong witnesses")

	account, err := s.GetWitnessAccount(ctx, "1.6.1")
	assert.Nil(t, err, "witness account error")
	assert.Equal(t, "init0", account.GetString("name"), "wrong account")

	_, err = s.GetWitnessAccount(ctx, "1.6.2")
	assert.Equal(t, fault.ErrNotFound, err, "wrong error")
}

func TestKeyReferences(t *testing.T) {
	f := newNode()
	f.Handle("get_key_references", func(params []interface{}) (interface{}, error) {
		return raw(`[["1.2.5", "1.2.6"]]`), nil
	})
	f.Handle("get_balance_objects", func(params []interface{}) (interface{}, error) {
		return raw(`[{"id": "1.15.4", "owner": "ADDR", "balance": {"amount": 1}}]`), nil
	})
	s := readyStore(t, f)
	defer s.Close()

	e := s.GetAccountRefsOfKey("KEY")
	assert.Equal(t, cache.Pending, e.State, "wrong state")
	var refs index.Entry[object.Set]
	waitFor(t, "key references", func() bool {
		refs = s.GetAccountRefsOfKey("KEY")
		return cache.Present == refs.State
	})
	assert.Equal(t, []string{"1.2.5", "1.2.6"}, refs.Value.Items(), "wrong references")

	var balances index.Entry[object.Set]
	waitFor(t, "balance objects", func() bool {
		balances = s.GetBalanceObjects("ADDR")
		return cache.Present == balances.State
	})
	assert.True(t, balances.Value.Contains("1.15.4"), "balance missing")
	assert.Equal(t, 1, f.Calls("get_balance_objects"), "looked up again")
}
