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
	"github.com/bitmark-inc/chainstore/index"
	"github.com/bitmark-inc/chainstore/object"
	"github.com/bitmark-inc/chainstore/objectid"
	"github.com/bitmark-inc/chainstore/remote"
)

const witnessLookupLimit = 1000

// GetAccountRefsOfKey - ids of the accounts referencing a public key
func (s *Store) GetAccountRefsOfKey(key string) index.Entry[object.Set] {
	if s.indices.AccountsByKey.MarkPending(key) {
		s.async(func(ctx context.Context, generation uint64) {
			defer s.apply(generation, func() {
				s.indices.AccountsByKey.Revert(key)
			})

			raw, err := s.call(ctx, remote.Database, "get_key_references", []interface{}{[]string{key}})
			if nil != err {
				s.log.Errorf("key references: %s  error: %s", key, err)
				return
			}
			results, err := parseList(raw)
			if nil != err {
				s.log.Errorf("key references: %s  error: %s", key, err)
				return
			}
			refs := object.NewSet()
			if 0 != len(results) {
				refs = object.ToSet(results[0])
			}
			s.apply(generation, func() {
				s.indices.AccountsByKey.Set(key, refs)
				s.hub.Notify()
			})
		})
	}
	return s.indices.AccountsByKey.Get(key)
}

// GetBalanceObjects - ids of the balance objects claimable by an address
func (s *Store) GetBalanceObjects(address string) index.Entry[object.Set] {
	if s.indices.BalancesByAddress.MarkPending(address) {
		s.async(func(ctx context.Context, generation uint64) {
			defer s.apply(generation, func() {
				s.indices.BalancesByAddress.Revert(address)
			})

			raw, err := s.call(ctx, remote.Database, "get_balance_objects", []interface{}{[]string{address}})
			if nil != err {
				s.log.Errorf("balance objects: %s  error: %s", address, err)
				return
			}
			results, err := parseList(raw)
			if nil != err {
				s.log.Errorf("balance objects: %s  error: %s", address, err)
				return
			}
			s.apply(generation, func() {
				ids := object.NewSet()
				for _, item := range results {
					if b, ok := item.(object.Map); ok && "" != b.Id() {
						s.updateObject(b, false)
						ids = ids.Add(b.Id())
					}
				}
				s.indices.BalancesByAddress.Set(address, ids)
				s.hub.Notify()
			})
		})
	}
	return s.indices.BalancesByAddress.Get(address)
}

// GetWitnessById - the witness of an account, looked up if not known
func (s *Store) GetWitnessById(accountId string) (cache.Entry, error) {
	return s.memberByAccount(accountId, s.indices.WitnessesByAccount, Witnesses, s.FetchWitnessByAccount)
}

// GetCommitteeMemberById - the committee member of an account, looked
// up if not known
func (s *Store) GetCommitteeMemberById(accountId string) (cache.Entry, error) {
	return s.memberByAccount(accountId, s.indices.CommitteeByAccount, Committee, s.FetchCommitteeMemberByAccount)
}

func (s *Store) memberByAccount(accountId string, table *index.Table[string], kind SubscriptionKind, fetch func(context.Context, string) (object.Map, bool, error)) (cache.Entry, error) {
	if !objectid.Valid(accountId) {
		return cache.Entry{}, fault.ErrInvalidObjectId
	}

	e := table.Get(accountId)
	switch e.State {
	case cache.Unknown:
		if table.MarkPending(accountId) {
			s.async(func(ctx context.Context, generation uint64) {
				_, _, err := fetch(ctx, accountId)
				if nil != err {
					s.log.Errorf("%s of account: %s  error: %s", kind, accountId, err)
				}
			})
		}
		return cache.Entry{State: cache.Pending}, nil
	case cache.Pending:
		return cache.Entry{State: cache.Pending}, nil
	case cache.Absent:
		return cache.Entry{State: cache.Absent}, nil
	}

	s.SubscribeTo(kind, e.Value)
	return s.GetObject(e.Value, false)
}

// FetchWitnessByAccount - query the witness of an account
func (s *Store) FetchWitnessByAccount(ctx context.Context, accountId string) (object.Map, bool, error) {
	return s.fetchMember(ctx, accountId, "get_witness_by_account", "witness_account", s.indices.WitnessesByAccount, Witnesses)
}

// FetchCommitteeMemberByAccount - query the committee member of an account
func (s *Store) FetchCommitteeMemberByAccount(ctx context.Context, accountId string) (object.Map, bool, error) {
	return s.fetchMember(ctx, accountId, "get_committee_member_by_account", "committee_member_account", s.indices.CommitteeByAccount, Committee)
}

func (s *Store) fetchMember(ctx context.Context, accountId string, method string, accountField string, table *index.Table[string], kind SubscriptionKind) (object.Map, bool, error) {
	if !objectid.Valid(accountId) {
		return object.Map{}, false, fault.ErrInvalidObjectId
	}

	s.Lock()
	generation := s.generation
	s.Unlock()

	table.MarkPending(accountId)
	defer s.apply(generation, func() {
		table.Revert(accountId)
	})

	raw, err := s.call(ctx, remote.Database, method, []interface{}{accountId})
	if nil != err {
		return object.Map{}, false, err
	}
	v, err := object.Parse(raw)
	if nil != err {
		return object.Map{}, false, err
	}

	member, ok := v.(object.Map)
	if !ok || "" == member.Id() {
		s.apply(generation, func() {
			table.MarkAbsent(accountId)
			s.hub.Notify()
		})
		return object.Map{}, false, nil
	}

	s.SubscribeTo(kind, member.Id())
	result := member
	s.apply(generation, func() {
		table.Set(member.GetString(accountField), member.Id())
		if current, ok := s.updateObject(member, true); ok {
			result = current
		}
	})
	return result, true, nil
}

// FetchWitnessAccounts - ids of every witness, active or not
func (s *Store) FetchWitnessAccounts(ctx context.Context) ([]string, error) {
	raw, err := s.call(ctx, remote.Database, "lookup_witness_accounts", []interface{}{0, witnessLookupLimit})
	if nil != err {
		return nil, err
	}
	list, err := parseList(raw)
	if nil != err {
		return nil, err
	}

	// pairs of [account name, witness id]
	s.Lock()
	defer s.Unlock()
	for _, item := range list {
		pair, ok := item.(object.List)
		if !ok || 2 != len(pair) {
			continue
		}
		if id, ok := pair[1].(object.String); ok {
			s.witnesses = s.witnesses.Add(string(id))
		}
	}
	return s.witnesses.Items(), nil
}

// GetWitnessAccount - the account object of a witness
func (s *Store) GetWitnessAccount(ctx context.Context, witnessId string) (object.Map, error) {
	if !objectid.Valid(witnessId) {
		return object.Map{}, fault.ErrInvalidObjectId
	}
	if v, ok := s.witnessAccounts.Get(witnessId); ok {
		return v.(object.Map), nil
	}

	witness, ok, err := s.GetSimpleObjectById(ctx, witnessId)
	if nil != err {
		return object.Map{}, err
	}
	if !ok {
		return object.Map{}, fault.ErrNotFound
	}
	accountId := object.Witness{Map: witness}.Account()
	if !objectid.Valid(accountId) {
		return object.Map{}, fault.ErrNotFound
	}
	account, ok, err := s.GetSimpleObjectById(ctx, accountId)
	if nil != err {
		return object.Map{}, err
	}
	if !ok {
		return object.Map{}, fault.ErrNotFound
	}

	s.indices.AccountsByWitness.Set(witnessId, accountId)
	s.witnessAccounts.Add(witnessId, account)
	return account, nil
}

// GetObjectsByVoteIds - objects for a list of vote ids
//
// ids already indexed resolve from the cache; all others are looked up
// with a single call and report Pending meanwhile
func (s *Store) GetObjectsByVoteIds(voteIds []string) []cache.Entry {
	found, missing := coalesce.Partition(voteIds, func(vote string) bool {
		state := s.indices.ObjectsByVoteId.Get(vote).State
		return cache.Present == state || cache.Absent == state
	})
	s.log.Debugf("vote ids found: %d  missing: %d", len(found), len(missing))

	if lookup := s.voteLookups.Claim(missing); 0 != len(lookup) {
		s.async(func(ctx context.Context, generation uint64) {
			defer s.apply(generation, func() {
				s.voteLookups.Release(lookup)
			})

			raw, err := s.call(ctx, remote.Database, "lookup_vote_ids", []interface{}{lookup})
			if nil != err {
				s.log.Errorf("lookup vote ids error: %s", err)
				return
			}
			results, err := parseList(raw)
			if nil != err {
				s.log.Errorf("lookup vote ids error: %s", err)
				return
			}
			s.apply(generation, func() {
				for i, vote := range lookup {
					if i >= len(results) {
						break
					}
					o, ok := results[i].(object.Map)
					if !ok || "" == o.Id() {
						s.indices.ObjectsByVoteId.MarkAbsent(vote)
						continue
					}
					s.indices.ObjectsByVoteId.Set(vote, o.Id())
					s.updateObject(o, false)
				}
				s.hub.Notify()
			})
		})
	}

	result := make([]cache.Entry, len(voteIds))
	for i, vote := range voteIds {
		result[i] = s.GetObjectByVoteId(vote)
	}
	return result
}

// GetObjectByVoteId - the object of an indexed vote id, Unknown if the
// vote id was never looked up
func (s *Store) GetObjectByVoteId(voteId string) cache.Entry {
	v := s.indices.ObjectsByVoteId.Get(voteId)
	switch v.State {
	case cache.Absent:
		return cache.Entry{State: cache.Absent}
	case cache.Present:
	default:
		if s.voteLookups.InFlight(voteId) {
			return cache.Entry{State: cache.Pending}
		}
		return cache.Entry{}
	}
	e, err := s.GetObject(v.Value, false)
	if nil != err {
		return cache.Entry{}
	}
	return e
}
