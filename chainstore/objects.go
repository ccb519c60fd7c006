// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"context"

	"github.com/bitmark-inc/chainstore/cache"
	"github.com/bitmark-inc/chainstore/chaintime"
	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/object"
	"github.com/bitmark-inc/chainstore/objectid"
	"github.com/bitmark-inc/chainstore/remote"
)

// MemberStatus - membership class of an account
type MemberStatus string

// membership classes, Undetermined while the account is not resolved
const (
	Undetermined   MemberStatus = ""
	UnknownMember  MemberStatus = "unknown"
	LifetimeMember MemberStatus = "lifetime"
	BasicMember    MemberStatus = "basic"
	AnnualMember   MemberStatus = "annual"
)

// GetObject - cached state of an object, fetching it if never asked
// for or if force is set
func (s *Store) GetObject(id string, force bool) (cache.Entry, error) {
	if !objectid.Valid(id) {
		return cache.Entry{}, fault.ErrInvalidObjectId
	}

	e := s.cache.Get(id)
	if cache.Unknown == e.State || force {
		return s.FetchObject(id, force)
	}
	return e, nil
}

// FetchObject - start fetching an object unless already pending or
// resolved
//
// nothing is fetched before Init completes unless force is set;
// accounts are fetched as full accounts and witness and committee ids
// become subscribed
func (s *Store) FetchObject(id string, force bool) (cache.Entry, error) {
	if !objectid.Valid(id) {
		return cache.Entry{}, fault.ErrInvalidObjectId
	}
	if !force && !s.Subscribed() {
		return cache.Entry{}, nil
	}

	ns, _ := objectid.NamespaceOf(id)
	switch ns {
	case objectid.Account:
		return s.FetchFullAccount(id)
	case objectid.Witness:
		s.SubscribeTo(Witnesses, id)
	case objectid.CommitteeMember:
		s.SubscribeTo(Committee, id)
	}

	if !s.cache.MarkPending(id) {
		return s.cache.Get(id), nil
	}
	s.log.Debugf("fetch object: %s", id)

	s.async(func(ctx context.Context, generation uint64) {
		raw, err := s.call(ctx, remote.Database, "get_objects", []interface{}{[]string{id}})
		if nil == err {
			var o object.Map
			o, err = firstObject(raw)
			if nil == err {
				s.apply(generation, func() {
					if 0 == o.Len() {
						s.cache.MarkAbsent(id)
						s.hub.Notify()
						return
					}
					if _, ok := s.updateObject(o, true); ok {
						s.simpleObjects.Add(id, o)
					}
				})
			}
		}
		if nil != err {
			s.log.Errorf("fetch object: %s  error: %s", id, err)
		}
		// failed or discarded, a later get retries
		s.apply(generation, func() {
			s.cache.Revert(id)
		})
	})

	return cache.Entry{State: cache.Pending}, nil
}

// GetSimpleObjectById - an object read once from the node and kept in
// a bounded cache, it is never updated
func (s *Store) GetSimpleObjectById(ctx context.Context, id string) (object.Map, bool, error) {
	if !objectid.Valid(id) {
		return object.Map{}, false, fault.ErrInvalidObjectId
	}
	if v, ok := s.simpleObjects.Get(id); ok {
		return v.(object.Map), true, nil
	}

	raw, err := s.call(ctx, remote.Database, "get_objects", []interface{}{[]string{id}})
	if nil != err {
		return object.Map{}, false, err
	}
	o, err := firstObject(raw)
	if nil != err {
		return object.Map{}, false, err
	}
	if 0 == o.Len() {
		return object.Map{}, false, nil
	}
	s.simpleObjects.Add(id, o)
	return o, true, nil
}

// GetAsset - an asset by id or symbol
//
// a market pegged asset stays Pending until its bitasset data carries
// a current feed
func (s *Store) GetAsset(idOrSymbol string) (cache.Entry, error) {
	if "" == idOrSymbol {
		return cache.Entry{State: cache.Absent}, nil
	}
	if objectid.Valid(idOrSymbol) {
		return assetEntry(s.GetObject(idOrSymbol, false))
	}

	symbol := idOrSymbol
	e := s.indices.AssetsBySymbol.Get(symbol)
	switch e.State {
	case cache.Present:
		return assetEntry(s.GetObject(e.Value, false))
	case cache.Absent:
		return cache.Entry{State: cache.Absent}, nil
	case cache.Pending:
		return cache.Entry{State: cache.Pending}, nil
	}

	if s.indices.AssetsBySymbol.MarkPending(symbol) {
		s.async(func(ctx context.Context, generation uint64) {
			raw, err := s.call(ctx, remote.Database, "lookup_asset_symbols", []interface{}{[]string{symbol}})
			if nil == err {
				var a object.Map
				a, err = firstObject(raw)
				if nil == err {
					s.apply(generation, func() {
						if 0 == a.Len() {
							s.indices.AssetsBySymbol.MarkAbsent(symbol)
							s.hub.Notify()
							return
						}
						s.updateObject(a, true)
					})
				}
			}
			if nil != err {
				s.log.Errorf("lookup asset: %s  error: %s", symbol, err)
			}
			s.apply(generation, func() {
				s.indices.AssetsBySymbol.Revert(symbol)
			})
		})
	}
	return cache.Entry{State: cache.Pending}, nil
}

func assetEntry(e cache.Entry, err error) (cache.Entry, error) {
	if nil != err || cache.Present != e.State {
		return e, err
	}
	a := object.Asset{Map: e.Value}
	if a.HasBitasset() {
		b, ok := a.Bitasset()
		if !ok || !b.Has("current_feed") {
			return cache.Entry{State: cache.Pending}, nil
		}
	}
	return e, nil
}

// GetAccount - an account by name or id, a full account fetch is
// started if it is not cached with its name
func (s *Store) GetAccount(nameOrId string) (cache.Entry, error) {
	if "" == nameOrId {
		return cache.Entry{State: cache.Absent}, nil
	}

	if objectid.Valid(nameOrId) {
		e, err := s.GetObject(nameOrId, false)
		if nil != err {
			return e, err
		}
		if cache.Absent == e.State {
			return e, nil
		}
		if cache.Present == e.State && e.Value.Has("name") {
			return e, nil
		}
		return s.FetchFullAccount(nameOrId)
	}

	if !objectid.ValidAccountName(nameOrId, true) {
		return cache.Entry{}, fault.ErrInvalidAccountName
	}

	e := s.indices.AccountsByName.Get(nameOrId)
	switch e.State {
	case cache.Absent:
		return cache.Entry{State: cache.Absent}, nil
	case cache.Pending:
		return cache.Entry{State: cache.Pending}, nil
	case cache.Present:
		return s.GetObject(e.Value, false)
	}
	return s.FetchFullAccount(nameOrId)
}

// FetchFullAccount - fetch an account with its balances, orders,
// proposals and statistics in one call
//
// repeated requests for the same name or id inside the throttle window
// are not sent again and report Pending
func (s *Store) FetchFullAccount(nameOrId string) (cache.Entry, error) {
	byId := objectid.Valid(nameOrId)
	if byId {
		if ns, _ := objectid.NamespaceOf(nameOrId); objectid.Account != ns {
			return cache.Entry{}, fault.ErrInvalidObjectId
		}
		e := s.cache.Get(nameOrId)
		if cache.Present == e.State && e.Value.Has("name") {
			return e, nil
		}
	} else {
		if !objectid.ValidAccountName(nameOrId, true) {
			return cache.Entry{}, fault.ErrInvalidAccountName
		}
		if id, ok := s.indices.AccountsByName.Lookup(nameOrId); ok {
			return s.GetAccount(id)
		}
	}

	if !s.throttle.Attempt(nameOrId) {
		return cache.Entry{State: cache.Pending}, nil
	}

	revert := func() {
		if byId {
			s.cache.Revert(nameOrId)
		} else {
			s.indices.AccountsByName.Revert(nameOrId)
		}
	}
	if byId {
		s.cache.MarkPending(nameOrId)
	} else {
		s.indices.AccountsByName.MarkPending(nameOrId)
	}
	s.log.Debugf("fetch full account: %s", nameOrId)

	s.async(func(ctx context.Context, generation uint64) {
		defer s.apply(generation, revert)

		raw, err := s.call(ctx, remote.Database, "get_full_accounts", []interface{}{[]string{nameOrId}, true})
		if nil != err {
			s.log.Errorf("full account: %s  error: %s", nameOrId, err)
			return
		}
		results, err := parseList(raw)
		if nil != err {
			s.log.Errorf("full account: %s  error: %s", nameOrId, err)
			return
		}

		s.apply(generation, func() {
			if 0 == len(results) {
				if byId {
					s.cache.MarkAbsent(nameOrId)
				} else {
					s.indices.AccountsByName.MarkAbsent(nameOrId)
				}
				s.hub.Notify()
				return
			}

			// each result is a pair [name or id, full account]
			pair, ok := results[0].(object.List)
			if !ok || len(pair) < 2 {
				s.log.Errorf("full account: %s  bad result", nameOrId)
				return
			}
			full, ok := pair[1].(object.Map)
			if !ok {
				s.log.Errorf("full account: %s  bad result", nameOrId)
				return
			}
			s.applyFullAccount(full)
		})
	})

	return cache.Entry{State: cache.Pending}, nil
}

// must hold control
func (s *Store) applyFullAccount(full object.Map) {
	account := full.GetMap("account")
	id := account.Id()
	if "" == id {
		s.log.Warn("full account without account id")
		return
	}
	s.SubscribeTo(Accounts, id)
	if name := account.GetString("name"); "" != name {
		s.indices.AccountsByName.Set(name, id)
	}

	for _, field := range []string{"referrer_name", "lifetime_referrer_name", "registrar_name"} {
		if v, ok := full.Get(field); ok {
			account = account.With(field, v)
		}
	}

	touch := []string{}
	each := func(field string, f func(o object.Map)) {
		v, _ := full.Get(field)
		list, _ := v.(object.List)
		for _, item := range list {
			if o, ok := item.(object.Map); ok && "" != o.Id() {
				s.updateObject(o, false)
				f(o)
			}
		}
	}
	collect := func(field string, subscribe bool) object.Set {
		set := object.NewSet()
		each(field, func(o object.Map) {
			set = set.Add(o.Id())
			if subscribe {
				touch = append(touch, o.Id())
			}
		})
		return set
	}

	vesting := collect("vesting_balances", false)
	each("votes", func(object.Map) {})

	balances := object.Map{}
	each("balances", func(o object.Map) {
		balances = balances.With(o.GetString("asset_type"), object.String(o.Id()))
		touch = append(touch, o.Id())
	})

	orders := collect("limit_orders", true)
	dividends := collect("pending_dividend_payments", true)
	callOrders := collect("call_orders", true)
	proposals := collect("proposals", true)

	// have the node push changes of these objects
	s.touch(touch)

	if statistics := full.GetMap("statistics"); 0 != statistics.Len() {
		s.updateObject(statistics, false)
	}

	account = account.
		With("vesting_balances", vesting).
		With("balances", balances).
		With("orders", orders).
		With("pending_dividend_payments", dividends).
		With("call_orders", callOrders).
		With("proposals", proposals)
	s.updateObject(account, false)

	s.FetchRecentHistory(id, 0)
	s.hub.Notify()
}

// GetAccountBalance - balance of an asset held by an account, zero if
// not known
func (s *Store) GetAccountBalance(account object.Map, assetType string) object.Number {
	id := object.Account{Map: account}.Balances().GetString(assetType)
	if "" != id {
		e := s.cache.Get(id)
		if cache.Present == e.State {
			if n, ok := e.Value.GetNumber("balance"); ok {
				return n
			}
		}
	}
	return object.Int(0)
}

// GetAccountMemberStatus - membership class of an account entry
func (s *Store) GetAccountMemberStatus(e cache.Entry) MemberStatus {
	switch e.State {
	case cache.Absent:
		return UnknownMember
	case cache.Present:
	default:
		return Undetermined
	}

	account := e.Value
	if account.GetString("lifetime_referrer") == account.Id() {
		return LifetimeMember
	}
	expires, err := chaintime.ParseTime(account.GetString("membership_expiration_date"))
	if nil != err || expires.Before(s.now()) {
		return BasicMember
	}
	return AnnualMember
}
