// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/bitmark-inc/chainstore/cache"
	"github.com/bitmark-inc/chainstore/chaintime"
	"github.com/bitmark-inc/chainstore/object"
	"github.com/bitmark-inc/chainstore/objectid"
)

// fields of an account that are replaced as a whole, never merged
var accountSnapshotFields = []string{
	"active",
	"owner",
	"options",
	"pending_dividend_payments",
	"whitelisting_accounts",
	"blacklisting_accounts",
	"whitelisted_accounts",
	"blacklisted_accounts",
}

// push notification: a list of lists of changed objects and removed ids
func (s *Store) onUpdate(generation uint64, payload json.RawMessage) {
	s.events.Send(EventHeartbeat, nil)

	v, err := object.Parse(payload)
	if nil != err {
		s.log.Errorf("update: parse error: %s", err)
		return
	}
	groups, ok := v.(object.List)
	if !ok {
		s.log.Errorf("update: not a list: %s", payload)
		return
	}

	applied := s.apply(generation, func() {
		cancelled := []string{}
		closed := []string{}

		for _, group := range groups {
			items, ok := group.(object.List)
			if !ok {
				continue
			}
			for _, item := range items {
				switch o := item.(type) {
				case object.String:
					id := string(o)
					if !objectid.Valid(id) {
						s.log.Warnf("update: ignore: %q", id)
						continue
					}
					ns, _ := objectid.NamespaceOf(id)
					switch ns {
					case objectid.LimitOrder:
						cancelled = append(cancelled, id)
					case objectid.CallOrder:
						closed = append(closed, id)
					}
					s.removeObject(id, ns)

				case object.Map:
					s.updateObject(o, false)

				default:
					s.log.Warnf("update: ignore item of kind: %d", item.Kind())
				}
			}
		}

		if 0 != len(cancelled) {
			s.events.Send(EventCancelOrder, cancelled)
		}
		if 0 != len(closed) {
			s.events.Send(EventCloseCall, closed)
		}
	})
	if applied {
		s.hub.Notify()
	}
}

// must hold control
func (s *Store) removeObject(id string, ns objectid.Namespace) {
	old := s.cache.Get(id)
	if cache.Present == old.State {
		switch ns {
		case objectid.LimitOrder:
			s.removeFromAccountSet(object.LimitOrder{Map: old.Value}.Seller(), "orders", id)
		case objectid.CallOrder:
			s.removeFromAccountSet(object.CallOrder{Map: old.Value}.Borrower(), "call_orders", id)
		}
	}
	s.cache.MarkAbsent(id)
	s.metrics.removals.Inc()
	s.log.Debugf("removed: %s", id)
}

// is the object of a namespace worth keeping
func (s *Store) accepts(ns objectid.Namespace, o object.Map) bool {
	switch ns {
	case objectid.Transaction, objectid.OperationHistory, objectid.BlockSummary:
		return false
	case objectid.TransactionHistory:
		return s.IsSubscribedTo(Accounts, o.GetString("account"))
	case objectid.LimitOrder:
		return s.IsSubscribedTo(Accounts, o.GetString("seller"))
	case objectid.CallOrder:
		return s.IsSubscribedTo(Accounts, o.GetString("borrower"))
	case objectid.AccountBalance, objectid.AccountStatistics:
		return s.IsSubscribedTo(Accounts, o.GetString("owner"))
	case objectid.Witness:
		return s.IsSubscribedTo(Witnesses, o.Id())
	case objectid.CommitteeMember:
		return s.IsSubscribedTo(Committee, o.Id())
	}
	return true
}

// merge an object received from the node and maintain the indices
//
// must hold control; returns false if the object was discarded
func (s *Store) updateObject(update object.Map, notify bool) (object.Map, bool) {
	id := update.Id()
	if "" == id {
		if update.Has("balance") && update.Has("owner") && update.Has("settlement_date") {
			s.events.Send(EventSettleOrderUpdate, update)
		} else {
			s.log.Warnf("object with no id: %v", update.Keys())
		}
		return object.Map{}, false
	}

	ns, ok := objectid.NamespaceOf(id)
	if !ok {
		s.log.Warnf("invalid object id: %q", id)
		return object.Map{}, false
	}
	if !s.accepts(ns, update) {
		s.metrics.discarded.WithLabelValues(ns.String()).Inc()
		return object.Map{}, false
	}

	if objectid.HeadStateObject.String() == id {
		update = s.headState(update)
	}

	prior := s.cache.Get(id)
	current := cache.Merged(prior, update)

	// complete the value so that it is stored exactly once
	switch ns {
	case objectid.Account:
		for _, field := range accountSnapshotFields {
			if v, ok := update.Get(field); ok {
				current = current.With(field, v)
			}
		}
	case objectid.Asset:
		current = s.completeAsset(id, current)
	case objectid.AssetDynamicData, objectid.BitassetData:
		current = s.linkAssetData(id, current)
	}
	s.cache.Replace(id, current)
	s.metrics.updates.Inc()

	switch ns {
	case objectid.Account:
		if name := update.GetString("name"); "" != name {
			s.indices.AccountsByName.Set(name, id)
		}

	case objectid.Asset:
		if symbol := (object.Asset{Map: current}).Symbol(); "" != symbol {
			s.indices.AssetsBySymbol.Set(symbol, id)
		}

	case objectid.AssetDynamicData:
		s.embedInAsset(current, "dynamic")

	case objectid.BitassetData:
		s.embedInAsset(current, "bitasset")

	case objectid.AccountBalance:
		b := object.Balance{Map: current}
		// no-op if the owner is not cached, a later full account
		// fetch brings the balance
		s.cache.Update(b.Owner(), func(account object.Map) object.Map {
			return account.WithIn([]string{"balances", b.AssetType()}, object.String(id))
		})

	case objectid.AccountStatistics:
		priorOp := "2.9.0"
		if cache.Present == prior.State {
			priorOp = prior.Value.GetString("most_recent_op")
		}
		if priorOp != current.GetString("most_recent_op") {
			s.FetchRecentHistory(current.GetString("owner"), 0)
		}

	case objectid.Witness:
		w := object.Witness{Map: current}
		s.indices.WitnessesByAccount.Set(w.Account(), id)
		s.indices.AccountsByWitness.Set(id, w.Account())
		if vote := w.VoteId(); "" != vote {
			s.indices.ObjectsByVoteId.Set(vote, id)
		}

	case objectid.CommitteeMember:
		c := object.CommitteeMember{Map: current}
		s.indices.CommitteeByAccount.Set(c.Account(), id)
		if vote := c.VoteId(); "" != vote {
			s.indices.ObjectsByVoteId.Set(vote, id)
		}

	case objectid.Worker:
		w := object.Worker{Map: current}
		for _, vote := range []string{w.VoteFor(), w.VoteAgainst()} {
			if "" != vote {
				s.indices.ObjectsByVoteId.Set(vote, id)
			}
		}

	case objectid.LimitOrder:
		if s.addToAccountSet(object.LimitOrder{Map: current}.Seller(), "orders", id) {
			s.touch([]string{id})
		}

	case objectid.CallOrder:
		s.events.Send(EventCallOrderUpdate, current)
		if s.addToAccountSet(object.CallOrder{Map: current}.Borrower(), "call_orders", id) {
			s.touch([]string{id})
		}

	case objectid.Proposal:
		for _, account := range (object.Proposal{Map: current}).RequiredApprovals() {
			s.addToAccountSet(account, "proposals", id)
		}

	case objectid.Tournament:
		t := object.Tournament{Map: current}
		priorState := object.Tournament{Map: prior.Value}.State()
		s.indices.Tournaments.Transition(id, priorState, t.State(), t.Whitelist())
		s.indices.LastTournament.Observe(id)

	case objectid.TournamentDetails:
		d := object.TournamentDetails{Map: current}
		players := d.RegisteredPlayers()
		if !object.Equal(object.TournamentDetails{Map: prior.Value}.RegisteredPlayers(), players) {
			s.indices.Registrations.Register(d.TournamentId(), players)
		}
	}

	if notify {
		s.hub.Notify()
	}
	return current, true
}

// derive participation, sample the clock offset and rescan for a new head
func (s *Store) headState(update object.Map) object.Map {
	if slots, ok := update.GetNumber("recent_slots_filled"); ok {
		p := chaintime.Participation(string(slots))
		update = update.With("participation", object.Number(strconv.FormatFloat(p, 'f', -1, 64)))
	}

	if t := update.GetString("time"); "" != t {
		server, err := chaintime.ParseTime(t)
		if nil == err {
			s.offsets.Sample(server, s.now())
		}
		s.Lock()
		s.headTime = t
		s.Unlock()
	}

	if n, ok := update.GetNumber("last_irreversible_block_num"); ok {
		if irreversible, ok := n.Uint64(); ok {
			s.Lock()
			s.irreversible = irreversible
			s.Unlock()
		}
	}

	// the initial scan records the head it started from, until then
	// new heads are ignored
	if n, ok := update.GetNumber("head_block_number"); ok && s.scanner.LastProcessed() > 0 {
		if head, ok := n.Uint64(); ok {
			s.async(func(ctx context.Context, generation uint64) {
				err := s.scanner.Run(ctx, head)
				if nil != err {
					s.log.Errorf("scan to: %d  error: %s", head, err)
				}
			})
		}
	}
	return update
}

// embed the dynamic and bitasset data not yet present
func (s *Store) completeAsset(id string, current object.Map) object.Map {
	a := object.Asset{Map: current}
	if !current.Has("dynamic") && "" != a.DynamicDataId() {
		current = current.With("dynamic", s.assetData(id, a.DynamicDataId()))
	}
	if !current.Has("bitasset") && a.HasBitasset() {
		current = current.With("bitasset", s.assetData(id, a.BitassetDataId()))
	}
	return current
}

// the data object if cached, otherwise a placeholder carrying the back
// reference while the data is fetched
func (s *Store) assetData(assetId string, dataId string) object.Map {
	s.indices.AssetsByData.Set(dataId, assetId)

	e := s.cache.Get(dataId)
	if cache.Present == e.State {
		data := e.Value
		if !data.Has("asset_id") {
			data = data.With("asset_id", object.String(assetId))
			s.cache.Replace(dataId, data)
		}
		return data
	}

	_, err := s.FetchObject(dataId, true)
	if nil != err {
		s.log.Warnf("asset: %s  data: %s  error: %s", assetId, dataId, err)
	}
	return object.Map{}.With("asset_id", object.String(assetId))
}

// carry the back reference to the owning asset once it is known
func (s *Store) linkAssetData(id string, current object.Map) object.Map {
	if current.Has("asset_id") {
		return current
	}
	assetId, ok := s.indices.AssetsByData.Lookup(id)
	if !ok {
		return current
	}
	return current.With("asset_id", object.String(assetId))
}

// put a dynamic or bitasset data object into its asset
func (s *Store) embedInAsset(data object.Map, field string) {
	assetId := data.GetString("asset_id")
	if "" == assetId {
		return
	}

	var asset object.Map
	updated := s.cache.Update(assetId, func(a object.Map) object.Map {
		asset = a.With(field, data)
		return asset
	})
	if updated && "bitasset" == field {
		s.events.Send(EventBitassetUpdate, asset)
	}
}

// add id to a set field of a cached account, true if it was added
func (s *Store) addToAccountSet(accountId string, field string, id string) bool {
	added := false
	s.cache.Update(accountId, func(account object.Map) object.Map {
		set, _ := account.GetSet(field)
		if set.Contains(id) {
			return account
		}
		added = true
		return account.With(field, set.Add(id))
	})
	return added
}

func (s *Store) removeFromAccountSet(accountId string, field string, id string) {
	s.cache.Update(accountId, func(account object.Map) object.Map {
		set, ok := account.GetSet(field)
		if !ok || !set.Contains(id) {
			return account
		}
		return account.With(field, set.Remove(id))
	})
}
