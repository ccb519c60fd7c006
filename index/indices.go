// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package index

import (
	"github.com/bitmark-inc/chainstore/object"
)

// Indices - every secondary index held by one chain store
type Indices struct {
	AccountsByName     *Table[string]     // name -> 1.2.x
	AssetsBySymbol     *Table[string]     // symbol -> 1.3.x
	ObjectsByVoteId    *Table[string]     // vote id -> witness, committee member or worker
	WitnessesByAccount *Table[string]     // 1.2.x -> 1.6.x
	CommitteeByAccount *Table[string]     // 1.2.x -> 1.5.x
	AccountsByWitness  *Table[string]     // 1.6.x -> 1.2.x
	AssetsByData       *Table[string]     // 2.3.x or 2.4.x -> 1.3.x
	AccountsByKey      *Table[object.Set] // public key -> account ids
	BalancesByAddress  *Table[object.Set] // address -> 1.15.x ids

	Tournaments    *Tournaments
	Registrations  *Registrations
	LastTournament *LastTournament
}

// New - empty indices
func New() *Indices {
	return &Indices{
		AccountsByName:     NewTable[string](),
		AssetsBySymbol:     NewTable[string](),
		ObjectsByVoteId:    NewTable[string](),
		WitnessesByAccount: NewTable[string](),
		CommitteeByAccount: NewTable[string](),
		AccountsByWitness:  NewTable[string](),
		AssetsByData:       NewTable[string](),
		AccountsByKey:      NewTable[object.Set](),
		BalancesByAddress:  NewTable[object.Set](),
		Tournaments:        NewTournaments(),
		Registrations:      NewRegistrations(),
		LastTournament:     &LastTournament{},
	}
}

// Clear - reset every index
func (i *Indices) Clear() {
	i.AccountsByName.Clear()
	i.AssetsBySymbol.Clear()
	i.ObjectsByVoteId.Clear()
	i.WitnessesByAccount.Clear()
	i.CommitteeByAccount.Clear()
	i.AccountsByWitness.Clear()
	i.AssetsByData.Clear()
	i.AccountsByKey.Clear()
	i.BalancesByAddress.Clear()
	i.Tournaments.Clear()
	i.Registrations.Clear()
	i.LastTournament.Reset()
}
