// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package object

// typed read-only views of the ledger object variants

// Account - 1.2.x
type Account struct{ Map }

func (a Account) Name() string { return a.GetString("name") }

// Orders - ids of the open limit orders
func (a Account) Orders() Set {
	s, _ := a.GetSet("orders")
	return s
}

// CallOrders - ids of the open margin positions
func (a Account) CallOrders() Set {
	s, _ := a.GetSet("call_orders")
	return s
}

// Proposals - ids of proposals requiring this account's approval
func (a Account) Proposals() Set {
	s, _ := a.GetSet("proposals")
	return s
}

// Balances - asset id to balance object id
func (a Account) Balances() Map { return a.GetMap("balances") }

// Asset - 1.3.x
type Asset struct{ Map }

func (a Asset) Symbol() string         { return a.GetString("symbol") }
func (a Asset) DynamicDataId() string  { return a.GetString("dynamic_asset_data_id") }
func (a Asset) BitassetDataId() string { return a.GetString("bitasset_data_id") }
func (a Asset) HasBitasset() bool      { return "" != a.BitassetDataId() }

// Bitasset - the embedded bitasset data, if resolved
func (a Asset) Bitasset() (Map, bool) {
	v, _ := a.Get("bitasset")
	b, ok := v.(Map)
	return b, ok
}

// Dynamic - the embedded dynamic data, if resolved
func (a Asset) Dynamic() (Map, bool) {
	v, _ := a.Get("dynamic")
	d, ok := v.(Map)
	return d, ok
}

// LimitOrder - 1.7.x
type LimitOrder struct{ Map }

func (o LimitOrder) Seller() string { return o.GetString("seller") }

// CallOrder - 1.8.x
type CallOrder struct{ Map }

func (o CallOrder) Borrower() string { return o.GetString("borrower") }

// Balance - 2.5.x account balance
type Balance struct{ Map }

func (b Balance) Owner() string     { return b.GetString("owner") }
func (b Balance) AssetType() string { return b.GetString("asset_type") }

// Witness - 1.6.x
type Witness struct{ Map }

func (w Witness) Account() string { return w.GetString("witness_account") }
func (w Witness) VoteId() string  { return w.GetString("vote_id") }

// CommitteeMember - 1.5.x
type CommitteeMember struct{ Map }

func (c CommitteeMember) Account() string { return c.GetString("committee_member_account") }
func (c CommitteeMember) VoteId() string  { return c.GetString("vote_id") }

// Worker - 1.14.x
type Worker struct{ Map }

func (w Worker) VoteFor() string     { return w.GetString("vote_for") }
func (w Worker) VoteAgainst() string { return w.GetString("vote_against") }

// Proposal - 1.10.x
type Proposal struct{ Map }

// RequiredApprovals - accounts listed in the owner and active approval lists
func (p Proposal) RequiredApprovals() []string {
	accounts := NewSet()
	for _, key := range []string{"required_active_approvals", "required_owner_approvals"} {
		v, _ := p.Get(key)
		for _, id := range Strings(v) {
			accounts = accounts.Add(id)
		}
	}
	return accounts.Items()
}

// Tournament - 1.16.x
type Tournament struct{ Map }

func (t Tournament) State() string     { return t.GetString("state") }
func (t Tournament) DetailsId() string { return t.GetString("tournament_details_id") }

// Whitelist - accounts allowed to join, empty means anyone
func (t Tournament) Whitelist() Set {
	v, _ := t.GetIn("options", "whitelist")
	return ToSet(v)
}

// TournamentDetails - 1.17.x
type TournamentDetails struct{ Map }

func (d TournamentDetails) TournamentId() string { return d.GetString("tournament_id") }

func (d TournamentDetails) RegisteredPlayers() Set {
	v, _ := d.Get("registered_players")
	return ToSet(v)
}
