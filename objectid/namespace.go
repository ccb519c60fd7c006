// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package objectid

// object spaces
const (
	ProtocolSpace       = 1
	ImplementationSpace = 2
)

// protocol space object types
var (
	Account           = Namespace{ProtocolSpace, 2}
	Asset             = Namespace{ProtocolSpace, 3}
	ForceSettlement   = Namespace{ProtocolSpace, 4}
	CommitteeMember   = Namespace{ProtocolSpace, 5}
	Witness           = Namespace{ProtocolSpace, 6}
	LimitOrder        = Namespace{ProtocolSpace, 7}
	CallOrder         = Namespace{ProtocolSpace, 8}
	Custom            = Namespace{ProtocolSpace, 9}
	Proposal          = Namespace{ProtocolSpace, 10}
	OperationHistory  = Namespace{ProtocolSpace, 11}
	WithdrawPermision = Namespace{ProtocolSpace, 12}
	VestingBalance    = Namespace{ProtocolSpace, 13}
	Worker            = Namespace{ProtocolSpace, 14}
	Balance           = Namespace{ProtocolSpace, 15}
	Tournament        = Namespace{ProtocolSpace, 16}
	TournamentDetails = Namespace{ProtocolSpace, 17}
)

// implementation space object types
var (
	GlobalProperty     = Namespace{ImplementationSpace, 0}
	HeadState          = Namespace{ImplementationSpace, 1}
	AssetDynamicData   = Namespace{ImplementationSpace, 3}
	BitassetData       = Namespace{ImplementationSpace, 4}
	AccountBalance     = Namespace{ImplementationSpace, 5}
	AccountStatistics  = Namespace{ImplementationSpace, 6}
	Transaction        = Namespace{ImplementationSpace, 7}
	BlockSummary       = Namespace{ImplementationSpace, 8}
	TransactionHistory = Namespace{ImplementationSpace, 9}
)

// well known singletons and starting points
var (
	// the dynamic global properties object
	HeadStateObject = HeadState.Id(0)

	// "start at now" marker for history queries
	OperationHistoryStart = OperationHistory.Id(0)

	// lowest tournament id used when probing for the most recent one
	TournamentStart = Tournament.Id(0)
)

var names = map[Namespace]string{
	Account:            "account",
	Asset:              "asset",
	ForceSettlement:    "force-settlement",
	CommitteeMember:    "committee-member",
	Witness:            "witness",
	LimitOrder:         "limit-order",
	CallOrder:          "call-order",
	Custom:             "custom",
	Proposal:           "proposal",
	OperationHistory:   "operation-history",
	WithdrawPermision:  "withdraw-permission",
	VestingBalance:     "vesting-balance",
	Worker:             "worker",
	Balance:            "balance",
	Tournament:         "tournament",
	TournamentDetails:  "tournament-details",
	GlobalProperty:     "global-property",
	HeadState:          "head-state",
	AssetDynamicData:   "asset-dynamic-data",
	BitassetData:       "bitasset-data",
	AccountBalance:     "account-balance",
	AccountStatistics:  "account-stats",
	Transaction:        "transaction",
	BlockSummary:       "block-summary",
	TransactionHistory: "transaction-history",
}
