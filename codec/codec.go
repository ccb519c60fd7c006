// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package codec - materialise ledger operations from their encoded form
package codec

import (
	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/object"
)

// Decoder - convert an encoded operation of a given type tag
type Decoder interface {
	Decode(tag int, data []byte) (object.Map, error)
}

// JSON - operations delivered as JSON objects by the node API
type JSON struct{}

// Decode - parse the operation body and annotate it with its name
func (JSON) Decode(tag int, data []byte) (object.Map, error) {
	if tag < 0 {
		return object.Map{}, fault.ErrInvalidPayload
	}
	m, err := object.ParseMap(data)
	if nil != err {
		return object.Map{}, err
	}
	return m, nil
}

// operation names indexed by tag
var operationNames = []string{
	"transfer",
	"limit_order_create",
	"limit_order_cancel",
	"call_order_update",
	"fill_order",
	"account_create",
	"account_update",
	"account_whitelist",
	"account_upgrade",
	"account_transfer",
	"asset_create",
	"asset_update",
	"asset_update_bitasset",
	"asset_update_feed_producers",
	"asset_issue",
	"asset_reserve",
	"asset_fund_fee_pool",
	"asset_settle",
	"asset_global_settle",
	"asset_publish_feed",
	"witness_create",
	"witness_update",
	"proposal_create",
	"proposal_update",
	"proposal_delete",
	"withdraw_permission_create",
	"withdraw_permission_update",
	"withdraw_permission_claim",
	"withdraw_permission_delete",
	"committee_member_create",
	"committee_member_update",
	"committee_member_update_global_parameters",
	"vesting_balance_create",
	"vesting_balance_withdraw",
	"worker_create",
	"custom",
	"assert",
	"balance_claim",
	"override_transfer",
	"transfer_to_blind",
	"blind_transfer",
	"transfer_from_blind",
	"asset_settle_cancel",
	"asset_claim_fees",
	"fba_distribute",
	"tournament_create",
	"tournament_join",
	"game_move",
	"tournament_payout",
	"tournament_leave",
}

// OperationName - name of a tag, "unknown" if not in the table
func OperationName(tag int) string {
	if tag < 0 || tag >= len(operationNames) {
		return "unknown"
	}
	return operationNames[tag]
}
