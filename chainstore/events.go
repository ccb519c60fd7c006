// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

// commands sent on the event bus
const (
	EventHeartbeat         = "heartbeat"           // every push payload, nil
	EventCancelOrder       = "cancel-order"        // []string removed limit order ids
	EventCloseCall         = "close-call"          // []string removed call order ids
	EventSettleOrderUpdate = "settle-order-update" // object.Map without id
	EventBitassetUpdate    = "bitasset-update"     // object.Map asset with its new bitasset
	EventCallOrderUpdate   = "call-order-update"   // object.Map call order
)
