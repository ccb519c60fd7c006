// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package remote - access to the ledger node
//
// a query is "call" of (api, method, params) answered with a JSON
// result; updates to objects the client has read are delivered to a
// single notifier as [[object-or-id, ...]] where a bare id means the
// object was removed
package remote
