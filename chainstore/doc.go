// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainstore - local, continuously updated view of ledger objects
//
// a Store owns one connection's worth of state: the object cache,
// secondary indices, observers, pending request records, the block
// scanner and the clock offset window.
//
// query methods never block on the network, they return the current
// cache state and start a fetch if needed:
//
//   Unknown  not asked yet (or a fetch failed)
//   Pending  fetch in flight
//   Absent   the node has no such object
//   Present  the cached value
//
// results of remote calls and push notifications are applied one at a
// time under a single update lock; readers see atomic snapshots of the
// cache and never wait for that lock
package chainstore
