// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cache - tri-state store of ledger objects
//
//  ***** Data Structure *****
//
//  Store
//  |___ current (atomic)  -> Snapshot
//                            |___ entries   immutable.Map   object id -> Entry
//
//  Entry.State   Unknown | Pending | Absent | Present(object.Map)
//
//  ***** Transitions *****
//
//  Unknown -> Pending            fetch issued
//  Pending -> Unknown            fetch failed
//  Pending -> Present | Absent   fetch answered
//  Present -> Present            merged update
//  Present -> Absent             removal notification
//
//  a Present entry is never set back to Pending
//
//  ***** Concurrency *****
//
//  every write builds a new map sharing untouched nodes with the old
//  one and swaps the snapshot pointer, readers holding a Snapshot never
//  observe a partial update; writers are serialised by a mutex
package cache
