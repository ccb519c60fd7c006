// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - on-disk store of immutable ledger data
//
// a LevelDB database split into pools, each pool is defined by a
// prefix byte; only data that can never change is kept so the store
// stays valid across reconnects and cache resets
//
// Notes:
// 1. ++           = concatenation of byte data
// 2. block number = big endian uint64 (8 bytes)
//
//   B ++ block number    - irreversible block
//                          data: block JSON as returned by get_block
//   W ++ witness id      - witness account name
//                          data: account name
//
//   0x00 ++ "VERSION"    - database version (big endian uint32)
package storage
