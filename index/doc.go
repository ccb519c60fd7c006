// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package index - secondary indices over the object cache
//
// every lookup table keeps the same states as the object cache so
// that "never asked" can be told apart from "asked and not found":
//
//   Unknown  no lookup made
//   Pending  lookup in flight
//   Absent   server has no such key
//   Present  key maps to a value (usually an object id)
//
// tournament indices are only maintained for the accounts and states
// that have been asked for, the empty account ("") stands for every
// account
package index
