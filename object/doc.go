// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package object - immutable tree of ledger object fields
//
// every value is one of Null, Bool, Number, String, List, Set or Map;
// none of them are ever modified in place, operations that change a
// value return a new one that shares the untouched parts of the old
package object
