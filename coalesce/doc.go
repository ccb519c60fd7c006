// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package coalesce - suppression of duplicate remote requests
//
//  AccountThrottle   name or id -> last attempt   (expires after the window)
//  History           account id -> {in flight, extra requests, future}
//  Batch             key -> in flight             (batched lookups)
package coalesce
