// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package subscription - change observers with debounced notification
//
// any number of Notify calls inside one interval produce a single
// call of every observer, in subscription order, when the interval
// expires
package subscription
