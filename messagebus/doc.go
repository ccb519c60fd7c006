// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - delivery of store events to interested parties
//
// sending never blocks: a message for a listener whose queue is full
// is dropped and counted
package messagebus
