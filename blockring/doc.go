// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockring - bounded buffers of recent blocks and operations
//
// PushFront is used as new blocks arrive at the head; Append is used by
// the initial backwards scan which meets older blocks as it proceeds
package blockring
