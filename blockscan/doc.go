// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockscan - backwards walk of recent blocks
//
//  ***** States *****
//
//  Idle -> Scanning -> Idle
//
//  initial scan  head .. max(1, head - depth)  appends to the rings,
//                stops early once both rings are full
//  later scans   head .. last processed block   pushes to the front
//
//  a trigger arriving during a scan is remembered and run as soon as
//  the current scan completes
//
//  both rings are most recent first: blocks by descending number and
//  the operations of one block in reverse execution order
package blockscan
