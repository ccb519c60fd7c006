// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Chain store daemon for a Graphene node
//
// This program keeps a chain store synced with one node, keeps the
// accounts of a watch list subscribed and serves status and metrics
// over HTTP. Given arguments it instead runs one store command and
// prints the result as JSON.
package main
