// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockscan

import (
	"context"
	"time"

	"github.com/bitmark-inc/chainstore/object"
)

// Source - where blocks come from
type Source interface {
	HeadBlockNumber(ctx context.Context) (uint64, error)
	Block(ctx context.Context, number uint64) (object.Map, error)
	WitnessAccountName(ctx context.Context, witnessId string) (string, error)
}

// Block - a scanned block
type Block struct {
	Number             uint64
	Timestamp          time.Time
	Witness            string
	WitnessAccountName string
	Value              object.Map
}

// Operation - one operation of a scanned block
type Operation struct {
	Tag         int
	Name        string
	Body        object.Map // includes block_id and created_at
	BlockNumber uint64
	Created     time.Time
}

// State - of the scanner
type State int

// scanner states
const (
	Idle State = iota
	Scanning
)

func (s State) String() string {
	if Scanning == s {
		return "scanning"
	}
	return "idle"
}
