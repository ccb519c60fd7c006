// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"time"

	"github.com/bitmark-inc/chainstore/blockscan"
	"github.com/bitmark-inc/chainstore/chaintime"
	"github.com/bitmark-inc/chainstore/fault"
)

// GetHeadBlockDate - timestamp of the most recent head state
func (s *Store) GetHeadBlockDate() (time.Time, error) {
	s.Lock()
	headTime := s.headTime
	s.Unlock()

	if "" == headTime {
		return time.Time{}, fault.ErrNotInitialised
	}
	return chaintime.ParseTime(headTime)
}

// GetEstimatedChainTimeOffset - median of server minus local time
func (s *Store) GetEstimatedChainTimeOffset() time.Duration {
	return s.offsets.Median()
}

// GetEstimatedChainTime - local time corrected by the estimated offset
func (s *Store) GetEstimatedChainTime() time.Time {
	return s.now().Add(s.offsets.Median())
}

// Progress - fraction of time since chain start covered by the head block
func (s *Store) Progress() (float64, error) {
	head, err := s.GetHeadBlockDate()
	if nil != err {
		return 0, err
	}
	return chaintime.Progress(head, s.now()), nil
}

// GetRecentBlocks - most recent first
func (s *Store) GetRecentBlocks() []blockscan.Block {
	return s.scanner.Blocks()
}

// GetRecentOperations - most recent first, empty until the initial
// scan has completed
func (s *Store) GetRecentOperations() []blockscan.Operation {
	if !s.scanner.Initialised() {
		return []blockscan.Operation{}
	}
	return s.scanner.Operations()
}
