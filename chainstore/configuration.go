// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"time"
)

// defaults for a zero valued Configuration field
const (
	defaultDispatchFrequency    = 40   // ms
	defaultFetchTimeout         = 1900 // ms
	defaultSyncRetries          = 5
	defaultSyncRetryInterval    = 1000 // ms
	defaultMaximumHeadAge       = 60   // s
	defaultScanDepth            = 2000
	defaultBlockRingSize        = 20
	defaultOperationRingSize    = 100
	defaultOffsetWindowSize     = 10
	defaultFullAccountThrottle  = 5000 // ms
	defaultHistoryLimit         = 100
	defaultWitnessCacheSize     = 1000
	defaultTournamentQueryLimit = 100
)

// Configuration - tunables of a chain store, zero selects the default
type Configuration struct {
	DispatchFrequency    int     `gluamapper:"dispatch_frequency" json:"dispatch_frequency"`   // milliseconds
	FetchTimeout         int     `gluamapper:"fetch_timeout" json:"fetch_timeout"`             // milliseconds
	SyncRetries          int     `gluamapper:"sync_retries" json:"sync_retries"`               //
	SyncRetryInterval    int     `gluamapper:"sync_retry_interval" json:"sync_retry_interval"` // milliseconds
	MaximumHeadAge       int     `gluamapper:"maximum_head_age" json:"maximum_head_age"`       // seconds
	ScanDepth            uint64  `gluamapper:"scan_depth" json:"scan_depth"`
	BlockRingSize        int     `gluamapper:"block_ring_size" json:"block_ring_size"`
	OperationRingSize    int     `gluamapper:"operation_ring_size" json:"operation_ring_size"`
	OffsetWindowSize     int     `gluamapper:"offset_window_size" json:"offset_window_size"`
	FullAccountThrottle  int     `gluamapper:"full_account_throttle" json:"full_account_throttle"` // milliseconds
	HistoryLimit         int     `gluamapper:"history_limit" json:"history_limit"`
	BlockRate            float64 `gluamapper:"block_rate" json:"block_rate"` // get_block calls per second
	WitnessCacheSize     int     `gluamapper:"witness_cache_size" json:"witness_cache_size"`
	TournamentQueryLimit int     `gluamapper:"tournament_query_limit" json:"tournament_query_limit"`
}

// fill in defaults
func (c Configuration) withDefaults() Configuration {
	setDefault(&c.DispatchFrequency, defaultDispatchFrequency)
	setDefault(&c.FetchTimeout, defaultFetchTimeout)
	setDefault(&c.SyncRetries, defaultSyncRetries)
	setDefault(&c.SyncRetryInterval, defaultSyncRetryInterval)
	setDefault(&c.MaximumHeadAge, defaultMaximumHeadAge)
	setDefault(&c.BlockRingSize, defaultBlockRingSize)
	setDefault(&c.OperationRingSize, defaultOperationRingSize)
	setDefault(&c.OffsetWindowSize, defaultOffsetWindowSize)
	setDefault(&c.FullAccountThrottle, defaultFullAccountThrottle)
	setDefault(&c.HistoryLimit, defaultHistoryLimit)
	setDefault(&c.WitnessCacheSize, defaultWitnessCacheSize)
	setDefault(&c.TournamentQueryLimit, defaultTournamentQueryLimit)
	if 0 == c.ScanDepth {
		c.ScanDepth = defaultScanDepth
	}
	if c.BlockRate < 0 {
		c.BlockRate = 0
	}
	return c
}

func setDefault(v *int, d int) {
	if *v <= 0 {
		*v = d
	}
}

func milliseconds(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
