// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaintime

import (
	"math/big"
	"math/bits"
	"strings"
	"time"
)

// the ledger's first block is after this, used for sync progress
var chainStart = time.Date(2015, time.September, 1, 0, 0, 0, 0, time.UTC)

// number of bits of the recent_slots_filled field
const recentSlots = 128

// ParseTime - convert a ledger time string, which is UTC but may lack
// the zone suffix; an empty string is the Unix epoch
func ParseTime(s string) (time.Time, error) {
	if "" == s {
		return time.Unix(0, 0).UTC(), nil
	}
	if !strings.HasSuffix(s, "Z") {
		s += "Z"
	}
	return time.Parse(time.RFC3339, s)
}

// FormatTime - the ledger form of a time
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05")
}

// Progress - fraction of the chain's lifetime covered by a block at head
func Progress(head time.Time, now time.Time) float64 {
	total := now.Sub(chainStart)
	if total <= 0 {
		return 0
	}
	p := float64(head.Sub(chainStart)) / float64(total)
	if p < 0 {
		return 0
	}
	return p
}

// Participation - percentage of recent slots that produced a block
//
// slots is the decimal form of a 128 bit mask
func Participation(slots string) float64 {
	n, ok := new(big.Int).SetString(slots, 10)
	if !ok || n.Sign() < 0 {
		return 0
	}
	count := 0
	for _, w := range n.Bits() {
		count += bits.OnesCount64(uint64(w))
	}
	return 100 * float64(count) / recentSlots
}
