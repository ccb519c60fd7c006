// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coalesce_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chainstore/coalesce"
	"github.com/bitmark-inc/chainstore/fault"
)

func TestAccountThrottle(t *testing.T) {
	a := coalesce.NewAccountThrottle(50 * time.Millisecond)

	assert.True(t, a.Attempt("alice"), "first attempt refused")
	assert.False(t, a.Attempt("alice"), "repeat inside window allowed")
	assert.True(t, a.Attempt("1.2.5"), "other key refused")

	_, ok := a.LastAttempt("alice")
	assert.True(t, ok, "attempt not recorded")

	time.Sleep(80 * time.Millisecond)
	assert.True(t, a.Attempt("alice"), "attempt after window refused")

	a.Forget("alice")
	assert.True(t, a.Attempt("alice"), "forgotten key refused")

	a.Reset()
	assert.True(t, a.Attempt("1.2.5"), "reset key refused")
}

func TestHistorySingle(t *testing.T) {
	h := coalesce.NewHistory()

	f, start := h.Begin("1.2.5")
	assert.True(t, start, "first request not started")
	assert.Equal(t, 0, h.Extra("1.2.5"), "wrong counter")

	again := h.Complete("1.2.5", nil)
	assert.False(t, again, "refetch without extra requests")
	assert.Nil(t, f.Wait(context.Background()), "wrong result")
	assert.Equal(t, -1, h.Extra("1.2.5"), "entry not removed")
}

// a second request while one is outstanding causes exactly one more fetch
func TestHistoryCoalescing(t *testing.T) {
	h := coalesce.NewHistory()
	calls := 0

	f1, start := h.Begin("1.2.5")
	assert.True(t, start, "not started")
	calls += 1

	f2, start := h.Begin("1.2.5")
	assert.False(t, start, "duplicate started")
	f3, start := h.Begin("1.2.5")
	assert.False(t, start, "duplicate started")
	assert.Equal(t, f1, f2, "different future")
	assert.Equal(t, f1, f3, "different future")
	assert.Equal(t, 2, h.Extra("1.2.5"), "wrong counter")

	for h.Complete("1.2.5", nil) {
		calls += 1
	}
	assert.Equal(t, 2, calls, "wrong number of fetches")

	select {
	case <-f1.Done():
	default:
		t.Fatal("future not resolved")
	}
	assert.Equal(t, 0, h.Len(), "entry left")
}

func TestHistoryError(t *testing.T) {
	h := coalesce.NewHistory()
	f, _ := h.Begin("1.2.5")
	h.Begin("1.2.5")

	assert.False(t, h.Complete("1.2.5", fault.ErrTransientFetch), "refetch after error")
	assert.Equal(t, fault.ErrTransientFetch, f.Err(), "wrong error")

	f, _ = h.Begin("1.2.6")
	h.Reset(fault.ErrNotConnected)
	assert.Equal(t, fault.ErrNotConnected, f.Err(), "reset did not resolve")
	assert.Equal(t, 0, h.Len(), "entries left")
}

func TestFutureWaitTimeout(t *testing.T) {
	f := coalesce.NewFuture()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Equal(t, context.DeadlineExceeded, f.Wait(ctx), "wrong error")
	assert.Nil(t, f.Err(), "unresolved future has error")

	f.Resolve(nil)
	f.Resolve(fault.ErrTimeout)
	assert.Nil(t, coalesce.Resolved(nil).Wait(context.Background()), "wrong error")
	assert.Nil(t, f.Err(), "second resolve applied")
}

func TestBatch(t *testing.T) {
	known := map[string]bool{"1:0": true}
	found, missing := coalesce.Partition([]string{"1:0", "1:1", "0:2"}, func(k string) bool { return known[k] })
	assert.Equal(t, []string{"1:0"}, found, "wrong found")
	assert.Equal(t, []string{"1:1", "0:2"}, missing, "wrong missing")

	b := coalesce.NewBatch()
	assert.Equal(t, []string{"1:1", "0:2"}, b.Claim(missing), "wrong first claim")
	assert.Equal(t, []string{"0:3"}, b.Claim([]string{"1:1", "0:3", "0:3"}), "in flight key claimed")
	assert.True(t, b.InFlight("1:1"), "not in flight")

	b.Release([]string{"1:1"})
	assert.False(t, b.InFlight("1:1"), "still in flight")
	b.Reset()
	assert.False(t, b.InFlight("0:2"), "not reset")
}
