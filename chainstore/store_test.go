// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chainstore/cache"
	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/fixtures"
	"github.com/bitmark-inc/chainstore/remote"
	"github.com/bitmark-inc/chainstore/remote/mocks"
	"github.com/bitmark-inc/chainstore/remote/remotetest"
)

func TestNewWithoutClient(t *testing.T) {
	s, err := New(testConfiguration, nil, nil, nil)
	assert.Nil(t, s, "store created")
	assert.Equal(t, fault.ErrNotConnected, err, "wrong error")
}

func TestInitSubscribes(t *testing.T) {
	f := newNode()
	s := readyStore(t, f)
	defer s.Close()

	assert.True(t, s.Subscribed(), "store not subscribed")
	assert.True(t, f.Subscribed(), "node has no notifier")
	assert.Equal(t, cache.Present, stateOf(s, "2.1.0"), "head state not cached")

	// a second Init does nothing
	calls := f.Calls("get_objects")
	assert.Nil(t, s.Init(context.Background()), "second init error")
	assert.Equal(t, calls, f.Calls("get_objects"), "second init fetched")

	waitFor(t, "initial scan", s.scanner.Initialised)
}

func TestInitClockSyncFailure(t *testing.T) {
	f := remotetest.New()
	f.Put(freshHead(time.Now().Add(-time.Hour)))

	s := newStore(t, testConfiguration, f)
	defer s.Close()

	err := s.Init(context.Background())
	assert.Equal(t, fault.ErrClockSync, err, "wrong error")
	assert.Equal(t, 6, f.Calls("get_objects"), "wrong number of attempts")
	assert.False(t, s.Subscribed(), "subscribed without sync")
	assert.False(t, f.Subscribed(), "node has a notifier")
}

func TestInitCancelled(t *testing.T) {
	f := remotetest.New()
	f.Put(freshHead(time.Now().Add(-time.Hour)))

	configuration := testConfiguration
	configuration.SyncRetryInterval = 10000
	s := newStore(t, configuration, f)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Init(ctx)
	assert.Equal(t, context.DeadlineExceeded, err, "wrong error")
	assert.Equal(t, 1, f.Calls("get_objects"), "wrong number of attempts")
}

func TestInitRemoteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockClient(ctrl)
	m.EXPECT().
		Exec(gomock.Any(), remote.Database, "get_objects", gomock.Any()).
		Return(nil, fault.ErrRemoteCall).
		Times(1)

	s, err := New(testConfiguration, m, nil, nil)
	assert.Nil(t, err, "new error")
	defer s.Close()

	err = s.Init(context.Background())
	assert.Equal(t, fault.ErrRemoteCall, err, "wrong error")
	assert.False(t, s.Subscribed(), "subscribed after error")
	assert.Equal(t, cache.Unknown, stateOf(s, "2.1.0"), "head state cached")
}

func TestInitSubscribeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	head, _ := freshHead(time.Now()).MarshalJSON()

	m := mocks.NewMockClient(ctrl)
	m.EXPECT().
		Exec(gomock.Any(), remote.Database, "get_objects", gomock.Any()).
		Return(raw("["+string(head)+"]"), nil).
		Times(1)
	m.EXPECT().
		SubscribeToUpdates(gomock.Any(), gomock.Any()).
		Return(fault.ErrNotConnected).
		Times(1)

	s, err := New(testConfiguration, m, nil, nil)
	assert.Nil(t, err, "new error")
	defer s.Close()

	err = s.Init(context.Background())
	assert.Equal(t, fault.ErrNotConnected, err, "wrong error")
	assert.False(t, s.Subscribed(), "subscribed after error")
}

func TestResetCache(t *testing.T) {
	f := newNode()
	f.Put(fixtures.Object(`{"id":"1.3.5","symbol":"ABC"}`))

	s := readyStore(t, f)
	defer s.Close()

	e, err := s.GetObject("1.3.5", false)
	assert.Nil(t, err, "get error")
	assert.Equal(t, cache.Pending, e.State, "wrong state")
	waitFor(t, "asset", func() bool { return cache.Present == stateOf(s, "1.3.5") })

	assert.Nil(t, s.SubscribeTo(Accounts, "1.2.7"), "subscribe error")

	err = s.ResetCache(context.Background())
	assert.Nil(t, err, "reset error")
	assert.Equal(t, cache.Unknown, stateOf(s, "1.3.5"), "asset still cached")
	assert.True(t, s.IsSubscribedTo(Accounts, "1.2.7"), "subscription lost")
	assert.True(t, s.Subscribed(), "not subscribed after reset")
	assert.Equal(t, cache.Present, stateOf(s, "2.1.0"), "head state not fetched again")
}

func TestResetDiscardsOutstandingResult(t *testing.T) {
	f := newNode()
	f.Put(fixtures.Object(`{"id":"1.3.5","symbol":"ABC"}`))
	s := readyStore(t, f)
	defer s.Close()

	s.Lock()
	generation := s.generation
	s.Unlock()

	assert.Nil(t, s.ResetCache(context.Background()), "reset error")

	applied := s.apply(generation, func() {
		put(s, fixtures.Object(`{"id":"1.3.6","symbol":"XYZ"}`))
	})
	assert.False(t, applied, "stale result applied")
	assert.Equal(t, cache.Unknown, stateOf(s, "1.3.6"), "stale result cached")
}

func TestResetKeepsNewerPendingFetch(t *testing.T) {
	asset := fixtures.Object(`{"id":"1.3.5","symbol":"ABC"}`)
	head := freshHead(time.Now())

	first := make(chan struct{})
	second := make(chan struct{})
	assetCalls := counter{}
	f := newNode()
	f.Handle("get_objects", func(params []interface{}) (interface{}, error) {
		ids, _ := params[0].([]string)
		if 0 == len(ids) || "1.3.5" != ids[0] {
			return []interface{}{head}, nil
		}
		// the node answers late whatever the caller's context
		assetCalls.Changed()
		if 1 == assetCalls.count() {
			<-first
		} else {
			<-second
		}
		return []interface{}{asset}, nil
	})

	once := sync.Once{}
	releaseFirst := func() { once.Do(func() { close(first) }) }

	s := readyStore(t, f)
	defer s.Close()
	defer close(second)
	defer releaseFirst()

	e, _ := s.GetObject("1.3.5", false)
	assert.Equal(t, cache.Pending, e.State, "wrong state")
	waitFor(t, "first fetch", func() bool { return 1 == assetCalls.count() })

	assert.Nil(t, s.ResetCache(context.Background()), "reset error")

	e, _ = s.FetchObject("1.3.5", false)
	assert.Equal(t, cache.Pending, e.State, "wrong state after reset")
	waitFor(t, "second fetch", func() bool { return 2 == assetCalls.count() })

	// the cancelled fetch completes while the newer one is in flight
	releaseFirst()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, cache.Pending, stateOf(s, "1.3.5"), "newer fetch reverted")
	e, _ = s.GetObject("1.3.5", false)
	assert.Equal(t, cache.Pending, e.State, "wrong state")
	assert.Equal(t, 2, assetCalls.count(), "fetched again")
}

func TestChainTime(t *testing.T) {
	now := time.Date(2020, time.January, 1, 0, 0, 10, 0, time.UTC)

	f := newNode()
	f.Put(freshHead(now.Add(-5 * time.Second)))

	s := newStore(t, testConfiguration, f)
	defer s.Close()
	s.now = func() time.Time { return now }

	_, err := s.GetHeadBlockDate()
	assert.Equal(t, fault.ErrNotInitialised, err, "head date before init")

	assert.Nil(t, s.Init(context.Background()), "init error")

	head, err := s.GetHeadBlockDate()
	assert.Nil(t, err, "head date error")
	assert.Equal(t, now.Add(-5*time.Second), head, "wrong head date")

	assert.Equal(t, -5*time.Second, s.GetEstimatedChainTimeOffset(), "wrong offset")
	assert.Equal(t, now.Add(-5*time.Second), s.GetEstimatedChainTime(), "wrong chain time")

	p, err := s.Progress()
	assert.Nil(t, err, "progress error")
	assert.True(t, p > 0.99 && p <= 1, "wrong progress: %f", p)
}

func TestSubscribeToInvalid(t *testing.T) {
	f := newNode()
	s := newStore(t, testConfiguration, f)
	defer s.Close()

	assert.Equal(t, fault.ErrInvalidSubscription, s.SubscribeTo(SubscriptionKind(7), "1.2.3"), "wrong error")
	assert.Equal(t, fault.ErrInvalidObjectId, s.SubscribeTo(Accounts, "alice"), "wrong error")

	assert.Nil(t, s.SubscribeTo(Witnesses, "1.6.3"), "subscribe error")
	assert.True(t, s.IsSubscribedTo(Witnesses, "1.6.3"), "not subscribed")
	assert.False(t, s.IsSubscribedTo(Committee, "1.6.3"), "subscribed in wrong kind")

	assert.Nil(t, s.UnsubscribeFrom(Witnesses, "1.6.3"), "unsubscribe error")
	assert.False(t, s.IsSubscribedTo(Witnesses, "1.6.3"), "still subscribed")
}

func TestSubscribeObserverTwice(t *testing.T) {
	s := readyStore(t, newNode())
	defer s.Close()

	c := &counter{}
	assert.Nil(t, s.Subscribe(c), "subscribe error")
	assert.Equal(t, fault.ErrAlreadySubscribed, s.Subscribe(c), "duplicate observer accepted")
	assert.Nil(t, s.Unsubscribe(c), "unsubscribe error")
	assert.Nil(t, s.Subscribe(c), "subscribe after unsubscribe error")
}
