// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package subscription_test

import (
	"sync"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/fixtures"
	"github.com/bitmark-inc/chainstore/subscription"
)

type counter struct {
	sync.Mutex
	n     int
	order *[]int
	tag   int
}

func (c *counter) Changed() {
	c.Lock()
	c.n += 1
	c.Unlock()
	if nil != c.order {
		*c.order = append(*c.order, c.tag)
	}
}

func (c *counter) count() int {
	c.Lock()
	defer c.Unlock()
	return c.n
}

func TestDebounce(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h := subscription.New(logger.New(fixtures.LogCategory), 20*time.Millisecond)
	c := &counter{}
	assert.Nil(t, h.Subscribe(c), "subscribe error")

	for i := 0; i < 50; i += 1 {
		h.Notify()
	}
	assert.True(t, h.Pending(), "not scheduled")
	assert.Equal(t, 0, c.count(), "fired early")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, c.count(), "wrong fan-out count")
	assert.False(t, h.Pending(), "still scheduled")

	// a later burst is a new window
	h.Notify()
	h.Notify()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 2, c.count(), "second window not fired")
}

func TestOrderAndDuplicates(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h := subscription.New(logger.New(fixtures.LogCategory), 5*time.Millisecond)
	order := []int{}
	c1 := &counter{order: &order, tag: 1}
	c2 := &counter{order: &order, tag: 2}
	c3 := &counter{order: &order, tag: 3}

	assert.Nil(t, h.Subscribe(c1))
	assert.Nil(t, h.Subscribe(c2))
	assert.Nil(t, h.Subscribe(c3))
	assert.Equal(t, fault.ErrAlreadySubscribed, h.Subscribe(c2), "duplicate accepted")
	assert.Equal(t, 3, h.Len(), "duplicate stored")

	assert.Nil(t, h.Unsubscribe(c2))
	assert.Equal(t, fault.ErrNotSubscribed, h.Unsubscribe(c2), "double unsubscribe accepted")

	fired := make(chan struct{}, 1)
	h.OnFire(func() { fired <- struct{}{} })
	h.Notify()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("no fan-out")
	}
	assert.Equal(t, []int{1, 3}, order, "wrong call order")
}

func TestFuncAndStop(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h := subscription.New(logger.New(fixtures.LogCategory), 10*time.Millisecond)
	called := make(chan struct{}, 10)
	o := subscription.Func(func() { called <- struct{}{} })
	assert.Nil(t, h.Subscribe(o))

	h.Notify()
	h.Stop()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, len(called), "stopped fan-out fired")

	h.Notify()
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("no call")
	}
}
