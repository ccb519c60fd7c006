// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/bitmark-inc/chainstore/cache"
	"github.com/bitmark-inc/chainstore/chaintime"
	"github.com/bitmark-inc/chainstore/fixtures"
	"github.com/bitmark-inc/chainstore/messagebus"
	"github.com/bitmark-inc/chainstore/object"
	"github.com/bitmark-inc/chainstore/remote/remotetest"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	result := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(result)
}

var testConfiguration = Configuration{
	DispatchFrequency: 1,
	FetchTimeout:      500,
	SyncRetryInterval: 1,
}

// a head state stamped now, so Init considers the node synced
func freshHead(now time.Time) object.Map {
	return fixtures.Object(fmt.Sprintf(`{
  "id": "2.1.0",
  "head_block_number": 0,
  "last_irreversible_block_num": 0,
  "time": %q
}`, chaintime.FormatTime(now)))
}

// a node with a fresh head state and an empty chain
func newNode() *remotetest.Fake {
	f := remotetest.New()
	f.Put(freshHead(time.Now()))
	f.Handle("get_dynamic_global_properties", func(params []interface{}) (interface{}, error) {
		return map[string]interface{}{
			"head_block_number":           0,
			"last_irreversible_block_num": 0,
		}, nil
	})
	return f
}

func newStore(t *testing.T, configuration Configuration, f *remotetest.Fake) *Store {
	s, err := New(configuration, f, nil, nil)
	if nil != err {
		t.Fatalf("new store error: %s", err)
	}
	return s
}

// a store that completed Init against f
func readyStore(t *testing.T, f *remotetest.Fake) *Store {
	s := newStore(t, testConfiguration, f)
	err := s.Init(context.Background())
	if nil != err {
		t.Fatalf("init error: %s", err)
	}
	return s
}

func waitFor(t *testing.T, what string, f func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !f() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for: %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func raw(s string) json.RawMessage {
	return json.RawMessage(s)
}

// cache state of an id without starting a fetch
func stateOf(s *Store, id string) cache.State {
	return s.cache.Get(id).State
}

// apply an object as if pushed, bypassing the transport
func put(s *Store, o object.Map) {
	s.control.Lock()
	defer s.control.Unlock()
	s.updateObject(o, false)
}

type counter struct {
	sync.Mutex
	n int
}

func (c *counter) Changed() {
	c.Lock()
	c.n += 1
	c.Unlock()
}

func (c *counter) count() int {
	c.Lock()
	defer c.Unlock()
	return c.n
}

// next event with the command, skipping others
func nextEvent(t *testing.T, c <-chan messagebus.Message, command string) messagebus.Message {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case m := <-c:
			if command == m.Command {
				return m
			}
		case <-timeout:
			t.Fatalf("timeout waiting for event: %s", command)
			return messagebus.Message{}
		}
	}
}
