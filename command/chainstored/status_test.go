// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chainstore/chainstore"
	"github.com/bitmark-inc/chainstore/chaintime"
	"github.com/bitmark-inc/chainstore/fixtures"
	"github.com/bitmark-inc/chainstore/remote/remotetest"
)

func statusStore(t *testing.T) *chainstore.Store {
	f := remotetest.New()
	f.Put(fixtures.Object(fmt.Sprintf(`{
  "id": "2.1.0",
  "head_block_number": 0,
  "last_irreversible_block_num": 0,
  "time": %q
}`, chaintime.FormatTime(time.Now()))))
	f.Handle("get_dynamic_global_properties", func(params []interface{}) (interface{}, error) {
		return map[string]interface{}{
			"head_block_number":           0,
			"last_irreversible_block_num": 0,
		}, nil
	})

	store, err := chainstore.New(chainstore.Configuration{DispatchFrequency: 1}, f, nil, nil)
	assert.Nil(t, err, "new store error")
	return store
}

func TestStatus(t *testing.T) {
	store := statusStore(t)
	defer store.Close()

	err := store.Init(context.Background())
	assert.Nil(t, err, "init error")

	server := httptest.NewServer(statusHandler(logger.New("test"), store, nil))
	defer server.Close()

	response, err := http.Get(server.URL + "/status")
	assert.Nil(t, err, "status error")
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode, "wrong status code")

	var reply StatusReply
	err = json.NewDecoder(response.Body).Decode(&reply)
	assert.Nil(t, err, "decode error")
	assert.True(t, reply.Subscribed, "not subscribed")
	assert.NotEqual(t, "", reply.HeadBlockDate, "missing head block date")
	assert.Equal(t, 0, len(reply.RecentBlocks), "unexpected blocks")
	assert.Nil(t, reply.WatchList, "watch list without a file")
}

func TestStatusBeforeInit(t *testing.T) {
	store := statusStore(t)
	defer store.Close()

	server := httptest.NewServer(statusHandler(logger.New("test"), store, nil))
	defer server.Close()

	response, err := http.Get(server.URL + "/status")
	assert.Nil(t, err, "status error")
	defer response.Body.Close()

	var reply StatusReply
	err = json.NewDecoder(response.Body).Decode(&reply)
	assert.Nil(t, err, "decode error")
	assert.False(t, reply.Subscribed, "subscribed before init")
	assert.Equal(t, "", reply.HeadBlockDate, "head block date before init")
}

func TestStatusMethod(t *testing.T) {
	store := statusStore(t)
	defer store.Close()

	server := httptest.NewServer(statusHandler(logger.New("test"), store, nil))
	defer server.Close()

	response, err := http.Post(server.URL+"/status", "application/json", strings.NewReader("{}"))
	assert.Nil(t, err, "post error")
	response.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, response.StatusCode, "post accepted")
}

func TestMetrics(t *testing.T) {
	store := statusStore(t)
	defer store.Close()

	server := httptest.NewServer(statusHandler(logger.New("test"), store, nil))
	defer server.Close()

	response, err := http.Get(server.URL + "/metrics")
	assert.Nil(t, err, "metrics error")
	defer response.Body.Close()

	body, err := ioutil.ReadAll(response.Body)
	assert.Nil(t, err, "read error")
	assert.Contains(t, string(body), "chainstore_cached_objects", "missing gauge")
}
