// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/chainstore/fault"
)

// defaults
const (
	defaultPollInterval = 3 * time.Second
	defaultHTTPTimeout  = 30 * time.Second
	headStateId         = "2.1.0"
)

// Configuration - node access
type Configuration struct {
	URL          string        `gluamapper:"url" json:"url"`
	Username     string        `gluamapper:"username" json:"username"`
	Password     string        `gluamapper:"password" json:"password"`
	PollInterval time.Duration `gluamapper:"poll_interval" json:"poll_interval"`
	Timeout      time.Duration `gluamapper:"timeout" json:"timeout"`
}

// HTTP - JSON-RPC over HTTP POST
//
// HTTP cannot push, so updates are produced by Run which polls every
// object previously returned by get_objects and reports the ones that
// changed
type HTTP struct {
	sync.Mutex // to allow locking

	log *logger.L

	client *http.Client
	url    string

	// authentication
	username string
	password string

	// identifier for the RPC
	id uint64

	pollInterval time.Duration

	// subscription emulation
	notifier Notifier
	watched  map[string]json.RawMessage

	// connection loss detection
	failing     bool
	onReconnect func()
}

// for encoding the RPC arguments
type rpcArguments struct {
	JsonRPC string        `json:"jsonrpc"`
	Id      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// the RPC error response
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// for decoding the RPC reply
type rpcReply struct {
	Id     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// NewHTTP - create a client, nothing is sent until the first call
func NewHTTP(configuration Configuration) (*HTTP, error) {
	if "" == configuration.URL {
		return nil, fault.ErrMissingParameters
	}

	log := logger.New("remote")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	timeout := configuration.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	poll := configuration.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}

	return &HTTP{
		log:          log,
		client:       &http.Client{Timeout: timeout},
		url:          configuration.URL,
		username:     configuration.Username,
		password:     configuration.Password,
		pollInterval: poll,
		watched:      make(map[string]json.RawMessage),
	}, nil
}

// Exec - call a method of an API
func (h *HTTP) Exec(ctx context.Context, api API, method string, params []interface{}) (json.RawMessage, error) {
	if nil == params {
		params = []interface{}{}
	}

	result, err := h.call(ctx, api, method, params)
	if nil != err {
		return nil, err
	}

	if Database == api && "get_objects" == method {
		h.watch(params, result)
	}
	return result, nil
}

// SubscribeToUpdates - register the notifier, the head state object
// is always watched
func (h *HTTP) SubscribeToUpdates(ctx context.Context, notifier Notifier) error {
	h.Lock()
	defer h.Unlock()

	if nil == notifier {
		return fault.ErrMissingParameters
	}
	h.notifier = notifier
	if _, ok := h.watched[headStateId]; !ok {
		h.watched[headStateId] = nil
	}
	h.log.Info("subscribed")
	return nil
}

// Watched - number of objects polled for changes
func (h *HTTP) Watched() int {
	h.Lock()
	defer h.Unlock()
	return len(h.watched)
}

// record the ids and current values of a get_objects call
func (h *HTTP) watch(params []interface{}, result json.RawMessage) {
	if 0 == len(params) {
		return
	}
	ids, ok := params[0].([]string)
	if !ok {
		return
	}
	var objects []json.RawMessage
	err := json.Unmarshal(result, &objects)
	if nil != err || len(objects) != len(ids) {
		return
	}

	h.Lock()
	defer h.Unlock()
	for i, id := range ids {
		if isNull(objects[i]) {
			continue
		}
		h.watched[id] = objects[i]
	}
}

// OnReconnect - f is run by the poller each time the node answers
// again after failed polls
func (h *HTTP) OnReconnect(f func()) {
	h.Lock()
	defer h.Unlock()
	h.onReconnect = f
}

// Run - background poller, one round per poll interval
func (h *HTTP) Run(args interface{}, shutdown <-chan struct{}) {
	log := h.log
	log.Info("starting…")

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), h.pollInterval)
			err := h.Round(ctx)
			cancel()
			if nil != err {
				log.Errorf("poll error: %s", err)
			}
		}
	}

	log.Info("shutting down…")
	log.Flush()
}

// Round - one poll, tracking whether the node is reachable
//
// the first success after a failure drops every watched object except
// the head state and runs the reconnect function, the objects of
// interest are watched again as they are fetched
func (h *HTTP) Round(ctx context.Context) error {
	err := h.Poll(ctx)

	h.Lock()
	if nil != err {
		if !h.failing {
			h.log.Warnf("node lost: %s", err)
		}
		h.failing = true
		h.Unlock()
		return err
	}
	if !h.failing {
		h.Unlock()
		return nil
	}
	h.failing = false
	h.watched = map[string]json.RawMessage{headStateId: nil}
	reconnect := h.onReconnect
	h.Unlock()

	h.log.Info("node reconnected")
	if nil != reconnect {
		reconnect()
	}
	return nil
}

// Poll - fetch every watched object once and report those that changed
func (h *HTTP) Poll(ctx context.Context) error {
	h.Lock()
	notifier := h.notifier
	ids := make([]string, 0, len(h.watched))
	for id := range h.watched {
		ids = append(ids, id)
	}
	h.Unlock()

	if nil == notifier || 0 == len(ids) {
		return nil
	}

	result, err := h.call(ctx, Database, "get_objects", []interface{}{ids})
	if nil != err {
		return err
	}
	var objects []json.RawMessage
	err = json.Unmarshal(result, &objects)
	if nil != err {
		return err
	}
	if len(objects) != len(ids) {
		return fault.ErrInvalidPayload
	}

	changes := make([]json.RawMessage, 0, len(ids))

	h.Lock()
	for i, id := range ids {
		previous, ok := h.watched[id]
		if !ok {
			continue
		}
		if isNull(objects[i]) {
			if nil != previous {
				quoted, _ := json.Marshal(id)
				changes = append(changes, quoted)
			}
			delete(h.watched, id)
			continue
		}
		if !bytes.Equal(previous, objects[i]) {
			h.watched[id] = objects[i]
			changes = append(changes, objects[i])
		}
	}
	h.Unlock()

	if 0 == len(changes) {
		return nil
	}

	payload, err := json.Marshal([][]json.RawMessage{changes})
	if nil != err {
		return err
	}
	h.log.Debugf("poll: %d changed objects", len(changes))
	notifier(payload)
	return nil
}

func isNull(raw json.RawMessage) bool {
	return 0 == len(raw) || "null" == string(raw)
}

// basic RPC
func (h *HTTP) call(ctx context.Context, api API, method string, params []interface{}) (json.RawMessage, error) {
	h.Lock()
	h.id += 1
	arguments := rpcArguments{
		JsonRPC: "2.0",
		Id:      h.id,
		Method:  "call",
		Params:  []interface{}{string(api), method, params},
	}
	h.Unlock()

	s, err := json.Marshal(arguments)
	if nil != err {
		return nil, err
	}

	h.log.Tracef("rpc send: %s", s)

	postData := bytes.NewBuffer(s)

	request, err := http.NewRequestWithContext(ctx, "POST", h.url, postData)
	if nil != err {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	if "" != h.username {
		request.SetBasicAuth(h.username, h.password)
	}

	response, err := h.client.Do(request)
	if nil != err {
		return nil, err
	}
	defer response.Body.Close()
	body, err := ioutil.ReadAll(response.Body)
	if nil != err {
		return nil, err
	}

	h.log.Tracef("rpc response body: %s", body)

	var reply rpcReply
	err = json.Unmarshal(body, &reply)
	if nil != err {
		return nil, err
	}

	if nil != reply.Error {
		return nil, fault.ProcessError("remote call error: " + reply.Error.Message)
	}
	return reply.Result, nil
}
