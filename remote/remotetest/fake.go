// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package remotetest - scriptable in-memory node for tests
package remotetest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/object"
	"github.com/bitmark-inc/chainstore/remote"
)

// Handler - produce the result of one call, the result is JSON encoded
type Handler func(params []interface{}) (interface{}, error)

// Call - record of one Exec
type Call struct {
	API    remote.API
	Method string
	Params []interface{}
}

// Fake - a remote.Client answering from an object table and handlers
type Fake struct {
	sync.Mutex

	objects  map[string]object.Map
	handlers map[string]Handler
	gates    map[string]chan struct{}
	calls    []Call
	notifier remote.Notifier
}

// New - empty node; get_objects is answered from the object table
func New() *Fake {
	f := &Fake{
		objects:  make(map[string]object.Map),
		handlers: make(map[string]Handler),
		gates:    make(map[string]chan struct{}),
	}
	f.handlers["get_objects"] = f.getObjects
	return f
}

// Put - add or replace objects in the table
func (f *Fake) Put(objects ...object.Map) {
	f.Lock()
	defer f.Unlock()
	for _, o := range objects {
		f.objects[o.Id()] = o
	}
}

// Delete - remove an object from the table
func (f *Fake) Delete(id string) {
	f.Lock()
	defer f.Unlock()
	delete(f.objects, id)
}

// Handle - answer a method with h
func (f *Fake) Handle(method string, h Handler) {
	f.Lock()
	defer f.Unlock()
	f.handlers[method] = h
}

// Gate - hold every call of method until the returned release is called
func (f *Fake) Gate(method string) (release func()) {
	f.Lock()
	defer f.Unlock()

	gate := make(chan struct{})
	f.gates[method] = gate
	once := sync.Once{}
	return func() {
		once.Do(func() {
			f.Lock()
			if f.gates[method] == gate {
				delete(f.gates, method)
			}
			f.Unlock()
			close(gate)
		})
	}
}

// Calls - number of calls of method so far
func (f *Fake) Calls(method string) int {
	f.Lock()
	defer f.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n += 1
		}
	}
	return n
}

// History - every call so far
func (f *Fake) History() []Call {
	f.Lock()
	defer f.Unlock()
	calls := make([]Call, len(f.calls))
	copy(calls, f.calls)
	return calls
}

// Subscribed - a notifier has been registered
func (f *Fake) Subscribed() bool {
	f.Lock()
	defer f.Unlock()
	return nil != f.notifier
}

// Push - deliver one update payload of objects (object.Map) and
// removed ids (string)
func (f *Fake) Push(items ...interface{}) {
	f.Lock()
	notifier := f.notifier
	f.Unlock()
	if nil == notifier {
		return
	}
	payload, err := json.Marshal([][]interface{}{items})
	if nil != err {
		panic(err)
	}
	notifier(payload)
}

// Exec - remote.Client
func (f *Fake) Exec(ctx context.Context, api remote.API, method string, params []interface{}) (json.RawMessage, error) {
	f.Lock()
	f.calls = append(f.calls, Call{API: api, Method: method, Params: params})
	gate := f.gates[method]
	h, ok := f.handlers[method]
	f.Unlock()

	if nil != gate {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if !ok {
		return nil, fault.ProcessError("no handler for: " + method)
	}
	result, err := h(params)
	if nil != err {
		return nil, err
	}
	return json.Marshal(result)
}

// SubscribeToUpdates - remote.Client
func (f *Fake) SubscribeToUpdates(ctx context.Context, notifier remote.Notifier) error {
	f.Lock()
	defer f.Unlock()
	f.notifier = notifier
	return nil
}

func (f *Fake) getObjects(params []interface{}) (interface{}, error) {
	if 0 == len(params) {
		return nil, fault.ErrMissingParameters
	}
	ids, ok := params[0].([]string)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}

	f.Lock()
	defer f.Unlock()
	result := make([]interface{}, len(ids))
	for i, id := range ids {
		if o, ok := f.objects[id]; ok {
			result[i] = o
		}
	}
	return result, nil
}
