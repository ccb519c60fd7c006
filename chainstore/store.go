// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitmark-inc/chainstore/blockscan"
	"github.com/bitmark-inc/chainstore/cache"
	"github.com/bitmark-inc/chainstore/chaintime"
	"github.com/bitmark-inc/chainstore/codec"
	"github.com/bitmark-inc/chainstore/coalesce"
	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/index"
	"github.com/bitmark-inc/chainstore/messagebus"
	"github.com/bitmark-inc/chainstore/object"
	"github.com/bitmark-inc/chainstore/objectid"
	"github.com/bitmark-inc/chainstore/remote"
	"github.com/bitmark-inc/chainstore/storage"
	"github.com/bitmark-inc/chainstore/subscription"
)

// Store - the chain store of one node connection
type Store struct {
	sync.Mutex // protects the fields up to the blank line

	ctx          context.Context
	cancel       context.CancelFunc
	generation   uint64
	subscribed   bool
	headTime     string
	irreversible uint64
	subscribedTo [subscriptionKinds]map[string]struct{}
	witnesses    object.Set

	// held while applying remote results to the cache and indices
	control sync.Mutex

	log           *logger.L
	configuration Configuration
	client        remote.Client
	blocks        *storage.Store
	now           func() time.Time

	cache           *cache.Store
	indices         *index.Indices
	hub             *subscription.Hub
	throttle        *coalesce.AccountThrottle
	history         *coalesce.History
	voteLookups     *coalesce.Batch
	offsets         *chaintime.OffsetWindow
	scanner         *blockscan.Scanner
	simpleObjects   *lru.Cache // id -> object.Map
	witnessAccounts *lru.Cache // witness id -> account object.Map
	events          *messagebus.BroadcastQueue
	metrics         *metrics

	wg sync.WaitGroup
}

// New - create a store for a connected client
//
// blocks may be nil, irreversible blocks are then always fetched from
// the node; a nil decoder selects JSON operations
func New(configuration Configuration, client remote.Client, blocks *storage.Store, decoder codec.Decoder) (*Store, error) {
	if nil == client {
		return nil, fault.ErrNotConnected
	}

	configuration = configuration.withDefaults()
	log := logger.New("chainstore")

	simpleObjects, err := lru.New(configuration.WitnessCacheSize)
	if nil != err {
		return nil, err
	}
	witnessAccounts, err := lru.New(configuration.WitnessCacheSize)
	if nil != err {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		ctx:             ctx,
		cancel:          cancel,
		log:             log,
		configuration:   configuration,
		client:          client,
		blocks:          blocks,
		now:             time.Now,
		cache:           cache.New(),
		indices:         index.New(),
		hub:             subscription.New(logger.New("subscription"), milliseconds(configuration.DispatchFrequency)),
		throttle:        coalesce.NewAccountThrottle(milliseconds(configuration.FullAccountThrottle)),
		history:         coalesce.NewHistory(),
		voteLookups:     coalesce.NewBatch(),
		offsets:         chaintime.NewOffsetWindow(configuration.OffsetWindowSize),
		simpleObjects:   simpleObjects,
		witnessAccounts: witnessAccounts,
		events:          messagebus.New(),
	}
	s.clearSubscriptions()

	s.scanner = blockscan.New(logger.New("scanner"), &blockSource{store: s}, decoder, blockscan.Configuration{
		Depth:             configuration.ScanDepth,
		BlockRingSize:     configuration.BlockRingSize,
		OperationRingSize: configuration.OperationRingSize,
		BlockRate:         configuration.BlockRate,
	})
	s.scanner.OnChange(s.hub.Notify)

	s.metrics = newMetrics(s)
	s.hub.OnFire(s.metrics.notifications.Inc)

	return s, nil
}

// Registry - metrics of this store
func (s *Store) Registry() *prometheus.Registry {
	return s.metrics.registry
}

// Close - stop background work and wait for it to finish
func (s *Store) Close() {
	s.log.Info("shutting down…")
	s.Lock()
	s.cancel()
	s.subscribed = false
	s.Unlock()

	s.wg.Wait()
	s.hub.Stop()
	s.log.Info("finished")
	s.log.Flush()
}

// Init - fetch the head state, check the local clock against it and
// subscribe to push updates
//
// a head block older than the maximum head age is retried at the sync
// retry interval; once the retries are used up ErrClockSync is returned
// and the store stays unsubscribed
func (s *Store) Init(ctx context.Context) error {
	retries := 0
	headId := objectid.HeadStateObject.String()

	for {
		s.Lock()
		subscribed := s.subscribed
		generation := s.generation
		s.Unlock()
		if subscribed {
			return nil
		}

		raw, err := s.call(ctx, remote.Database, "get_objects", []interface{}{[]string{headId}})
		if nil != err {
			s.log.Errorf("init: head state error: %s", err)
			s.cache.Forget(headId)
			return err
		}
		head, err := firstObject(raw)
		if nil != err {
			return err
		}

		if 0 != head.Len() {
			s.apply(generation, func() {
				s.updateObject(head, true)
			})

			headTime, err := chaintime.ParseTime(head.GetString("time"))
			if nil != err {
				return err
			}
			age := s.now().Sub(headTime)
			if age < time.Duration(s.configuration.MaximumHeadAge)*time.Second {
				return s.subscribe(ctx)
			}

			retries += 1
			s.log.Warnf("init: not yet synced, head age: %s  retry: %d", age, retries)
			if retries > s.configuration.SyncRetries {
				s.log.Critical("init: sync error, check the system clock")
				return fault.ErrClockSync
			}
		} else {
			s.log.Warn("init: no head state, retrying")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(milliseconds(s.configuration.SyncRetryInterval)):
		}
	}
}

func (s *Store) subscribe(ctx context.Context) error {
	s.Lock()
	generation := s.generation
	s.Unlock()

	err := s.client.SubscribeToUpdates(ctx, func(payload json.RawMessage) {
		s.onUpdate(generation, payload)
	})
	if nil != err {
		s.log.Errorf("init: subscribe error: %s", err)
		return err
	}

	s.Lock()
	s.subscribed = true
	s.Unlock()
	s.log.Info("synced and subscribed, chain store ready")

	s.async(func(ctx context.Context, generation uint64) {
		err := s.scanner.Run(ctx, 0)
		if nil != err {
			s.log.Errorf("initial scan error: %s", err)
		}
	})
	return nil
}

// ResetCache - drop all state and run Init again, used after a reconnect
func (s *Store) ResetCache(ctx context.Context) error {
	s.log.Info("reset cache")

	s.control.Lock()
	s.Lock()
	s.cancel()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.generation += 1
	s.subscribed = false
	s.headTime = ""
	s.irreversible = 0
	s.witnesses = object.Set{}
	s.Unlock()
	s.clearCache()
	s.control.Unlock()

	err := s.Init(ctx)
	if nil != err {
		s.log.Errorf("reset cache: init error: %s", err)
	}
	return err
}

// everything a reconnect discards, interest declared with SubscribeTo
// is kept
func (s *Store) clearCache() {
	s.cache.Clear()
	s.indices.Clear()
	s.throttle.Reset()
	s.history.Reset(fault.ErrNotInitialised)
	s.voteLookups.Reset()
	s.offsets.Reset()
	s.scanner.Reset()
	s.simpleObjects.Purge()
	s.witnessAccounts.Purge()
}

// SetDispatchFrequency - debounce interval of observer notification
func (s *Store) SetDispatchFrequency(interval time.Duration) {
	s.hub.SetInterval(interval)
}

// Subscribe - add an observer called after the cache changes
func (s *Store) Subscribe(o subscription.Observer) error {
	return s.hub.Subscribe(o)
}

// Unsubscribe - remove an observer
func (s *Store) Unsubscribe(o subscription.Observer) error {
	return s.hub.Unsubscribe(o)
}

// Subscribed - Init completed and push updates are arriving
func (s *Store) Subscribed() bool {
	s.Lock()
	defer s.Unlock()
	return s.subscribed
}

// ClearObjectCache - forget one object so the next get fetches it again
func (s *Store) ClearObjectCache(id string) {
	s.cache.Forget(id)
}

// Events - a channel of cache events, release it with ReleaseEvents
func (s *Store) Events(size int) <-chan messagebus.Message {
	return s.events.Chan(size)
}

// ReleaseEvents - stop delivering events to c
func (s *Store) ReleaseEvents(c <-chan messagebus.Message) {
	s.events.Release(c)
}

// run f in the background with the current context and generation
func (s *Store) async(f func(ctx context.Context, generation uint64)) {
	s.Lock()
	ctx := s.ctx
	generation := s.generation
	s.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		f(ctx, generation)
	}()
}

// run f under the update lock unless a reset happened since generation
func (s *Store) apply(generation uint64, f func()) bool {
	s.control.Lock()
	defer s.control.Unlock()

	s.Lock()
	current := generation == s.generation
	s.Unlock()
	if !current {
		s.log.Debugf("discard result of generation: %d", generation)
		return false
	}
	f()
	return true
}

// a remote call with metrics and tracing
func (s *Store) call(ctx context.Context, api remote.API, method string, params []interface{}) (json.RawMessage, error) {
	s.metrics.calls.WithLabelValues(method).Inc()
	s.log.Tracef("call: %s.%s  params: %v", api, method, params)

	result, err := s.client.Exec(ctx, api, method, params)
	if nil != err {
		s.metrics.callErrors.WithLabelValues(method).Inc()
		return nil, err
	}
	s.log.Tracef("result: %s.%s  %s", api, method, result)
	return result, nil
}

// fire and forget call, used to make the node push changes of objects
func (s *Store) touch(ids []string) {
	if 0 == len(ids) {
		return
	}
	s.async(func(ctx context.Context, generation uint64) {
		_, err := s.call(ctx, remote.Database, "get_objects", []interface{}{ids})
		if nil != err {
			s.log.Warnf("get_objects: %v  error: %s", ids, err)
		}
	})
}

// first element of an array result, an empty map for null
func firstObject(raw json.RawMessage) (object.Map, error) {
	list, err := parseList(raw)
	if nil != err {
		return object.Map{}, err
	}
	if 0 == len(list) {
		return object.Map{}, nil
	}
	m, _ := list[0].(object.Map)
	return m, nil
}

// an array result, null is an empty list
func parseList(raw json.RawMessage) (object.List, error) {
	v, err := object.Parse(raw)
	if nil != err {
		return nil, err
	}
	if object.IsNull(v) {
		return object.List{}, nil
	}
	list, ok := v.(object.List)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	return list, nil
}
