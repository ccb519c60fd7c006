// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockscan

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/chainstore/blockring"
	"github.com/bitmark-inc/chainstore/chaintime"
	"github.com/bitmark-inc/chainstore/codec"
	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/object"
)

// DefaultDepth - blocks walked by the initial scan
const DefaultDepth = 2000

// Configuration - scanner limits
type Configuration struct {
	Depth             uint64
	BlockRingSize     int
	OperationRingSize int
	BlockRate         float64 // blocks per second, zero is unlimited
}

// Scanner - fills the recent blocks and recent operations rings
type Scanner struct {
	sync.Mutex

	log     *logger.L
	source  Source
	decoder codec.Decoder
	limiter *rate.Limiter
	depth   uint64

	blocks     *blockring.Ring[Block]
	operations *blockring.Ring[Operation]

	state         State
	rearm         uint64
	lastProcessed uint64
	initialised   bool
	seen          map[uint64]struct{}
	generation    uint64

	changed func()
}

// New - create an idle scanner
func New(log *logger.L, source Source, decoder codec.Decoder, configuration Configuration) *Scanner {
	depth := configuration.Depth
	if 0 == depth {
		depth = DefaultDepth
	}
	blockSize := configuration.BlockRingSize
	if blockSize <= 0 {
		blockSize = blockring.BlockSize
	}
	operationSize := configuration.OperationRingSize
	if operationSize <= 0 {
		operationSize = blockring.OperationSize
	}
	limit := rate.Inf
	if configuration.BlockRate > 0 {
		limit = rate.Limit(configuration.BlockRate)
	}
	if nil == decoder {
		decoder = codec.JSON{}
	}

	return &Scanner{
		log:        log,
		source:     source,
		decoder:    decoder,
		limiter:    rate.NewLimiter(limit, 1),
		depth:      depth,
		blocks:     blockring.New[Block](blockSize),
		operations: blockring.New[Operation](operationSize),
		seen:       make(map[uint64]struct{}),
	}
}

// OnChange - hook called after a scan added blocks
func (s *Scanner) OnChange(f func()) {
	s.Lock()
	s.changed = f
	s.Unlock()
}

// State - current state
func (s *Scanner) State() State {
	s.Lock()
	defer s.Unlock()
	return s.state
}

// Initialised - the initial scan has completed
func (s *Scanner) Initialised() bool {
	s.Lock()
	defer s.Unlock()
	return s.initialised
}

// LastProcessed - highest block number processed
func (s *Scanner) LastProcessed() uint64 {
	s.Lock()
	defer s.Unlock()
	return s.lastProcessed
}

// Blocks - recent blocks, most recent first
func (s *Scanner) Blocks() []Block {
	return s.blocks.Items()
}

// Operations - recent operations, most recent first
func (s *Scanner) Operations() []Operation {
	return s.operations.Items()
}

// Reset - forget everything, a scan in progress keeps running but
// its results are discarded by the next initial scan
func (s *Scanner) Reset() {
	s.Lock()
	defer s.Unlock()

	s.blocks.Clear()
	s.operations.Clear()
	s.rearm = 0
	s.lastProcessed = 0
	s.initialised = false
	s.seen = make(map[uint64]struct{})
	s.generation += 1
}

// Run - scan for a newly observed head, zero requests the initial scan
//
// returns at once if a scan is already running, the head is then
// scanned after the running scan completes; until the initial scan
// has succeeded every call performs it
func (s *Scanner) Run(ctx context.Context, head uint64) error {
	s.Lock()
	if Scanning == s.state {
		if head > s.rearm {
			s.rearm = head
		}
		s.Unlock()
		return nil
	}
	s.state = Scanning
	initial := !s.initialised
	generation := s.generation
	s.Unlock()

	var err error
	for {
		if initial {
			err = s.initialScan(ctx, generation)
		} else {
			err = s.laterScan(ctx, head, generation)
		}
		if errReset == err {
			err = nil
		}

		s.Lock()
		head = s.rearm
		s.rearm = 0
		initial = !s.initialised
		generation = s.generation
		if nil != err || 0 == head || nil != ctx.Err() {
			s.state = Idle
			s.Unlock()
			return err
		}
		s.Unlock()
	}
}

// a scan started before Reset stops without touching the rings
var errReset = fault.ProcessError("scanner reset")

func (s *Scanner) current(generation uint64) bool {
	s.Lock()
	defer s.Unlock()
	return generation == s.generation
}

func (s *Scanner) initialScan(ctx context.Context, generation uint64) error {
	head, err := s.source.HeadBlockNumber(ctx)
	if nil != err {
		s.log.Errorf("initial scan: head block error: %s", err)
		return err
	}

	scanTo := uint64(1)
	if head > s.depth+1 {
		scanTo = head - s.depth
	}

	s.Lock()
	if generation != s.generation {
		s.Unlock()
		return errReset
	}
	s.lastProcessed = head
	s.Unlock()

	s.log.Infof("initial scan: %d down to: %d", head, scanTo)

	for current := head; current > scanTo; current -= 1 {
		if s.blocks.Full() && s.operations.Full() {
			s.log.Debugf("initial scan: rings full at block: %d", current)
			break
		}

		block, operations, err := s.fetch(ctx, current)
		if nil != err {
			s.log.Errorf("initial scan: block: %d  error: %s", current, err)
			return err
		}
		if !s.current(generation) {
			return errReset
		}
		if !s.markSeen(current) {
			continue
		}

		s.blocks.Append(block)
		for i := len(operations) - 1; i >= 0; i -= 1 {
			if !s.operations.Append(operations[i]) {
				break
			}
		}
	}

	s.Lock()
	if generation != s.generation {
		s.Unlock()
		return errReset
	}
	s.initialised = true
	changed := s.changed
	s.Unlock()

	s.log.Info("initial scan complete")
	if nil != changed {
		changed()
	}
	return nil
}

func (s *Scanner) laterScan(ctx context.Context, head uint64, generation uint64) error {
	s.Lock()
	scanTo := s.lastProcessed
	s.Unlock()

	if head <= scanTo {
		return nil
	}

	// collected newest first
	type scanned struct {
		block      Block
		operations []Operation
	}
	batch := make([]scanned, 0, head-scanTo)

	for current := head; current > scanTo; current -= 1 {
		block, operations, err := s.fetch(ctx, current)
		if nil != err {
			s.log.Errorf("scan: block: %d  error: %s", current, err)
			return err
		}
		batch = append(batch, scanned{block: block, operations: operations})
	}

	if !s.current(generation) {
		return errReset
	}

	added := 0
	for i := len(batch) - 1; i >= 0; i -= 1 {
		b := batch[i]
		if !s.markSeen(b.block.Number) {
			continue
		}
		s.blocks.PushFront(b.block)
		for _, op := range b.operations {
			s.operations.PushFront(op)
		}
		added += 1
	}

	s.Lock()
	if head > s.lastProcessed {
		s.lastProcessed = head
	}
	s.prune()
	changed := s.changed
	s.Unlock()

	s.log.Debugf("scan: %d new blocks up to: %d", added, head)
	if added > 0 && nil != changed {
		changed()
	}
	return nil
}

// record a block number, false if already processed
func (s *Scanner) markSeen(number uint64) bool {
	s.Lock()
	defer s.Unlock()
	if _, ok := s.seen[number]; ok {
		return false
	}
	s.seen[number] = struct{}{}
	return true
}

// must hold lock
func (s *Scanner) prune() {
	if s.lastProcessed <= s.depth {
		return
	}
	limit := s.lastProcessed - s.depth
	for n := range s.seen {
		if n < limit {
			delete(s.seen, n)
		}
	}
}

// read and decode one block
func (s *Scanner) fetch(ctx context.Context, number uint64) (Block, []Operation, error) {
	err := s.limiter.Wait(ctx)
	if nil != err {
		return Block{}, nil, err
	}

	value, err := s.source.Block(ctx, number)
	if nil != err {
		return Block{}, nil, err
	}
	if 0 == value.Len() {
		return Block{}, nil, fault.ErrInvalidPayload
	}

	timestamp, err := chaintime.ParseTime(value.GetString("timestamp"))
	if nil != err {
		return Block{}, nil, err
	}

	witness := value.GetString("witness")
	name, err := s.source.WitnessAccountName(ctx, witness)
	if nil != err {
		s.log.Warnf("block: %d  witness: %s  name error: %s", number, witness, err)
		name = ""
	}

	block := Block{
		Number:             number,
		Timestamp:          timestamp,
		Witness:            witness,
		WitnessAccountName: name,
		Value: value.
			With("id", object.Int(int64(number))).
			With("witness_account_name", object.String(name)),
	}

	operations := []Operation{}
	transactions, _ := value.Get("transactions")
	list, _ := transactions.(object.List)
	for _, t := range list {
		tx, ok := t.(object.Map)
		if !ok {
			continue
		}
		ops, _ := tx.Get("operations")
		opList, _ := ops.(object.List)
		for _, o := range opList {
			op, err := s.decodeOperation(o, number, timestamp)
			if nil != err {
				s.log.Warnf("block: %d  bad operation: %s", number, err)
				continue
			}
			operations = append(operations, op)
		}
	}
	return block, operations, nil
}

// an operation is a pair [tag, body]
func (s *Scanner) decodeOperation(v object.Value, number uint64, timestamp time.Time) (Operation, error) {
	pair, ok := v.(object.List)
	if !ok || 2 != len(pair) {
		return Operation{}, fault.ErrInvalidPayload
	}
	n, ok := pair[0].(object.Number)
	if !ok {
		return Operation{}, fault.ErrInvalidPayload
	}
	tag, ok := n.Int64()
	if !ok {
		return Operation{}, fault.ErrInvalidPayload
	}

	data, err := json.Marshal(pair[1])
	if nil != err {
		return Operation{}, err
	}
	body, err := s.decoder.Decode(int(tag), data)
	if nil != err {
		return Operation{}, err
	}

	body = body.
		With("block_id", object.Int(int64(number))).
		With("created_at", object.String(chaintime.FormatTime(timestamp)))

	return Operation{
		Tag:         int(tag),
		Name:        codec.OperationName(int(tag)),
		Body:        body,
		BlockNumber: number,
		Created:     timestamp,
	}, nil
}
