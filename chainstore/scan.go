// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"context"
	"encoding/json"

	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/object"
	"github.com/bitmark-inc/chainstore/remote"
)

// blocks for the scanner, irreversible blocks are kept in storage
type blockSource struct {
	store *Store
}

func (b *blockSource) HeadBlockNumber(ctx context.Context) (uint64, error) {
	s := b.store

	raw, err := s.call(ctx, remote.Database, "get_dynamic_global_properties", []interface{}{})
	if nil != err {
		return 0, err
	}
	properties, err := object.ParseMap(raw)
	if nil != err {
		return 0, err
	}
	n, ok := properties.GetNumber("head_block_number")
	if !ok {
		return 0, fault.ErrInvalidPayload
	}
	head, ok := n.Uint64()
	if !ok {
		return 0, fault.ErrInvalidPayload
	}

	if n, ok := properties.GetNumber("last_irreversible_block_num"); ok {
		if irreversible, ok := n.Uint64(); ok {
			s.Lock()
			s.irreversible = irreversible
			s.Unlock()
		}
	}

	depth := s.configuration.ScanDepth
	if nil != s.blocks && head > depth {
		_, err := s.blocks.PruneBlocks(head - depth)
		if nil != err {
			s.log.Warnf("prune blocks error: %s", err)
		}
	}
	return head, nil
}

func (b *blockSource) Block(ctx context.Context, number uint64) (object.Map, error) {
	s := b.store

	if nil != s.blocks {
		data, err := s.blocks.GetBlock(number)
		if nil != err {
			s.log.Warnf("block: %d  storage error: %s", number, err)
		} else if nil != data {
			return object.ParseMap(data)
		}
	}

	raw, err := s.call(ctx, remote.Database, "get_block", []interface{}{number})
	if nil != err {
		return object.Map{}, err
	}
	v, err := object.Parse(raw)
	if nil != err {
		return object.Map{}, err
	}
	block, ok := v.(object.Map)
	if !ok {
		// not yet available on the node
		return object.Map{}, fault.ErrTransientFetch
	}

	s.Lock()
	irreversible := s.irreversible
	s.Unlock()

	if nil != s.blocks && number <= irreversible {
		data, err := json.Marshal(block)
		if nil == err {
			err = s.blocks.PutBlock(number, data)
		}
		if nil != err {
			s.log.Warnf("block: %d  store error: %s", number, err)
		}
	}
	return block, nil
}

func (b *blockSource) WitnessAccountName(ctx context.Context, witnessId string) (string, error) {
	s := b.store

	if nil != s.blocks {
		name, err := s.blocks.GetWitnessAccount(witnessId)
		if nil == err && "" != name {
			return name, nil
		}
	}

	account, err := s.GetWitnessAccount(ctx, witnessId)
	if nil != err {
		return "", err
	}
	name := account.GetString("name")
	if nil != s.blocks && "" != name {
		err := s.blocks.PutWitnessAccount(witnessId, name)
		if nil != err {
			s.log.Warnf("witness: %s  store error: %s", witnessId, err)
		}
	}
	return name, nil
}
