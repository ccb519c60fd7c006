// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
)

// PutBlock - keep an irreversible block
func (s *Store) PutBlock(number uint64, block []byte) error {
	return s.Blocks.Put(NumberKey(number), block)
}

// GetBlock - a previously stored block, nil if not present
func (s *Store) GetBlock(number uint64) ([]byte, error) {
	return s.Blocks.Get(NumberKey(number))
}

// HighestBlock - number of the highest block stored
func (s *Store) HighestBlock() (uint64, bool) {
	e, ok := s.Blocks.LastElement()
	if !ok || 8 != len(e.Key) {
		return 0, false
	}
	return binary.BigEndian.Uint64(e.Key), true
}

// PruneBlocks - drop blocks numbered below n
func (s *Store) PruneBlocks(n uint64) (int, error) {
	count, err := s.Blocks.DeleteBelow(NumberKey(n))
	if nil == err && count > 0 {
		s.log.Debugf("pruned %d blocks below: %d", count, n)
	}
	return count, err
}

// PutWitnessAccount - remember the account name of a witness
func (s *Store) PutWitnessAccount(witnessId string, name string) error {
	return s.Witnesses.Put([]byte(witnessId), []byte(name))
}

// GetWitnessAccount - account name of a witness, "" if unknown
func (s *Store) GetWitnessAccount(witnessId string) (string, error) {
	value, err := s.Witnesses.Get([]byte(witnessId))
	if nil != err || nil == value {
		return "", err
	}
	return string(value), nil
}
