// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/chainstore/fault"
)

// PoolHandle - one prefix of the database
type PoolHandle struct {
	store  *Store
	prefix byte
	limit  []byte
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) error {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return fault.ErrNotInitialised
	}
	return p.store.db.Put(p.prefixKey(key), value, nil)
}

// Delete - remove a key from the database
func (p *PoolHandle) Delete(key []byte) error {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return fault.ErrNotInitialised
	}
	return p.store.db.Delete(p.prefixKey(key), nil)
}

// Get - read a value for a given key, nil if not found
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return nil, fault.ErrNotInitialised
	}
	value, err := p.store.db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return false
	}
	found, err := p.store.db.Has(p.prefixKey(key), nil)
	return nil == err && found
}

// Count - number of keys in the pool
func (p *PoolHandle) Count() int {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return 0
	}

	iter := p.store.db.NewIterator(&ldb_util.Range{Start: []byte{p.prefix}, Limit: p.limit}, nil)
	defer iter.Release()
	n := 0
	for iter.Next() {
		n += 1
	}
	return n
}

// LastElement - the element with the highest key
func (p *PoolHandle) LastElement() (Element, bool) {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return Element{}, false
	}

	iter := p.store.db.NewIterator(&ldb_util.Range{Start: []byte{p.prefix}, Limit: p.limit}, nil)
	defer iter.Release()
	if !iter.Last() {
		return Element{}, false
	}

	key := make([]byte, len(iter.Key())-1)
	copy(key, iter.Key()[1:])
	value := make([]byte, len(iter.Value()))
	copy(value, iter.Value())
	return Element{Key: key, Value: value}, true
}

// DeleteBelow - remove every key that sorts before the given key
func (p *PoolHandle) DeleteBelow(key []byte) (int, error) {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return 0, fault.ErrNotInitialised
	}

	batch := new(leveldb.Batch)
	iter := p.store.db.NewIterator(&ldb_util.Range{Start: []byte{p.prefix}, Limit: p.prefixKey(key)}, nil)
	for iter.Next() {
		k := make([]byte, len(iter.Key()))
		copy(k, iter.Key())
		batch.Delete(k)
	}
	iter.Release()
	err := iter.Error()
	if nil != err {
		return 0, err
	}
	return batch.Len(), p.store.db.Write(batch, nil)
}

// NumberKey - big endian encoding of a block number
func NumberKey(n uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, n)
	return key
}
