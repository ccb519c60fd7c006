// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/chainstore/fault"
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentVersion = 0x100
)

// pool prefixes
const (
	blockPrefix   = 'B'
	witnessPrefix = 'W'
)

// Store - an open database
type Store struct {
	sync.RWMutex

	log *logger.L
	db  *leveldb.DB

	Blocks    *PoolHandle
	Witnesses *PoolHandle
}

// Open - open or create the database in a directory, an empty name
// selects a memory database
func Open(directory string) (*Store, error) {
	log := logger.New("storage")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	db, version, err := getDB(directory)
	if nil != err {
		return nil, err
	}

	// ensure no database downgrade
	if version > currentVersion {
		db.Close()
		log.Criticalf("database version: %d > current version: %d", version, currentVersion)
		return nil, fmt.Errorf("database version: %d > current version: %d", version, currentVersion)
	}

	if 0 == version {
		// database was empty so tag as current version
		err = putVersion(db, currentVersion)
		if nil != err {
			db.Close()
			return nil, err
		}
	}

	s := &Store{
		log: log,
		db:  db,
	}
	s.Blocks = s.newPool(blockPrefix)
	s.Witnesses = s.newPool(witnessPrefix)

	if "" == directory {
		log.Info("memory database opened")
	} else {
		log.Infof("database opened: %s", directory)
	}
	return s, nil
}

// Close - close the database connection
func (s *Store) Close() {
	s.Lock()
	defer s.Unlock()

	if nil != s.db {
		s.db.Close()
		s.db = nil
		s.log.Info("closed")
	}
}

func (s *Store) newPool(prefix byte) *PoolHandle {
	limit := []byte(nil)
	if prefix < 255 {
		limit = []byte{prefix + 1}
	}
	return &PoolHandle{
		store:  s,
		prefix: prefix,
		limit:  limit,
	}
}

// return:
//   database handle
//   version number
func getDB(name string) (*leveldb.DB, int, error) {
	var db *leveldb.DB
	var err error

	if "" == name {
		db, err = leveldb.Open(ldb_storage.NewMemStorage(), nil)
	} else {
		opt := &ldb_opt.Options{
			ErrorIfExist:   false,
			ErrorIfMissing: false,
		}
		db, err = leveldb.OpenFile(name, opt)
	}
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	current := make([]byte, 4)
	binary.BigEndian.PutUint32(current, uint32(version))

	return db.Put(versionKey, current, nil)
}
