// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/fixtures"
	"github.com/bitmark-inc/chainstore/storage"
)

func TestMemoryBlocks(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s, err := storage.Open("")
	assert.Nil(t, err, "open error")
	defer s.Close()

	_, ok := s.HighestBlock()
	assert.False(t, ok, "empty store has blocks")

	for n := uint64(10); n <= 15; n += 1 {
		assert.Nil(t, s.PutBlock(n, []byte(`{"n":1}`)), "put error")
	}

	block, err := s.GetBlock(12)
	assert.Nil(t, err, "get error")
	assert.Equal(t, []byte(`{"n":1}`), block, "wrong block")

	block, err = s.GetBlock(99)
	assert.Nil(t, err, "missing block error")
	assert.Nil(t, block, "missing block returned data")

	highest, ok := s.HighestBlock()
	assert.True(t, ok, "no highest")
	assert.Equal(t, uint64(15), highest, "wrong highest")

	count, err := s.PruneBlocks(13)
	assert.Nil(t, err, "prune error")
	assert.Equal(t, 3, count, "wrong prune count")
	assert.Equal(t, 3, s.Blocks.Count(), "wrong remaining count")
	assert.False(t, s.Blocks.Has(storage.NumberKey(12)), "pruned block present")
	assert.True(t, s.Blocks.Has(storage.NumberKey(13)), "kept block missing")
}

func TestWitnessAccounts(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s, err := storage.Open("")
	assert.Nil(t, err, "open error")
	defer s.Close()

	assert.Nil(t, s.PutWitnessAccount("1.6.1", "init0"), "put error")
	name, err := s.GetWitnessAccount("1.6.1")
	assert.Nil(t, err, "get error")
	assert.Equal(t, "init0", name, "wrong name")

	name, err = s.GetWitnessAccount("1.6.2")
	assert.Nil(t, err, "missing error")
	assert.Equal(t, "", name, "missing witness has a name")

	// pools do not overlap
	assert.Equal(t, 0, s.Blocks.Count(), "witness stored as block")
}

func TestReopenFile(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	dir, err := ioutil.TempDir("", "chainstore-storage")
	assert.Nil(t, err, "temp dir error")
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "blocks.leveldb")
	s, err := storage.Open(name)
	assert.Nil(t, err, "open error")
	assert.Nil(t, s.PutBlock(7, []byte("seven")), "put error")
	s.Close()

	assert.Equal(t, fault.ErrNotInitialised, s.PutBlock(8, []byte("x")), "closed store accepted write")

	s, err = storage.Open(name)
	assert.Nil(t, err, "reopen error")
	defer s.Close()
	block, err := s.GetBlock(7)
	assert.Nil(t, err, "get error")
	assert.Equal(t, []byte("seven"), block, "block lost")
}
