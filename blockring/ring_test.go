// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chainstore/blockring"
)

func TestPushFrontBounds(t *testing.T) {
	r := blockring.New[int](blockring.BlockSize)

	const m = 57
	for i := 1; i <= m; i += 1 {
		r.PushFront(i)
	}

	assert.Equal(t, blockring.BlockSize, r.Len(), "wrong size")
	assert.True(t, r.Full(), "not full")

	items := r.Items()
	for i, v := range items {
		assert.Equal(t, m-i, v, "wrong item at: %d", i)
	}

	latest, ok := r.Latest()
	assert.True(t, ok, "no latest")
	assert.Equal(t, m, latest, "wrong latest")
}

func TestAppend(t *testing.T) {
	r := blockring.New[string](3)

	assert.True(t, r.Append("c"))
	assert.True(t, r.Append("b"))
	r.PushFront("d")
	assert.False(t, r.Append("a"), "append to full ring")
	assert.Equal(t, []string{"d", "c", "b"}, r.Items(), "wrong order")

	r.PushFront("e")
	assert.Equal(t, []string{"e", "d", "c"}, r.Items(), "oldest not evicted")
}

func TestReaderAndClear(t *testing.T) {
	r := blockring.New[int](blockring.OperationSize)
	for i := 0; i < 5; i += 1 {
		r.PushFront(i)
	}

	rd := blockring.NewReader(r)
	expected := 4
	for rd.Next() {
		assert.Equal(t, expected, rd.Get(), "wrong item")
		expected -= 1
	}
	assert.Equal(t, -1, expected, "not all items read")

	r.Clear()
	assert.Equal(t, 0, r.Len(), "not cleared")
	_, ok := r.Latest()
	assert.False(t, ok, "latest after clear")
	assert.Equal(t, blockring.OperationSize, r.Cap(), "capacity changed")
}
