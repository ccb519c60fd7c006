// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chainstore/codec"
	"github.com/bitmark-inc/chainstore/fault"
)

func TestJSONDecode(t *testing.T) {
	var d codec.Decoder = codec.JSON{}

	op, err := d.Decode(0, []byte(`{"from":"1.2.5","to":"1.2.6","amount":{"amount":100,"asset_id":"1.3.0"}}`))
	assert.Nil(t, err, "decode error")
	assert.Equal(t, "1.2.5", op.GetString("from"), "wrong field")

	_, err = d.Decode(-1, []byte(`{}`))
	assert.Equal(t, fault.ErrInvalidPayload, err, "negative tag accepted")

	_, err = d.Decode(0, []byte(`[1]`))
	assert.NotNil(t, err, "array accepted")
}

func TestOperationName(t *testing.T) {
	assert.Equal(t, "transfer", codec.OperationName(0))
	assert.Equal(t, "limit_order_create", codec.OperationName(1))
	assert.Equal(t, "tournament_create", codec.OperationName(45))
	assert.Equal(t, "unknown", codec.OperationName(1000))
}
