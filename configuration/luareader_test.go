// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chainstore/configuration"
	"github.com/bitmark-inc/chainstore/fault"
)

type nodeType struct {
	URL      string `gluamapper:"url"`
	Username string `gluamapper:"username"`
}

type testConfiguration struct {
	Node     nodeType `gluamapper:"node"`
	Accounts []string `gluamapper:"accounts"`
	Depth    int      `gluamapper:"scan_depth"`
}

const source = `
local M = {}
M.node = {
    url = "http://127.0.0.1:8090/rpc",
    username = "user",
}
M.accounts = { "alice", "bob" }
M.scan_depth = 1000 * 2
return M
`

func TestParseString(t *testing.T) {
	var c testConfiguration
	err := configuration.ParseConfigurationString(source, &c)
	assert.Nil(t, err, "parse error")
	assert.Equal(t, "http://127.0.0.1:8090/rpc", c.Node.URL, "wrong url")
	assert.Equal(t, "user", c.Node.Username, "wrong user")
	assert.Equal(t, []string{"alice", "bob"}, c.Accounts, "wrong accounts")
	assert.Equal(t, 2000, c.Depth, "wrong depth")
}

func TestParseFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "chainstore-config")
	assert.Nil(t, err, "temp dir error")
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "test.conf")
	err = ioutil.WriteFile(name, []byte(source), 0600)
	assert.Nil(t, err, "write error")

	var c testConfiguration
	err = configuration.ParseConfigurationFile(name, &c)
	assert.Nil(t, err, "parse error")
	assert.Equal(t, []string{"alice", "bob"}, c.Accounts, "wrong accounts")
}

func TestParseErrors(t *testing.T) {
	var c testConfiguration
	assert.Equal(t, fault.ErrInvalidStructPointer, configuration.ParseConfigurationString(source, c), "non pointer accepted")

	n := 0
	assert.Equal(t, fault.ErrInvalidStructPointer, configuration.ParseConfigurationString(source, &n), "non struct accepted")

	assert.NotNil(t, configuration.ParseConfigurationString("return {", &c), "syntax error accepted")
	assert.Equal(t, fault.ErrMissingParameters, configuration.ParseConfigurationString("return 1", &c), "non table accepted")
}
