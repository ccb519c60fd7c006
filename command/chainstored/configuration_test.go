// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testConfigurationText = `
local M = {}
M.data_directory = "."
M.pidfile = "chainstored.pid"
M.watch_list = "accounts.txt"
M.node = {
    url = "https://node.example.com/rpc",
    username = "user",
    password = "secret",
    poll_interval = 250,
}
M.store = {
    dispatch_frequency = 50,
}
M.logging = {
    size = 4096,
    count = 2,
    levels = {
        DEFAULT = "info",
    },
}
return M
`

func writeConfiguration(t *testing.T, text string) (string, string) {
	dir, err := ioutil.TempDir("", "chainstored-config")
	assert.Nil(t, err, "temp dir error")

	fileName := filepath.Join(dir, "chainstored.conf")
	err = ioutil.WriteFile(fileName, []byte(text), 0600)
	assert.Nil(t, err, "write error")
	return dir, fileName
}

func TestGetConfiguration(t *testing.T) {
	dir, fileName := writeConfiguration(t, testConfigurationText)
	defer os.RemoveAll(dir)

	// temp directories may be reached through a symlink
	dir, _ = filepath.Abs(dir)

	c, err := getConfiguration(fileName)
	assert.Nil(t, err, "configuration error")

	assert.Equal(t, filepath.Clean(dir), filepath.Clean(c.DataDirectory), "wrong data directory")
	assert.Equal(t, filepath.Join(dir, "chainstored.pid"), c.PidFile, "wrong pid file")
	assert.Equal(t, filepath.Join(dir, "accounts.txt"), c.WatchList, "wrong watch list")
	assert.Equal(t, filepath.Join(dir, "data", "blocks.leveldb"), c.Database.Name, "wrong database")
	assert.Equal(t, filepath.Join(dir, "log", "chainstored.log"), c.Logging.File, "wrong log file")
	assert.EqualValues(t, 4096, c.Logging.Size, "wrong log size")
	assert.Equal(t, 50, c.Store.DispatchFrequency, "wrong dispatch frequency")

	info, err := os.Stat(c.Database.Directory)
	assert.Nil(t, err, "database directory not created")
	assert.True(t, info.IsDir(), "database directory is not a directory")

	r := c.remote()
	assert.Equal(t, "https://node.example.com/rpc", r.URL, "wrong url")
	assert.Equal(t, "user", r.Username, "wrong username")
	assert.Equal(t, "secret", r.Password, "wrong password")
	assert.Equal(t, 250*time.Millisecond, r.PollInterval, "wrong poll interval")
	assert.Equal(t, time.Duration(defaultTimeout)*time.Millisecond, r.Timeout, "default timeout not kept")
	assert.Equal(t, defaultInitRetry, c.Node.InitRetry, "default retry not kept")
}

func TestGetConfigurationWithoutNode(t *testing.T) {
	dir, fileName := writeConfiguration(t, `
local M = {}
M.data_directory = "."
return M
`)
	defer os.RemoveAll(dir)

	_, err := getConfiguration(fileName)
	assert.NotNil(t, err, "missing node url accepted")
}

func TestGetConfigurationBadDataDirectory(t *testing.T) {
	dir, fileName := writeConfiguration(t, `
local M = {}
M.node = { url = "http://127.0.0.1:8090/rpc" }
return M
`)
	defer os.RemoveAll(dir)

	_, err := getConfiguration(fileName)
	assert.NotNil(t, err, "empty data directory accepted")
}

func TestGetConfigurationPathInFileName(t *testing.T) {
	dir, fileName := writeConfiguration(t, `
local M = {}
M.data_directory = "."
M.node = { url = "http://127.0.0.1:8090/rpc" }
M.database = { name = "sub/blocks.leveldb" }
return M
`)
	defer os.RemoveAll(dir)

	_, err := getConfiguration(fileName)
	assert.NotNil(t, err, "database name with a path accepted")
}

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/data/log", ensureAbsolute("/data", "log"), "relative path")
	assert.Equal(t, "/var/log", ensureAbsolute("/data", "/var/log"), "absolute path")
	assert.Equal(t, "/data/log", ensureAbsolute("/data", "./x/../log"), "unclean path")
}
