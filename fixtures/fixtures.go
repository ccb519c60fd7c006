// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared helpers for package tests
package fixtures

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/chainstore/object"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// SetupTestLogger - log to a scratch directory at critical level only
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the scratch directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}

// Object - parse a JSON object literal, panics on bad input
func Object(s string) object.Map {
	m, err := object.ParseMap([]byte(s))
	if nil != err {
		panic("fixtures: bad object: " + s)
	}
	return m
}
