// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/chainstore/cache"
	"github.com/bitmark-inc/chainstore/chainstore"
)

// setup command handler
//
// commands that run without the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "version", "v":
		fmt.Printf("%s\n", version)

	case "help", "h", "?":
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                   (h)      - display this message\n\n")
		fmt.Printf("  version                (v)      - display version string\n\n")
		fmt.Printf("  config                 (conf)   - print the configuration as JSON\n\n")
		fmt.Printf("  watch-list             (wl)     - print the accounts of the watch list\n\n")
		fmt.Printf("  account NAME|ID...     (acc)    - fetch accounts from the node and print them\n\n")
		fmt.Printf("  asset SYMBOL|ID...              - fetch assets from the node and print them\n\n")
		fmt.Printf("  object ID...           (obj)    - fetch objects from the node and print them\n\n")

	default:
		return false
	}

	return true
}

// configuration command handler
//
// commands that only inspect the configuration
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := arguments[0]

	switch command {
	case "config", "conf":
		c := *options
		if "" != c.Node.Password {
			c.Node.Password = "********"
		}
		printJson(c)

	case "watch-list", "wl":
		if "" == options.WatchList {
			exitwithstatus.Message("no watch_list in the configuration")
		}
		entries, err := readWatchList(options.WatchList)
		if nil != err {
			exitwithstatus.Message("read watch list: %q  error: %s", options.WatchList, err)
		}
		for _, entry := range entries {
			fmt.Println(entry)
		}

	default:
		return false
	}

	return true
}

// store command handler
//
// commands that need a synced store, the results are printed as JSON
func processStoreCommand(log *logger.L, store *chainstore.Store, arguments []string) bool {

	command := arguments[0]
	keys := arguments[1:]

	var get chainstore.Getter
	switch command {
	case "account", "acc":
		get = store.GetAccount
	case "asset":
		get = store.GetAsset
	case "object", "obj":
		get = func(id string) (cache.Entry, error) {
			return store.GetObject(id, false)
		}
	default:
		return false
	}

	if 0 == len(keys) {
		exitwithstatus.Message("%s: missing arguments", command)
	}

	entries, err := store.FetchChain(context.Background(), get, keys, 0)
	if nil != err {
		log.Errorf("%s: %v  error: %s", command, keys, err)
		exitwithstatus.Message("%s: error: %s", command, err)
	}

	result := make(map[string]interface{}, len(keys))
	for i, key := range keys {
		if cache.Present != entries[i].State {
			result[key] = nil
			continue
		}
		result[key] = entries[i].Value
	}
	printJson(result)
	return true
}

func printJson(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if nil != err {
		exitwithstatus.Message("JSON encode error: %s", err)
	}
	fmt.Fprintf(os.Stdout, "%s\n", b)
}
